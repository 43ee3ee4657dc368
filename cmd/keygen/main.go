package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/forgo/iglesia/api/pkg/jwt"
)

func main() {
	privateKeyPath := flag.String("key", "./keys/private.pem", "Path to write the JWT private key")
	publicKeyPath := flag.String("pub", "./keys/public.pem", "Path to write the JWT public key")
	force := flag.Bool("force", false, "Overwrite existing keys")
	printToken := flag.Bool("token", false, "Print a development token signed with the key")
	userID := flag.String("user", "dev-user", "User ID for the token")
	email := flag.String("email", "dev@iglesia.local", "Email for the token")
	issuer := flag.String("issuer", "iglesia-api", "JWT issuer")
	expMins := flag.Int("exp", 60*24, "Token expiration in minutes (default: 1 day)")
	outputJSON := flag.Bool("json", false, "Output the token as JSON")

	flag.Parse()

	if _, err := os.Stat(*privateKeyPath); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "Key %s already exists (use -force to overwrite)\n", *privateKeyPath)
	} else {
		for _, p := range []string{*privateKeyPath, *publicKeyPath} {
			if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
				fmt.Fprintf(os.Stderr, "Error creating key directory: %v\n", err)
				os.Exit(1)
			}
		}
		if err := jwt.GenerateKeyPair(*privateKeyPath, *publicKeyPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating keys: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s and %s\n", *privateKeyPath, *publicKeyPath)
	}

	if !*printToken {
		return
	}

	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: *privateKeyPath,
		Issuer:         *issuer,
		ExpirationMins: *expMins,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		os.Exit(1)
	}

	claims := jwt.Claims{
		UserID: *userID,
		Email:  *email,
	}
	claims.Subject = *userID

	token, err := jwtService.Sign(claims)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   *expMins * 60,
			"user_id":      *userID,
			"email":        *email,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
		return
	}

	expTime := time.Now().Add(time.Duration(*expMins) * time.Minute)
	fmt.Println("Development Token")
	fmt.Println("=================")
	fmt.Printf("User ID:  %s\n", *userID)
	fmt.Printf("Email:    %s\n", *email)
	fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
	fmt.Println()
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer $TOKEN\" http://localhost:8080/api/members")
}
