// Package config manages application configuration for the Iglesia API.
//
// Configuration comes from environment variables. A .env file, when present,
// is loaded first; variables already set in the environment win.
//
//	cfg, err := config.Load()
//	if err == nil {
//	    err = cfg.Validate()
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: document store driver and SurrealDB connection
//   - JWTConfig: RS256 key paths, issuer and token lifetime
//   - JobsConfig: background job intervals
//   - MetricsConfig: Prometheus exposition
//
// # Environment Variables
//
//	SERVER_PORT                - HTTP server port (default: 8080)
//	SERVER_ENV                 - development, production or test
//	CORS_ALLOWED_ORIGINS       - comma separated origins
//	AUTH_RATE_LIMIT            - sign in attempts per minute per client (default: 10, 0 disables)
//	DB_DRIVER                  - surrealdb (default) or memory
//	DB_HOST, DB_PORT           - SurrealDB address
//	DB_NAMESPACE, DB_DATABASE  - SurrealDB namespace and database
//	DB_USER, DB_PASSWORD       - SurrealDB credentials
//	JWT_PRIVATE_KEY_PATH       - PEM private key
//	JWT_PUBLIC_KEY_PATH        - PEM public key
//	JWT_ISSUER                 - token issuer (default: iglesia-api)
//	JWT_EXPIRATION_MINS        - access token lifetime (default: 60)
//	REVOCATION_PURGE_INTERVAL  - revoked token purge period (default: 1h)
//	METRICS_ENABLED            - expose /metrics (default: true)
//	METRICS_NAMESPACE          - metric name prefix (default: iglesia)
//
// Validate reports every problem at once, joined with errors.Join.
package config
