// Package jobs implements background work for the Iglesia API.
//
// Jobs run on their own goroutine, independently of HTTP request handling,
// and share one lifecycle:
//
//	purger := jobs.NewRevocationPurger(tokenService, cfg.Jobs.RevocationPurgeInterval)
//	purger.Start()
//	defer purger.Stop()
//
// RunOnce performs a single pass synchronously, for tests or manual triggers.
//
// # Jobs
//
//   - RevocationPurger: deletes revoked-token records whose token has expired
package jobs
