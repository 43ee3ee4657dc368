package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ExpiredRevocations removes revoked-token records that can no longer matter
type ExpiredRevocations interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// RevocationPurger periodically deletes revocation records whose token has
// expired. Expired tokens fail validation on their own, so their records
// only grow the revoked_tokens collection.
type RevocationPurger struct {
	tokens     ExpiredRevocations
	interval   time.Duration
	startDelay time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
	running    bool
	mu         sync.Mutex
}

// NewRevocationPurger creates a new purge job
func NewRevocationPurger(tokens ExpiredRevocations, interval time.Duration) *RevocationPurger {
	if interval == 0 {
		interval = time.Hour
	}
	return &RevocationPurger{
		tokens:     tokens,
		interval:   interval,
		startDelay: 5 * time.Second,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the purge job
func (p *RevocationPurger) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run()
	slog.Info("revocation purger started", slog.Duration("interval", p.interval))
}

// Stop gracefully stops the purge job. A stopped purger cannot be restarted.
func (p *RevocationPurger) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)
	p.wg.Wait()
	slog.Info("revocation purger stopped")
}

func (p *RevocationPurger) run() {
	defer p.wg.Done()

	// Let the rest of the process finish starting
	select {
	case <-time.After(p.startDelay):
		p.purge()
	case <-p.stopCh:
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.purge()
		case <-p.stopCh:
			return
		}
	}
}

func (p *RevocationPurger) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	n, err := p.tokens.PurgeExpired(ctx)
	if err != nil {
		slog.Error("purging expired revocations", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		slog.Info("purged expired revocations", slog.Int("count", n))
	}
}

// RunOnce purges once (for testing or manual trigger)
func (p *RevocationPurger) RunOnce(ctx context.Context) (int, error) {
	return p.tokens.PurgeExpired(ctx)
}

// IsRunning returns whether the purger is running
func (p *RevocationPurger) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
