package jobs

import (
	"log"
	"time"

	"github.com/pixo-prints/pixo-backend/internal/storage"
)

// CleanupJob purges expired OTP rows in the background. Validation already
// checks expiry on its own; this just keeps the table from growing.
type CleanupJob struct {
	store    storage.Store
	interval time.Duration
	quit     chan struct{}
}

// NewCleanupJob creates a new cleanup job
func NewCleanupJob(store storage.Store, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		store:    store,
		interval: interval,
		quit:     make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (j *CleanupJob) Start() {
	log.Printf("Starting OTP cleanup job (every %s)", j.interval)
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed, err := j.store.DeleteExpiredOTPs()
				if err != nil {
					log.Printf("OTP cleanup failed: %v", err)
					continue
				}
				if removed > 0 {
					log.Printf("🧹 Purged %d expired OTPs", removed)
				}
			case <-j.quit:
				return
			}
		}
	}()
}

// Stop halts the sweep
func (j *CleanupJob) Stop() {
	close(j.quit)
	log.Println("Stopping OTP cleanup job...")
}
