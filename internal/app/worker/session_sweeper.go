package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"alumnet/internal/domain/repository"
)

// Locker serializes sweeps across replicas. Acquire reports whether the caller
// now holds the lock; Release only removes a lock the caller still holds.
type Locker interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// SessionSweeper periodically flags expired sessions as invalidated and prunes
// long-dead rows. The lock ensures a single sweeper runs across replicas.
type SessionSweeper struct {
	lock        Locker
	sessionRepo repository.SessionRepository
	interval    time.Duration
	retention   time.Duration
}

func NewSessionSweeper(lock Locker, sessionRepo repository.SessionRepository, interval, retention time.Duration) *SessionSweeper {
	return &SessionSweeper{
		lock:        lock,
		sessionRepo: sessionRepo,
		interval:    interval,
		retention:   retention,
	}
}

func (w *SessionSweeper) Start(ctx context.Context) {
	log.Printf("Session sweeper started, interval %s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Session sweeper stopping...")
			return
		case <-ticker.C:
			flagged, pruned, err := w.Sweep(ctx, time.Now())
			if err != nil {
				log.Printf("ERROR: Session sweep failed: %v", err)
				continue
			}
			if flagged > 0 || pruned > 0 {
				log.Printf("Session sweep: flagged %d expired, pruned %d invalidated", flagged, pruned)
			}
		}
	}
}

// Sweep flags sessions whose validity window has passed and prunes invalidated
// rows that expired before the retention cutoff. It returns without touching
// the store when another replica holds the lock.
func (w *SessionSweeper) Sweep(ctx context.Context, now time.Time) (flagged, pruned int64, err error) {
	acquired, err := w.lock.Acquire(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("acquiring sweep lock: %w", err)
	}
	if !acquired {
		// Another replica holds the lock.
		return 0, 0, nil
	}
	defer func() {
		if relErr := w.lock.Release(ctx); relErr != nil {
			log.Printf("ERROR: Failed to release sweep lock: %v", relErr)
		}
	}()

	flagged, err = w.sessionRepo.MarkExpiredInvalidated(ctx, now)
	if err != nil {
		return 0, 0, fmt.Errorf("flagging expired sessions: %w", err)
	}

	pruned, err = w.sessionRepo.DeleteInvalidatedBefore(ctx, now.Add(-w.retention))
	if err != nil {
		return flagged, 0, fmt.Errorf("pruning invalidated sessions: %w", err)
	}
	return flagged, pruned, nil
}
