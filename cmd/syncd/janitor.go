package main

import (
	"context"
	"log"
	"time"

	"github.com/KirkDiggler/partysync/internal/services/directory"
	"github.com/KirkDiggler/partysync/internal/services/presence"
)

// janitor applies lapsed disconnect writes and deletes abandoned sessions
type janitor struct {
	presence      presence.Service
	directory     directory.Service
	sweepInterval time.Duration
	staleAge      time.Duration
}

func (j *janitor) run(ctx context.Context) {
	ticker := time.NewTicker(j.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.tick(ctx)
		}
	}
}

func (j *janitor) tick(ctx context.Context) {
	// Both services log their own results; only failures are reported here
	_, err := j.presence.Sweep(ctx, &presence.SweepInput{})
	if err != nil {
		log.Printf("Sweep failed: %v", err)
	}

	if j.staleAge <= 0 {
		return
	}

	_, err = j.directory.CleanupStaleSessions(ctx, &directory.CleanupStaleSessionsInput{
		MaxAge: j.staleAge,
	})
	if err != nil {
		log.Printf("Stale session cleanup failed: %v", err)
	}
}
