package service

import (
	"context"
	"log"
	"time"
)

// LearningWorker periodically sweeps candidate patterns into suggestions so
// the pipeline advances without anyone calling the batch endpoint.
type LearningWorker struct {
	learningSvc  LearningService
	pollInterval time.Duration
}

// NewLearningWorker creates a new LearningWorker.
func NewLearningWorker(learningSvc LearningService, pollInterval time.Duration) *LearningWorker {
	return &LearningWorker{learningSvc: learningSvc, pollInterval: pollInterval}
}

// Start runs the polling loop until ctx is canceled. Batches run one at a
// time; a tick that arrives while a batch is in flight is simply dropped by
// the ticker.
func (w *LearningWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Printf("learningWorker: started (poll=%s)", w.pollInterval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("learningWorker: shutdown complete")
			return
		case <-ticker.C:
			// A fresh context bounded per batch, so a shutdown during a
			// sweep does not strand a half-processed batch.
			batchCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := w.learningSvc.ProcessCandidates(batchCtx); err != nil {
				log.Printf("learningWorker: batch error: %v", err)
			}
			cancel()
		}
	}
}
