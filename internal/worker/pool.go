// Package worker refreshes stored track energy from preview audio in the
// background.
package worker

import (
	"context"
	"log"
	"sync"

	"github.com/vibesense/vibesense/internal/core/ports"
)

// Job asks for one track's preview clip to be analyzed.
type Job struct {
	TrackID    string
	PreviewURL string
}

// Pool manages background workers for preview analysis.
type Pool struct {
	updater ports.FeatureUpdater
	jobs    chan Job
	wg      sync.WaitGroup
}

// NewPool creates a worker pool with the given queue size.
func NewPool(updater ports.FeatureUpdater, queueSize int) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Pool{updater: updater, jobs: make(chan Job, queueSize)}
}

// Start launches the worker goroutines.
func (p *Pool) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue.
func (p *Pool) Stop() {
	close(p.jobs)
	p.wg.Wait()
}

// Submit queues a job without blocking.
func (p *Pool) Submit(job Job) {
	select {
	case p.jobs <- job:
	default:
		log.Printf("WARN worker: dropping job for %s", job.TrackID)
	}
}

func (p *Pool) processJob(job Job) {
	if job.PreviewURL == "" {
		log.Printf("DEBUG worker: no preview URL for track %s, skipping analysis", job.TrackID)
		return
	}

	energy, err := AnalyzePreviewFunc(job.PreviewURL)
	if err != nil {
		log.Printf("WARN worker: preview analysis failed for %s: %v", job.TrackID, err)
		return
	}

	if err := p.updater.UpdateTrackEnergy(context.Background(), job.TrackID, energy); err != nil {
		log.Printf("WARN worker: failed to update track %s: %v", job.TrackID, err)
		return
	}
	log.Printf("DEBUG worker: refreshed energy for track %s (%.2f)", job.TrackID, energy)
}
