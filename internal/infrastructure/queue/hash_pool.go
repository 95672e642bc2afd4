package queue

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/backoffice-api/internal/core/ports"
	"github.com/99minutos/backoffice-api/internal/pkg/metrics"
)

const channelBuffer = 256

// ErrPoolStopped is returned when a job is submitted after the pool's context ended.
var ErrPoolStopped = errors.New("hash pool stopped")

type jobKind int

const (
	jobHash jobKind = iota
	jobVerify
)

func (k jobKind) String() string {
	if k == jobHash {
		return "hash"
	}
	return "verify"
}

type hashJob struct {
	ctx       context.Context
	kind      jobKind
	plaintext string
	digest    string
	result    chan hashResult
}

type hashResult struct {
	digest string
	ok     bool
	err    error
}

// HashPool runs password hashing on a fixed set of workers so that a burst of
// logins cannot occupy every CPU with bcrypt. It implements ports.PasswordHasher.
type HashPool struct {
	jobs    chan hashJob
	inner   ports.PasswordHasher
	workers int
	log     zerolog.Logger
	done    <-chan struct{}
}

// NewHashPool creates a HashPool wrapping inner with numWorkers workers.
// If numWorkers <= 0, one worker per CPU is used.
func NewHashPool(numWorkers int, inner ports.PasswordHasher, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &HashPool{
		jobs:    make(chan hashJob, channelBuffer),
		inner:   inner,
		workers: numWorkers,
		log:     log,
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (p *HashPool) Start(ctx context.Context) {
	p.done = ctx.Done()
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
}

// Hash submits a hashing job and waits for its result.
func (p *HashPool) Hash(ctx context.Context, plaintext string) (string, error) {
	res, err := p.submit(ctx, hashJob{kind: jobHash, plaintext: plaintext})
	return res.digest, err
}

// Verify submits a verification job and waits for its result.
func (p *HashPool) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	res, err := p.submit(ctx, hashJob{kind: jobVerify, plaintext: plaintext, digest: digest})
	return res.ok, err
}

func (p *HashPool) submit(ctx context.Context, job hashJob) (hashResult, error) {
	job.ctx = ctx
	job.result = make(chan hashResult, 1)

	select {
	case p.jobs <- job:
		metrics.HashPoolQueueDepth.Inc()
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	case <-p.done:
		return hashResult{}, ErrPoolStopped
	}

	select {
	case res := <-job.result:
		return res, res.err
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	case <-p.done:
		return hashResult{}, ErrPoolStopped
	}
}

func (p *HashPool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			metrics.HashPoolQueueDepth.Dec()
			// The caller stopped waiting; skip the bcrypt work.
			if job.ctx.Err() != nil {
				continue
			}
			job.result <- p.run(job, id)
		}
	}
}

func (p *HashPool) run(job hashJob, id int) hashResult {
	start := time.Now()
	var res hashResult
	switch job.kind {
	case jobHash:
		res.digest, res.err = p.inner.Hash(job.ctx, job.plaintext)
	case jobVerify:
		res.ok, res.err = p.inner.Verify(job.ctx, job.plaintext, job.digest)
	}
	metrics.PasswordHashDuration.WithLabelValues(job.kind.String()).Observe(time.Since(start).Seconds())

	if res.err != nil && job.ctx.Err() == nil {
		p.log.Error().Err(res.err).
			Str("operation", job.kind.String()).
			Int("worker_id", id).
			Msg("password hashing failed")
	}
	return res
}
