package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// WarmupTimeout bounds one warm-up pass
const WarmupTimeout = 5 * time.Minute

// Warmer primes caches. services.Analytics implements it.
type Warmer interface {
	Warm(ctx context.Context) time.Duration
}

// WarmupJob fetches the indices, sector ETFs and coverage universe so
// interactive requests hit a warm cache.
type WarmupJob struct {
	warmer Warmer
	log    zerolog.Logger
}

// NewWarmupJob creates a warm-up job
func NewWarmupJob(warmer Warmer, log zerolog.Logger) *WarmupJob {
	return &WarmupJob{
		warmer: warmer,
		log:    log.With().Str("job", "cache_warmup").Logger(),
	}
}

// Run performs one warm-up pass
func (j *WarmupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), WarmupTimeout)
	defer cancel()

	took := j.warmer.Warm(ctx)
	j.log.Info().Dur("duration", took).Msg("Cache warmed")
	return nil
}

// Name returns the job name
func (j *WarmupJob) Name() string {
	return "cache_warmup"
}
