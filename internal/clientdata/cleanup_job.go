package clientdata

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultRetention is how long stale documents are kept as fallbacks.
const DefaultRetention = 7 * 24 * time.Hour

// CleanupJob removes cache documents older than the retention period.
// It should be scheduled to run daily.
type CleanupJob struct {
	repo      *Repository
	retention time.Duration
	log       zerolog.Logger
}

// NewCleanupJob creates a new cache cleanup job.
func NewCleanupJob(repo *Repository, retention time.Duration, log zerolog.Logger) *CleanupJob {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &CleanupJob{
		repo:      repo,
		retention: retention,
		log:       log.With().Str("job", "cache_cleanup").Logger(),
	}
}

// Run deletes expired documents.
func (j *CleanupJob) Run() error {
	deleted, err := j.repo.Prune(j.retention)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to prune cache documents")
		return err
	}

	if deleted > 0 {
		j.log.Info().
			Int("deleted", deleted).
			Dur("retention", j.retention).
			Msg("Cleaned up expired cache documents")
	}

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "cache_cleanup"
}
