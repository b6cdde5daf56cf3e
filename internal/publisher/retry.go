package publisher

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

// Publisher publishes a single submission.
type Publisher interface {
	Publish(ctx context.Context, sub lrclib.Submission) error
}

// RetryResult summarizes a Retry run.
type RetryResult struct {
	Published int
	Failed    int
}

// Retry replays up to limit pending submissions (all when limit <= 0),
// oldest first. Each attempt is recorded in the queue. A cancelled context
// stops the run between submissions.
func Retry(ctx context.Context, p Publisher, q *Queue, limit int, logger zerolog.Logger) (RetryResult, error) {
	var res RetryResult

	pending, err := q.GetPending(ctx, limit)
	if err != nil {
		return res, err
	}

	for _, item := range pending {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		log := logger.With().Int64("id", item.ID).Str("track", item.Submission.TrackName).Logger()
		if err := p.Publish(ctx, item.Submission); err != nil {
			res.Failed++
			log.Warn().Err(err).Msg("Retry failed")
			if markErr := q.MarkError(ctx, item.ID, err.Error()); markErr != nil {
				return res, fmt.Errorf("failed to record error: %w", markErr)
			}
			continue
		}

		res.Published++
		log.Info().Msg("Published pending submission")
		if err := q.MarkPublished(ctx, item.ID); err != nil {
			return res, fmt.Errorf("failed to mark published: %w", err)
		}
	}

	return res, nil
}
