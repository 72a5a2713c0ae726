package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Runner runs the epoch-end callbacks of one training or replay run.
type Runner struct {
	RunID    string
	handlers []CallbackHandler
}

func NewRunner(handlers ...CallbackHandler) *Runner {
	return &Runner{
		RunID:    uuid.NewString(),
		handlers: handlers,
	}
}

// Register adds a handler after construction.
func (r *Runner) Register(h CallbackHandler) {
	r.handlers = append(r.handlers, h)
}

// EpochEnd executes every handler due at this epoch. A failing handler never stops the
// others nor the run; failures are logged and returned joined.
func (r *Runner) EpochEnd(ctx context.Context, epoch int) error {
	var errs []error
	for _, h := range r.handlers {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		if !h.ShouldTrigger(epoch) {
			continue
		}

		startTime := time.Now()
		if err := h.Execute(ctx, epoch); err != nil {
			log.Error().Err(err).Str("run", r.RunID).Str("callback", h.GetName()).Int("epoch", epoch).
				Msg("epoch callback failed, continuing")
			errs = append(errs, fmt.Errorf("%s: %w", h.GetName(), err))
			continue
		}
		log.Debug().Str("run", r.RunID).Str("callback", h.GetName()).Int("epoch", epoch).
			Msgf("epoch callback done in %v", time.Since(startTime))
	}
	return errors.Join(errs...)
}
