package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/shopcircle/backend/pkg/config"
	"github.com/shopcircle/backend/pkg/db/models"
	"github.com/shopcircle/backend/pkg/enums"
	"github.com/shopcircle/backend/pkg/logger"
)

type expiredCartReader interface {
	FindExpired(ctx context.Context, cutoff time.Time, limit int) ([]models.Cart, error)
}

type cartStatusWriter interface {
	UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error
}

// CartExpiryJobParams configure the abandoned-cart sweep.
type CartExpiryJobParams struct {
	Logger *logger.Logger
	Reader expiredCartReader
	Writer cartStatusWriter
	Config config.CartConfig
}

// NewCartExpiryJob builds the job that marks carts past their expires_at as
// abandoned. Abandoned carts keep their rows; a returning user simply gets a
// fresh active cart.
func NewCartExpiryJob(params CartExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reader == nil {
		return nil, fmt.Errorf("expired cart reader required")
	}
	if params.Writer == nil {
		return nil, fmt.Errorf("cart status writer required")
	}
	batch := params.Config.SweepBatch
	if batch <= 0 {
		batch = 200
	}
	return &cartExpiryJob{
		logg:   params.Logger,
		reader: params.Reader,
		writer: params.Writer,
		batch:  batch,
		now:    time.Now,
	}, nil
}

type cartExpiryJob struct {
	logg   *logger.Logger
	reader expiredCartReader
	writer cartStatusWriter
	batch  int
	now    func() time.Time
}

func (j *cartExpiryJob) Name() string { return "cart-expiry" }

func (j *cartExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC()
	swept := 0
	var errs []error

	for {
		carts, err := j.reader.FindExpired(ctx, cutoff, j.batch)
		if err != nil {
			errs = append(errs, fmt.Errorf("query expired carts: %w", err))
			break
		}
		if len(carts) == 0 {
			break
		}

		failed := 0
		for _, cart := range carts {
			if err := j.writer.UpdateStatus(ctx, cart.ID, enums.CartStatusAbandoned); err != nil {
				errs = append(errs, fmt.Errorf("abandon cart %s: %w", cart.ID, err))
				failed++
				continue
			}
			swept++
		}
		// A batch where nothing succeeded would loop on the same rows.
		if failed == len(carts) {
			break
		}
		if len(carts) < j.batch {
			break
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"swept": swept, "failed": len(errs)})
	j.logg.Info(logCtx, "cart expiry sweep complete")
	return multierr.Combine(errs...)
}
