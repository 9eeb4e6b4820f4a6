package jobs

import (
	"context"
	"time"

	"github.com/casedesk/casedesk/pkg/logger"
)

// OverdueJobName is the scheduler name of the payment sweep.
const OverdueJobName = "payments-overdue"

const sweepTimeout = 2 * time.Minute

// OverdueSweeper moves payments whose due date has passed to OVERDUE.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// OverdueSweep returns the scheduled function for the payment sweep.
func OverdueSweep(sweeper OverdueSweeper, log *logger.Logger, now func() time.Time) func() {
	if now == nil {
		now = time.Now
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		asOf := now()
		count, err := sweeper.SweepOverdue(ctx, asOf)
		if err != nil {
			log.Error("Overdue payment sweep failed", "as_of", asOf, "error", err)
			return
		}
		log.Info("Overdue payment sweep finished", "as_of", asOf, "updated", count)
	}
}
