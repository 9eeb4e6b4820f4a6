package services

import (
	"context"
	"fmt"
	"time"

	"github.com/casedesk/casedesk/internal/domain/entities"
	"github.com/casedesk/casedesk/internal/domain/querykeys"
	"github.com/casedesk/casedesk/internal/domain/repositories"
	"github.com/google/uuid"
)

type PaymentService struct {
	base
	payments repositories.PaymentRepository
}

func NewPaymentService(payments repositories.PaymentRepository, deps Deps) *PaymentService {
	return &PaymentService{
		base:     newBase(deps, "payment_service"),
		payments: payments,
	}
}

func (s *PaymentService) List(ctx context.Context, filters repositories.PaymentFilters) ([]entities.Payment, error) {
	return Fetch(ctx, s.queries, querykeys.Payments.Lists(filters), func(ctx context.Context) ([]entities.Payment, error) {
		return s.payments.List(ctx, filters)
	})
}

func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return Fetch(ctx, s.queries, querykeys.Payments.Detail(id.String()), func(ctx context.Context) (*entities.Payment, error) {
		return s.payments.GetByID(ctx, id)
	})
}

func (s *PaymentService) Create(ctx context.Context, input repositories.CreatePaymentInput) (*entities.Payment, error) {
	op := mutationOp{name: "create payment", success: "Payment created", failure: "Failed to create payment"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Payment, error) {
			return s.payments.Create(ctx, input)
		},
		func(p *entities.Payment, fx *cacheEffects) {
			fx.Invalidate(querykeys.Payments.Lists(nil), querykeys.Cases.Detail(p.CaseID.String()))
		},
	)
}

func (s *PaymentService) Update(ctx context.Context, id uuid.UUID, input repositories.UpdatePaymentInput) (*entities.Payment, error) {
	op := mutationOp{name: "update payment", success: "Payment updated", failure: "Failed to update payment"}
	return mutate(ctx, s.runner, op,
		func(ctx context.Context) (*entities.Payment, error) {
			return s.payments.Update(ctx, id, input)
		},
		func(p *entities.Payment, fx *cacheEffects) {
			fx.Invalidate(
				querykeys.Payments.Lists(nil),
				querykeys.Payments.Detail(id.String()),
				querykeys.Cases.Detail(p.CaseID.String()),
			)
		},
	)
}

func (s *PaymentService) Delete(ctx context.Context, id uuid.UUID) error {
	op := mutationOp{name: "delete payment", success: "Payment deleted", failure: "Failed to delete payment"}
	_, err := mutate(ctx, s.runner, op,
		deletion(func(ctx context.Context) error {
			return s.payments.Delete(ctx, id)
		}),
		func(_ struct{}, fx *cacheEffects) {
			fx.Remove(querykeys.Payments.Detail(id.String()))
			fx.Invalidate(querykeys.Payments.Lists(nil), querykeys.Cases.Scoped(querykeys.ScopeDetail))
		},
	)
	return err
}

// SweepOverdue moves payments past their due date to OVERDUE. It runs from
// the worker, so it notifies nobody; the payments namespace is invalidated
// only when something moved.
func (s *PaymentService) SweepOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	moved, err := s.payments.MarkOverdue(ctx, asOf)
	if err != nil {
		return 0, fmt.Errorf("overdue sweep failed: %w", err)
	}
	if moved == 0 {
		return 0, nil
	}

	s.logger.Info("Payments marked overdue", "count", moved, "as_of", asOf.Format("2006-01-02"))
	if err := s.queries.Invalidate(ctx, querykeys.Payments.All()); err != nil {
		s.logger.Warn("Failed to invalidate payments", "error", err)
	}
	return moved, nil
}
