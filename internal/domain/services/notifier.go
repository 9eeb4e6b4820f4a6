package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/casedesk/casedesk/pkg/logger"
	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationFailure NotificationKind = "error"
)

// Notification is one toast shown to the user who triggered a mutation.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}

// Notifier is the user-visible feedback channel for mutations.
type Notifier interface {
	Success(ctx context.Context, title, message string)
	Failure(ctx context.Context, title string, err error)
}

type actorKey struct{}

// WithActor records the user on whose behalf the request runs.
func WithActor(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFromContext returns the acting user, if any.
func ActorFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// QueueNotifier pushes toasts onto a per-user list in the cache, where the
// portal picks them up. Without an actor the toast is only logged.
type QueueNotifier struct {
	cache  CacheService
	logger *logger.Logger
}

func NewQueueNotifier(cache CacheService, log *logger.Logger) *QueueNotifier {
	return &QueueNotifier{cache: cache, logger: log}
}

func (n *QueueNotifier) Success(ctx context.Context, title, message string) {
	n.push(ctx, Notification{Kind: NotificationSuccess, Title: title, Message: message})
}

func (n *QueueNotifier) Failure(ctx context.Context, title string, err error) {
	message := "unknown error"
	if err != nil {
		message = err.Error()
	}
	n.push(ctx, Notification{Kind: NotificationFailure, Title: title, Message: message})
}

func (n *QueueNotifier) push(ctx context.Context, note Notification) {
	note.ID = uuid.New()
	note.CreatedAt = time.Now().UTC()

	userID, ok := ActorFromContext(ctx)
	n.logger.Info("Notification",
		"kind", note.Kind,
		"title", note.Title,
		"message", note.Message,
		"user_id", userID,
	)
	if !ok {
		return
	}

	payload, err := json.Marshal(note)
	if err != nil {
		n.logger.Error("Failed to encode notification", "error", err)
		return
	}
	key := fmt.Sprintf(NotificationQueueKeyPattern, userID)
	if err := n.cache.LPush(ctx, key, payload); err != nil {
		n.logger.Error("Failed to queue notification", "user_id", userID, "error", err)
		return
	}
	if err := n.cache.Expire(ctx, key, NotificationRetention); err != nil {
		n.logger.Warn("Failed to set notification retention", "user_id", userID, "error", err)
	}
}

// Drain returns and removes the user's pending notifications, oldest first.
func (n *QueueNotifier) Drain(ctx context.Context, userID uuid.UUID, max int) ([]Notification, error) {
	key := fmt.Sprintf(NotificationQueueKeyPattern, userID)
	out := make([]Notification, 0)
	for max <= 0 || len(out) < max {
		raw, err := n.cache.RPop(ctx, key)
		if errors.Is(err, ErrCacheMiss) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("failed to read notifications: %w", err)
		}
		var note Notification
		if err := json.Unmarshal([]byte(raw), &note); err != nil {
			n.logger.Warn("Dropping malformed notification", "user_id", userID, "error", err)
			continue
		}
		out = append(out, note)
	}
	return out, nil
}
