package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// operationTimeout bounds each persistence round-trip. There is no retry at
// this layer; a failed insert is reported to the caller as-is.
const operationTimeout = 5 * time.Second

// Subscriber is a persisted mailing-list subscriber.
type Subscriber struct {
	ID           uuid.UUID
	Email        string
	Name         string
	SubscribedAt time.Time
}

// NewSubscriber builds a subscriber with a fresh id and the current UTC
// time as subscription timestamp.
func NewSubscriber(email, name string) *Subscriber {
	return &Subscriber{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		SubscribedAt: time.Now().UTC(),
	}
}

// InsertSubscriber executes a single parameterized insert of the subscriber
// row. All values are bound, never concatenated into the query text.
func InsertSubscriber(ctx context.Context, pool *pgxpool.Pool, sub *Subscriber) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	const query = `INSERT INTO subscriptions (id, email, name, subscribed_at) VALUES ($1, $2, $3, $4)`
	if _, err := pool.Exec(ctx, query, sub.ID, sub.Email, sub.Name, sub.SubscribedAt); err != nil {
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}
