// Package store provides the storage interface and the in-memory
// implementation backing the waitlist, subscriber, and quote-trace records.
package store

import (
	"context"
	"fmt"

	"github.com/carlycompare/carlycompare/pkg/models"
)

// Store is the storage contract handler code depends on, so tests and future
// database-backed implementations stay swappable.
type Store interface {
	WaitlistStore
	SubscriberStore
	QuoteTraceStore

	// Ping checks that the store is usable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the store.
	Close() error
}

// WaitlistStore manages launch-waitlist submissions.
type WaitlistStore interface {
	CreateWaitlistEntry(ctx context.Context, entry *models.WaitlistEntry) error
	ListWaitlistEntries(ctx context.Context) ([]models.WaitlistEntry, error)
}

// SubscriberStore manages mailing-list signups. CreateSubscriber fails with
// *ErrConflict on a duplicate email.
type SubscriberStore interface {
	CreateSubscriber(ctx context.Context, sub *models.Subscriber) error
	ListSubscribers(ctx context.Context) ([]models.Subscriber, error)
}

// QuoteTraceStore records estimate outcomes, newest first.
type QuoteTraceStore interface {
	CreateQuoteTrace(ctx context.Context, trace *models.QuoteTrace) error
	ListQuoteTraces(ctx context.Context, limit int) ([]models.QuoteTrace, error)
}

// ErrConflict indicates a uniqueness violation.
type ErrConflict struct {
	Entity string
	Key    string
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.Key)
}
