package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LedgerMutationEvent announces a committed mutation on one of the ledgers
// so downstream consumers (notification, audit) can react.
type LedgerMutationEvent struct {
	EventID   string    `json:"eventId"`
	Entity    string    `json:"entity"`
	Op        string    `json:"op"`
	RecordID  int64     `json:"recordId"`
	MemberID  int64     `json:"memberId,omitempty"`
	Date      string    `json:"date,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerMutationEvent stamps the event with a fresh id and the current
// time.
func NewLedgerMutationEvent(entity, op string, recordID, memberID int64, date string) LedgerMutationEvent {
	return LedgerMutationEvent{
		EventID:   uuid.NewString(),
		Entity:    entity,
		Op:        op,
		RecordID:  recordID,
		MemberID:  memberID,
		Date:      date,
		Timestamp: time.Now(),
	}
}

type Publisher interface {
	PublishLedgerMutation(ctx context.Context, e LedgerMutationEvent) error
}

// NoopPublisher is used when event publishing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishLedgerMutation(context.Context, LedgerMutationEvent) error { return nil }

var _ Publisher = NoopPublisher{}
