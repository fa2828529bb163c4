package importer

import (
	"context"

	"aforo/internal/models"
)

// Store contracts the pipeline depends on. The repository package implements
// them against Postgres; tests use in-memory fakes.

type EventStore interface {
	ListAll(ctx context.Context) ([]models.Event, error)
}

type TicketTypeStore interface {
	ListAll(ctx context.Context) ([]models.TicketType, error)
}

type AttendeeStore interface {
	// GetByEmail returns nil without error when no attendee exists.
	GetByEmail(ctx context.Context, email string) (*models.Attendee, error)
	// Upsert writes the attendee keyed on email. On conflict the stored row
	// takes the incoming values; the caller is responsible for merging.
	Upsert(ctx context.Context, attendee *models.Attendee) error
}

type AttendanceStore interface {
	Exists(ctx context.Context, attendeeID, eventID, ticketTypeID string) (bool, error)
	Insert(ctx context.Context, attendance *models.Attendance) error
}

type JobStore interface {
	Create(ctx context.Context, job *models.ImportJob) error
	GetByID(ctx context.Context, id string) (*models.ImportJob, error)
	Update(ctx context.Context, job *models.ImportJob) error
}

// BlobStore downloads the uploaded spreadsheet by its storage key.
type BlobStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Publisher notifies other systems when a commit finishes. Optional.
type Publisher interface {
	Publish(subject string, data interface{}) error
}
