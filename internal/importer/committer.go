package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"aforo/internal/models"
)

// Committer turns a classified record into idempotent attendee and
// attendance writes. Records classified as error never reach it.
type Committer struct {
	attendees   AttendeeStore
	attendances AttendanceStore
}

func NewCommitter(attendees AttendeeStore, attendances AttendanceStore) *Committer {
	return &Committer{attendees: attendees, attendances: attendances}
}

// Commit upserts the attendee with a preserve-non-empty merge and inserts
// the attendance for the resolved (attendee, event, ticket) triple when it
// does not already exist. Returns whether a new attendee was created.
func (c *Committer) Commit(ctx context.Context, rec *models.CanonicalRecord, cat *Catalog) (created bool, err error) {
	// One bad row must never abort the chunk; a panic inside a store
	// implementation is reported like any other row error.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic committing row: %v", r)
		}
	}()

	existing, err := c.attendees.GetByEmail(ctx, rec.Email)
	if err != nil {
		return false, fmt.Errorf("failed to look up attendee %s: %w", rec.Email, err)
	}

	attendee := mergeAttendee(existing, rec)
	if err := c.attendees.Upsert(ctx, attendee); err != nil {
		return false, fmt.Errorf("failed to upsert attendee %s: %w", rec.Email, err)
	}
	created = existing == nil

	if rec.Event == nil {
		return created, nil
	}

	ticketID := ""
	if rec.Ticket != nil {
		ticketID = rec.Ticket.ID
	} else if tt := cat.FirstTicketForEvent(rec.Event.ID); tt != nil {
		ticketID = tt.ID
	}
	if ticketID == "" {
		// Event without any ticket types: the attendee is recorded but there
		// is no triple to attach.
		return created, nil
	}

	exists, err := c.attendances.Exists(ctx, attendee.ID, rec.Event.ID, ticketID)
	if err != nil {
		return created, fmt.Errorf("failed to check attendance for %s: %w", rec.Email, err)
	}
	if exists {
		return created, nil
	}

	attendance := &models.Attendance{
		ID:           uuid.NewString(),
		AttendeeID:   attendee.ID,
		EventID:      rec.Event.ID,
		TicketTypeID: ticketID,
		CreatedAt:    time.Now(),
	}
	if err := c.attendances.Insert(ctx, attendance); err != nil {
		return created, fmt.Errorf("failed to insert attendance for %s: %w", rec.Email, err)
	}

	return created, nil
}

// mergeAttendee applies the preserve-non-empty rule field by field: an empty
// incoming value never overwrites a populated stored one, so overlapping
// imports are additive, not regressive.
func mergeAttendee(existing *models.Attendee, rec *models.CanonicalRecord) *models.Attendee {
	now := time.Now()
	attendee := &models.Attendee{
		ID:        uuid.NewString(),
		Email:     rec.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing == nil {
		existing = &models.Attendee{}
	} else {
		attendee.ID = existing.ID
		attendee.CreatedAt = existing.CreatedAt
	}

	attendee.FirstName = pickText(rec.FirstName, existing.FirstName)
	attendee.LastName = pickText(rec.LastName, existing.LastName)

	attendee.Phone = pickOptional(rec.Phone, existing.Phone)
	attendee.DocumentID = pickOptional(rec.DocumentID, existing.DocumentID)
	attendee.Gender = pickOptional(rec.Gender, existing.Gender)
	attendee.BirthDate = pickOptional(rec.BirthDate, existing.BirthDate)
	attendee.Address = pickOptional(rec.Address, existing.Address)
	attendee.Section = pickOptional(rec.Section, existing.Section)
	attendee.SalesChannel = pickOptional(rec.SalesChannel, existing.SalesChannel)
	attendee.PurchaseDate = pickOptional(rec.PurchaseDate, existing.PurchaseDate)

	return attendee
}

func pickText(incoming, stored string) string {
	if strings.TrimSpace(incoming) != "" {
		return incoming
	}
	return stored
}

func pickOptional(incoming string, stored *string) *string {
	if strings.TrimSpace(incoming) != "" {
		return &incoming
	}
	return stored
}
