package importer

import (
	"context"
	"fmt"

	"aforo/internal/models"
)

// In-memory store fakes shared by the committer and pipeline tests.

type fakeEventStore struct {
	events []models.Event
}

func (f *fakeEventStore) ListAll(ctx context.Context) ([]models.Event, error) {
	return f.events, nil
}

type fakeTicketStore struct {
	tickets []models.TicketType
}

func (f *fakeTicketStore) ListAll(ctx context.Context) ([]models.TicketType, error) {
	return f.tickets, nil
}

type fakeAttendeeStore struct {
	byEmail map[string]models.Attendee
}

func newFakeAttendeeStore() *fakeAttendeeStore {
	return &fakeAttendeeStore{byEmail: make(map[string]models.Attendee)}
}

func (f *fakeAttendeeStore) GetByEmail(ctx context.Context, email string) (*models.Attendee, error) {
	attendee, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	out := attendee
	return &out, nil
}

func (f *fakeAttendeeStore) Upsert(ctx context.Context, attendee *models.Attendee) error {
	if existing, ok := f.byEmail[attendee.Email]; ok {
		attendee.ID = existing.ID
	}
	f.byEmail[attendee.Email] = *attendee
	return nil
}

type fakeAttendanceStore struct {
	rows []models.Attendance
}

func (f *fakeAttendanceStore) Exists(ctx context.Context, attendeeID, eventID, ticketTypeID string) (bool, error) {
	for _, row := range f.rows {
		if row.AttendeeID == attendeeID && row.EventID == eventID && row.TicketTypeID == ticketTypeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAttendanceStore) Insert(ctx context.Context, attendance *models.Attendance) error {
	f.rows = append(f.rows, *attendance)
	return nil
}

type fakeJobStore struct {
	jobs    map[string]models.ImportJob
	updates int
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]models.ImportJob)}
}

func (f *fakeJobStore) Create(ctx context.Context, job *models.ImportJob) error {
	f.jobs[job.ID] = *job
	return nil
}

func (f *fakeJobStore) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	out := job
	return &out, nil
}

func (f *fakeJobStore) Update(ctx context.Context, job *models.ImportJob) error {
	f.updates++
	f.jobs[job.ID] = *job
	return nil
}

type fakeBlobStore struct {
	files map[string][]byte
}

func (f *fakeBlobStore) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.files[key]
	if !ok {
		return nil, fmt.Errorf("no such key: %s", key)
	}
	return data, nil
}
