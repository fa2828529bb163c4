package repository

import (
	"aforo/internal/database"
)

type Repositories struct {
	Events      *EventRepository
	TicketTypes *TicketTypeRepository
	Attendees   *AttendeeRepository
	Attendances *AttendanceRepository
	ImportJobs  *ImportJobRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:      NewEventRepository(db),
		TicketTypes: NewTicketTypeRepository(db),
		Attendees:   NewAttendeeRepository(db),
		Attendances: NewAttendanceRepository(db),
		ImportJobs:  NewImportJobRepository(db),
	}
}
