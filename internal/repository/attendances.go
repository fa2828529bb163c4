package repository

import (
	"context"

	"aforo/internal/database"
	"aforo/internal/models"
)

type AttendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) Exists(ctx context.Context, attendeeID, eventID, ticketTypeID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM asistencias
			WHERE asistente_id = $1 AND evento_id = $2 AND tipo_ticket_id = $3
		)`

	err := r.db.QueryRowContext(ctx, query, attendeeID, eventID, ticketTypeID).Scan(&exists)
	return exists, err
}

// Insert adds an attendance row. The unique constraint on the triple makes
// a concurrent duplicate insert fail instead of duplicating, and re-imports
// are expected to hit ON CONFLICT DO NOTHING.
func (r *AttendanceRepository) Insert(ctx context.Context, attendance *models.Attendance) error {
	query := `
		INSERT INTO asistencias (id, asistente_id, evento_id, tipo_ticket_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (asistente_id, evento_id, tipo_ticket_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		attendance.ID,
		attendance.AttendeeID,
		attendance.EventID,
		attendance.TicketTypeID,
	)

	return err
}
