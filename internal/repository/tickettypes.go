package repository

import (
	"context"

	"aforo/internal/database"
	"aforo/internal/models"
)

type TicketTypeRepository struct {
	db *database.DB
}

func NewTicketTypeRepository(db *database.DB) *TicketTypeRepository {
	return &TicketTypeRepository{db: db}
}

// ListAll loads the whole ticket-type catalog once per invocation. The
// creation order is kept so "first ticket type of an event" is stable.
func (r *TicketTypeRepository) ListAll(ctx context.Context) ([]models.TicketType, error) {
	query := `
		SELECT id, nombre, evento_id, created_at
		FROM tipos_ticket
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ticketTypes []models.TicketType
	for rows.Next() {
		var tt models.TicketType
		err := rows.Scan(
			&tt.ID,
			&tt.Name,
			&tt.EventID,
			&tt.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		ticketTypes = append(ticketTypes, tt)
	}

	return ticketTypes, rows.Err()
}
