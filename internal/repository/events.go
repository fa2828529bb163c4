package repository

import (
	"context"

	"aforo/internal/database"
	"aforo/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListAll loads the whole events catalog. The import pipeline calls this
// once per invocation, never per row.
func (r *EventRepository) ListAll(ctx context.Context) ([]models.Event, error) {
	query := `
		SELECT id, nombre, genero_musical, created_at
		FROM eventos
		ORDER BY nombre ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Genre,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
