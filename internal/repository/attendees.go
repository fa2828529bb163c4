package repository

import (
	"context"
	"database/sql"

	"aforo/internal/database"
	"aforo/internal/models"
)

type AttendeeRepository struct {
	db *database.DB
}

func NewAttendeeRepository(db *database.DB) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

func (r *AttendeeRepository) GetByEmail(ctx context.Context, email string) (*models.Attendee, error) {
	attendee := &models.Attendee{}
	query := `
		SELECT id, email, nombre, apellido, telefono, documento_id, genero,
		       fecha_nacimiento, direccion, seccion, canal_venta, fecha_compra,
		       created_at, updated_at
		FROM asistentes
		WHERE email = $1`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&attendee.ID,
		&attendee.Email,
		&attendee.FirstName,
		&attendee.LastName,
		&attendee.Phone,
		&attendee.DocumentID,
		&attendee.Gender,
		&attendee.BirthDate,
		&attendee.Address,
		&attendee.Section,
		&attendee.SalesChannel,
		&attendee.PurchaseDate,
		&attendee.CreatedAt,
		&attendee.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return attendee, err
}

// Upsert writes the attendee keyed on the email uniqueness constraint. The
// caller passes already-merged values; concurrent commits of the same email
// converge instead of racing.
func (r *AttendeeRepository) Upsert(ctx context.Context, attendee *models.Attendee) error {
	query := `
		INSERT INTO asistentes (id, email, nombre, apellido, telefono, documento_id,
		                        genero, fecha_nacimiento, direccion, seccion,
		                        canal_venta, fecha_compra, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE SET
			nombre = EXCLUDED.nombre,
			apellido = EXCLUDED.apellido,
			telefono = EXCLUDED.telefono,
			documento_id = EXCLUDED.documento_id,
			genero = EXCLUDED.genero,
			fecha_nacimiento = EXCLUDED.fecha_nacimiento,
			direccion = EXCLUDED.direccion,
			seccion = EXCLUDED.seccion,
			canal_venta = EXCLUDED.canal_venta,
			fecha_compra = EXCLUDED.fecha_compra,
			updated_at = NOW()
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		attendee.ID,
		attendee.Email,
		attendee.FirstName,
		attendee.LastName,
		attendee.Phone,
		attendee.DocumentID,
		attendee.Gender,
		attendee.BirthDate,
		attendee.Address,
		attendee.Section,
		attendee.SalesChannel,
		attendee.PurchaseDate,
	).Scan(&attendee.ID)
}
