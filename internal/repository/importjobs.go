package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"aforo/internal/database"
	"aforo/internal/models"
)

type ImportJobRepository struct {
	db *database.DB
}

func NewImportJobRepository(db *database.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

func (r *ImportJobRepository) Create(ctx context.Context, job *models.ImportJob) error {
	query := `
		INSERT INTO importaciones_queue (
			id, archivo_nombre, archivo_key, archivo_url, archivo_size, estado,
			chunk_numero, chunk_total, registros_inicio, registros_fin,
			errores, campos_detectados
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '[]'::jsonb, '{}'::jsonb)
		RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		job.ID,
		job.FileName,
		job.FileKey,
		job.FileURL,
		job.FileSize,
		job.Status,
		job.ChunkNumber,
		job.ChunkTotal,
		job.RowStart,
		job.RowEnd,
	).Scan(&job.CreatedAt)
}

func (r *ImportJobRepository) GetByID(ctx context.Context, id string) (*models.ImportJob, error) {
	job := &models.ImportJob{}
	var erroresJSON, camposJSON []byte

	query := `
		SELECT id, archivo_nombre, archivo_key, archivo_url, archivo_size, estado,
		       chunk_numero, chunk_total, registros_inicio, registros_fin,
		       registros_procesados, registros_nuevos, registros_actualizados,
		       registros_con_errores, errores, campos_detectados,
		       genero_musical_detectado, progreso_porcentaje,
		       tiempo_inicio, tiempo_fin, duracion_segundos, created_at
		FROM importaciones_queue
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID,
		&job.FileName,
		&job.FileKey,
		&job.FileURL,
		&job.FileSize,
		&job.Status,
		&job.ChunkNumber,
		&job.ChunkTotal,
		&job.RowStart,
		&job.RowEnd,
		&job.Processed,
		&job.Created,
		&job.Updated,
		&job.Errored,
		&erroresJSON,
		&camposJSON,
		&job.DetectedGenre,
		&job.Progress,
		&job.StartedAt,
		&job.FinishedAt,
		&job.DurationSec,
		&job.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(erroresJSON) > 0 {
		if err := json.Unmarshal(erroresJSON, &job.Errors); err != nil {
			return nil, fmt.Errorf("failed to decode errores for job %s: %w", id, err)
		}
	}
	if len(camposJSON) > 0 {
		if err := json.Unmarshal(camposJSON, &job.DetectedCols); err != nil {
			return nil, fmt.Errorf("failed to decode campos_detectados for job %s: %w", id, err)
		}
	}

	return job, nil
}

// Update flushes every mutable ledger field. The pipeline calls it before
// returning so the row stays the single source of truth for resumption.
func (r *ImportJobRepository) Update(ctx context.Context, job *models.ImportJob) error {
	erroresJSON, err := json.Marshal(job.Errors)
	if err != nil {
		return fmt.Errorf("failed to encode errores for job %s: %w", job.ID, err)
	}
	if job.Errors == nil {
		erroresJSON = []byte("[]")
	}
	camposJSON, err := json.Marshal(job.DetectedCols)
	if err != nil {
		return fmt.Errorf("failed to encode campos_detectados for job %s: %w", job.ID, err)
	}
	if job.DetectedCols == nil {
		camposJSON = []byte("{}")
	}

	query := `
		UPDATE importaciones_queue
		SET estado = $1,
		    registros_procesados = $2,
		    registros_nuevos = $3,
		    registros_actualizados = $4,
		    registros_con_errores = $5,
		    errores = $6,
		    campos_detectados = $7,
		    genero_musical_detectado = $8,
		    progreso_porcentaje = $9,
		    tiempo_inicio = $10,
		    tiempo_fin = $11,
		    duracion_segundos = $12
		WHERE id = $13`

	_, err = r.db.ExecContext(ctx, query,
		job.Status,
		job.Processed,
		job.Created,
		job.Updated,
		job.Errored,
		erroresJSON,
		camposJSON,
		job.DetectedGenre,
		job.Progress,
		job.StartedAt,
		job.FinishedAt,
		job.DurationSec,
		job.ID,
	)

	return err
}
