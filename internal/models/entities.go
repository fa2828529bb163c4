package models

import (
	"time"
)

// Event is a catalog entry. The import pipeline only reads events, it never
// creates or mutates them.
type Event struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"nombre" db:"nombre"`
	Genre     *string   `json:"genero_musical" db:"genero_musical"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TicketType is a catalog entry owned by an event.
type TicketType struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"nombre" db:"nombre"`
	EventID   string    `json:"evento_id" db:"evento_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Attendee is keyed uniquely by lower-cased email. Optional fields are
// pointers so a missing spreadsheet value stays NULL instead of "".
type Attendee struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	FirstName    string    `json:"nombre" db:"nombre"`
	LastName     string    `json:"apellido" db:"apellido"`
	Phone        *string   `json:"telefono" db:"telefono"`
	DocumentID   *string   `json:"documento_id" db:"documento_id"`
	Gender       *string   `json:"genero" db:"genero"`
	BirthDate    *string   `json:"fecha_nacimiento" db:"fecha_nacimiento"`
	Address      *string   `json:"direccion" db:"direccion"`
	Section      *string   `json:"seccion" db:"seccion"`
	SalesChannel *string   `json:"canal_venta" db:"canal_venta"`
	PurchaseDate *string   `json:"fecha_compra" db:"fecha_compra"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Attendance records that an attendee holds a ticket of one type for one
// event. The (asistente, evento, tipo_ticket) triple is unique.
type Attendance struct {
	ID           string    `json:"id" db:"id"`
	AttendeeID   string    `json:"asistente_id" db:"asistente_id"`
	EventID      string    `json:"evento_id" db:"evento_id"`
	TicketTypeID string    `json:"tipo_ticket_id" db:"tipo_ticket_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Import job states
const (
	JobStatusPending    = "pendiente"
	JobStatusProcessing = "procesando"
	JobStatusCompleted  = "completado"
	JobStatusFailed     = "fallido"
	JobStatusIncomplete = "incompleto"
)

// RowError is one row-level failure recorded on the job ledger.
type RowError struct {
	Line  int    `json:"fila"`
	Email string `json:"email,omitempty"`
	Error string `json:"error"`
}

// ImportJob is the job-ledger row for one uploaded spreadsheet. It is the
// single source of truth for progress and resumability; the pipeline flushes
// it before returning, never batches state in memory across chunks.
type ImportJob struct {
	ID            string            `json:"id" db:"id"`
	FileName      string            `json:"archivo_nombre" db:"archivo_nombre"`
	FileKey       string            `json:"archivo_key" db:"archivo_key"`
	FileURL       string            `json:"archivo_url" db:"archivo_url"`
	FileSize      int64             `json:"archivo_size" db:"archivo_size"`
	Status        string            `json:"estado" db:"estado"`
	ChunkNumber   int               `json:"chunk_numero" db:"chunk_numero"`
	ChunkTotal    int               `json:"chunk_total" db:"chunk_total"`
	RowStart      int               `json:"registros_inicio" db:"registros_inicio"`
	RowEnd        int               `json:"registros_fin" db:"registros_fin"`
	Processed     int               `json:"registros_procesados" db:"registros_procesados"`
	Created       int               `json:"registros_nuevos" db:"registros_nuevos"`
	Updated       int               `json:"registros_actualizados" db:"registros_actualizados"`
	Errored       int               `json:"registros_con_errores" db:"registros_con_errores"`
	Errors        []RowError        `json:"errores" db:"errores"`
	DetectedCols  map[string]string `json:"campos_detectados" db:"campos_detectados"`
	DetectedGenre *string           `json:"genero_musical_detectado" db:"genero_musical_detectado"`
	Progress      int               `json:"progreso_porcentaje" db:"progreso_porcentaje"`
	StartedAt     *time.Time        `json:"tiempo_inicio" db:"tiempo_inicio"`
	FinishedAt    *time.Time        `json:"tiempo_fin" db:"tiempo_fin"`
	DurationSec   *float64          `json:"duracion_segundos" db:"duracion_segundos"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}
