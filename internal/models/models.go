package models

// Record classification after mapping, resolution and validation
const (
	RecordValid   = "valido"
	RecordWarning = "advertencia"
	RecordError   = "error"
)

// ProcessImportRequest - invocation body for both phases of an import
type ProcessImportRequest struct {
	QueueID          string             `json:"queueId" binding:"required"`
	Mode             string             `json:"mode" binding:"required,oneof=preview import"`
	CorrectedRecords []CorrectionRecord `json:"correctedRecords,omitempty"`
}

// CorrectionRecord - operator override of automatic resolution for one row,
// identified by the row's email
type CorrectionRecord struct {
	Email        string `json:"email" binding:"required"`
	EventID      string `json:"evento_id,omitempty"`
	TicketTypeID string `json:"tipo_ticket_id,omitempty"`
}

// ResolvedRef - a catalog entity a row resolved to
type ResolvedRef struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// CanonicalRecord - normalized, classified view of one spreadsheet row.
// Returned as-is in the preview response; the committer consumes the same
// struct so preview and commit cannot disagree on resolution.
type CanonicalRecord struct {
	Line         int          `json:"fila"`
	Email        string       `json:"email"`
	FirstName    string       `json:"nombre"`
	LastName     string       `json:"apellido"`
	EventName    string       `json:"evento_nombre"`
	TicketName   string       `json:"ticket_nombre,omitempty"`
	Phone        string       `json:"telefono,omitempty"`
	DocumentID   string       `json:"documento_id,omitempty"`
	Gender       string       `json:"genero,omitempty"`
	BirthDate    string       `json:"fecha_nacimiento,omitempty"`
	Address      string       `json:"direccion,omitempty"`
	Section      string       `json:"seccion,omitempty"`
	SalesChannel string       `json:"canal_venta,omitempty"`
	PurchaseDate string       `json:"fecha_compra,omitempty"`
	Event        *ResolvedRef `json:"evento_encontrado"`
	Ticket       *ResolvedRef `json:"ticket_encontrado"`
	Status       string       `json:"estado"`
	Errors       []string     `json:"errores,omitempty"`
	Warnings     []string     `json:"advertencias,omitempty"`
}

// UploadImportResponse - response to a spreadsheet upload
type UploadImportResponse struct {
	QueueID string `json:"queueId"`
	FileURL string `json:"archivo_url"`
}

// PreviewResponse - response for mode "preview"
type PreviewResponse struct {
	Success      bool              `json:"success"`
	Mode         string            `json:"mode"`
	Preview      []CanonicalRecord `json:"preview"`
	Total        int               `json:"total"`
	Valid        int               `json:"validos"`
	Errors       int               `json:"errores"`
	Warnings     int               `json:"advertencias"`
}

// ImportResponse - response for mode "import"
type ImportResponse struct {
	Success      bool    `json:"success"`
	Processed    int     `json:"procesados"`
	CreatedCount int     `json:"nuevos"`
	UpdatedCount int     `json:"actualizados"`
	ErrorCount   int     `json:"errores"`
	Duration     float64 `json:"duracion"`
	MusicGenre   string  `json:"generoMusical"`
}

// JobCompletedEvent - payload published to messaging when a commit finishes
type JobCompletedEvent struct {
	QueueID   string `json:"queueId"`
	Status    string `json:"estado"`
	Processed int    `json:"procesados"`
	Created   int    `json:"nuevos"`
	Updated   int    `json:"actualizados"`
	Errored   int    `json:"errores"`
}
