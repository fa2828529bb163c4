package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aforo/internal/importer"
	"aforo/internal/models"
)

// UploadImport - POST /api/imports
// Uploads a spreadsheet to the blob store and creates the job-ledger row.
func (h *Handlers) UploadImport(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "se requiere el campo 'file'"})
		return
	}
	defer file.Close()

	if h.cfg.MaxUploadBytes > 0 && header.Size > h.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "el archivo excede el tamaño máximo permitido"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("Failed to read upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo leer el archivo"})
		return
	}

	fileName := filepath.Base(header.Filename)
	key := fmt.Sprintf("imports/%s_%s", uuid.NewString(), fileName)

	// The file must be stored before the ledger row exists so a crash never
	// leaves a job pointing at nothing.
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := h.blobs.Upload(c.Request.Context(), key, data, contentType); err != nil {
		slog.Error("Failed to upload file", "key", key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo guardar el archivo"})
		return
	}

	rowStart, _ := strconv.Atoi(c.DefaultPostForm("registros_inicio", "0"))
	rowEnd, _ := strconv.Atoi(c.DefaultPostForm("registros_fin", "0"))
	chunkNumber, _ := strconv.Atoi(c.DefaultPostForm("chunk_numero", "1"))
	chunkTotal, _ := strconv.Atoi(c.DefaultPostForm("chunk_total", "1"))

	job := &models.ImportJob{
		ID:          uuid.NewString(),
		FileName:    fileName,
		FileKey:     key,
		FileURL:     h.blobs.PublicURL(key),
		FileSize:    header.Size,
		Status:      models.JobStatusPending,
		ChunkNumber: chunkNumber,
		ChunkTotal:  chunkTotal,
		RowStart:    rowStart,
		RowEnd:      rowEnd,
	}
	if err := h.jobs.Create(c.Request.Context(), job); err != nil {
		slog.Error("Failed to create import job", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo crear la importación"})
		return
	}

	slog.Info("Import job created", "job_id", job.ID, "file", fileName, "size", header.Size)

	c.JSON(http.StatusCreated, models.UploadImportResponse{
		QueueID: job.ID,
		FileURL: job.FileURL,
	})
}

// ProcessImport - POST /api/imports/process
// Runs the pipeline for a job, either as a side-effect-free preview or as a
// commit with operator corrections applied.
func (h *Handlers) ProcessImport(c *gin.Context) {
	var req models.ProcessImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.GetByID(c.Request.Context(), req.QueueID)
	if err != nil {
		slog.Error("Failed to load import job", "job_id", req.QueueID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo cargar la importación"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "importación no encontrada"})
		return
	}

	switch req.Mode {
	case "preview":
		resp, err := h.pipeline.Preview(c.Request.Context(), job, req.CorrectedRecords)
		if err != nil {
			h.replyPipelineError(c, job.ID, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	case "import":
		resp, err := h.pipeline.Import(c.Request.Context(), job, req.CorrectedRecords)
		if err != nil {
			h.replyPipelineError(c, job.ID, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode debe ser 'preview' o 'import'"})
	}
}

// GetImportStatus - GET /api/imports/:id
// Returns the job-ledger row with counters and row-level errors.
func (h *Handlers) GetImportStatus(c *gin.Context) {
	job, err := h.jobs.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		slog.Error("Failed to load import job", "job_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no se pudo cargar la importación"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "importación no encontrada"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// replyPipelineError distinguishes abort-class operator errors (bad file,
// missing columns) from infrastructure failures. The missing-columns message
// is part of the contract and is returned verbatim.
func (h *Handlers) replyPipelineError(c *gin.Context, jobID string, err error) {
	var missingErr *importer.MissingColumnsError
	var parseErr *importer.ParseError

	switch {
	case errors.As(err, &missingErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": missingErr.Error()})
	case errors.As(err, &parseErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
	default:
		slog.Error("Import pipeline failed", "job_id", jobID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error procesando la importación"})
	}
}
