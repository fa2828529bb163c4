package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"aforo/internal/metrics"
	"aforo/internal/models"
)

// Options tunes the pipeline per deployment.
type Options struct {
	// FallbackEventName designates the catch-all event used when row-level
	// resolution fails. Empty disables the fallback.
	FallbackEventName string
	// SoftTimeLimit is the self-imposed wall-clock budget for the commit
	// phase, checked after every row. It must sit well below the hosting
	// runtime's hard limit.
	SoftTimeLimit time.Duration
}

// Pipeline runs the whole import flow for one job: download, parse, map,
// resolve, validate, and (in import mode) commit plus ledger updates.
type Pipeline struct {
	events    EventStore
	tickets   TicketTypeStore
	jobs      JobStore
	blobs     BlobStore
	committer *Committer
	publisher Publisher
	opts      Options
}

func NewPipeline(events EventStore, tickets TicketTypeStore, attendees AttendeeStore, attendances AttendanceStore, jobs JobStore, blobs BlobStore, publisher Publisher, opts Options) *Pipeline {
	if opts.SoftTimeLimit <= 0 {
		opts.SoftTimeLimit = 50 * time.Second
	}
	return &Pipeline{
		events:    events,
		tickets:   tickets,
		jobs:      jobs,
		blobs:     blobs,
		committer: NewCommitter(attendees, attendances),
		publisher: publisher,
		opts:      opts,
	}
}

// classification is the shared product of the side-effect-free phase.
type classification struct {
	records []models.CanonicalRecord
	mapping ColumnMapping
	catalog *Catalog
	genre   string
}

// classify re-reads and re-resolves the spreadsheet on every invocation.
// Nothing is persisted between preview and commit; corrections are simply
// re-applied, which keeps the preview server-stateless.
func (p *Pipeline) classify(ctx context.Context, job *models.ImportJob, corrections []models.CorrectionRecord) (*classification, error) {
	data, err := p.blobs.Download(ctx, job.FileKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", job.FileKey, err)
	}

	headers, rows, err := ReadSheet(data)
	if err != nil {
		return nil, err
	}

	mapping, err := MapColumns(headers)
	if err != nil {
		return nil, err
	}

	cat, err := LoadCatalog(ctx, p.events, p.tickets, p.opts.FallbackEventName)
	if err != nil {
		return nil, err
	}

	rows = sliceRange(rows, job.RowStart, job.RowEnd)
	set := NewCorrectionSet(corrections)

	records := make([]models.CanonicalRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, BuildRecord(row, mapping, set, cat))
	}

	return &classification{
		records: records,
		mapping: mapping,
		catalog: cat,
		genre:   DetectGenre(job.FileName, rows, mapping),
	}, nil
}

// Preview runs the pipeline without the write phase. The only persistent
// change is annotating the ledger row with the detected mapping and genre;
// the job stays pending and no attendee or attendance is touched.
func (p *Pipeline) Preview(ctx context.Context, job *models.ImportJob, corrections []models.CorrectionRecord) (*models.PreviewResponse, error) {
	cls, err := p.classify(ctx, job, corrections)
	if err != nil {
		return nil, err
	}

	job.DetectedCols = map[string]string(cls.mapping)
	if cls.genre != "" {
		job.DetectedGenre = &cls.genre
	}
	if err := p.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job %s: %w", job.ID, err)
	}

	resp := &models.PreviewResponse{
		Success: true,
		Mode:    "preview",
		Preview: cls.records,
		Total:   len(cls.records),
	}
	for _, rec := range cls.records {
		switch rec.Status {
		case models.RecordValid:
			resp.Valid++
		case models.RecordWarning:
			resp.Warnings++
		case models.RecordError:
			resp.Errors++
		}
	}

	metrics.ImportJobs.WithLabelValues("preview", job.Status).Inc()
	return resp, nil
}

// Import runs the full pipeline including the write phase. Commits are
// record-at-a-time and final; row failures and a soft-deadline abort never
// roll back rows already written.
func (p *Pipeline) Import(ctx context.Context, job *models.ImportJob, corrections []models.CorrectionRecord) (*models.ImportResponse, error) {
	cls, err := p.classify(ctx, job, corrections)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	job.Status = models.JobStatusProcessing
	job.StartedAt = &start
	// Re-invoking the same job restarts its chunk from scratch; counters from
	// an earlier attempt must not carry over or Progress drifts past 100.
	job.Processed, job.Created, job.Updated, job.Errored = 0, 0, 0, 0
	job.Progress = 0
	job.Errors = nil
	job.DetectedCols = map[string]string(cls.mapping)
	if cls.genre != "" {
		job.DetectedGenre = &cls.genre
	}
	if err := p.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job %s: %w", job.ID, err)
	}

	log := slog.With("job_id", job.ID, "rows", len(cls.records))
	log.Info("Starting import commit phase")

	timedOut := false
	for i := range cls.records {
		rec := &cls.records[i]

		if rec.Status == models.RecordError {
			job.Errored++
			job.Errors = append(job.Errors, models.RowError{
				Line:  rec.Line,
				Email: rec.Email,
				Error: strings.Join(rec.Errors, "; "),
			})
			metrics.ImportRows.WithLabelValues("errored").Inc()
		} else {
			created, err := p.committer.Commit(ctx, rec, cls.catalog)
			if err != nil {
				job.Errored++
				job.Errors = append(job.Errors, models.RowError{
					Line:  rec.Line,
					Email: rec.Email,
					Error: err.Error(),
				})
				log.Error("Failed to commit row", "line", rec.Line, "error", err)
				metrics.ImportRows.WithLabelValues("errored").Inc()
			} else if created {
				job.Created++
				metrics.ImportRows.WithLabelValues("created").Inc()
			} else {
				job.Updated++
				metrics.ImportRows.WithLabelValues("updated").Inc()
			}
		}

		job.Processed++
		job.Progress = job.Processed * 100 / len(cls.records)

		if time.Since(start) > p.opts.SoftTimeLimit {
			remaining := len(cls.records) - job.Processed
			if remaining > 0 {
				job.Errors = append(job.Errors, models.RowError{
					Error: fmt.Sprintf("tiempo de ejecución agotado: %d filas pendientes", remaining),
				})
				timedOut = true
			}
			break
		}
	}

	switch {
	case timedOut:
		job.Status = models.JobStatusIncomplete
	case len(cls.records) > 0 && job.Errored == len(cls.records):
		job.Status = models.JobStatusFailed
	default:
		job.Status = models.JobStatusCompleted
	}

	finished := time.Now()
	duration := finished.Sub(start).Seconds()
	job.FinishedAt = &finished
	job.DurationSec = &duration

	// Flush before returning: the ledger row is the single source of truth
	// for resumability.
	if err := p.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to update job %s: %w", job.ID, err)
	}

	metrics.ImportJobs.WithLabelValues("import", job.Status).Inc()
	metrics.ImportDuration.Observe(duration)

	if p.publisher != nil {
		event := models.JobCompletedEvent{
			QueueID:   job.ID,
			Status:    job.Status,
			Processed: job.Processed,
			Created:   job.Created,
			Updated:   job.Updated,
			Errored:   job.Errored,
		}
		if err := p.publisher.Publish("imports.completed", event); err != nil {
			log.Error("Failed to publish job completion", "error", err)
		}
	}

	log.Info("Import finished",
		"estado", job.Status,
		"procesados", job.Processed,
		"nuevos", job.Created,
		"actualizados", job.Updated,
		"errores", job.Errored,
		"duracion_s", duration)

	return &models.ImportResponse{
		Success:      job.Status != models.JobStatusFailed,
		Processed:    job.Processed,
		CreatedCount: job.Created,
		UpdatedCount: job.Updated,
		ErrorCount:   job.Errored,
		Duration:     duration,
		MusicGenre:   cls.genre,
	}, nil
}

// sliceRange applies the chunk's assigned row range [start, end) over the
// data rows. end = 0 means all remaining rows.
func sliceRange(rows []Row, start, end int) []Row {
	if start < 0 {
		start = 0
	}
	if start > len(rows) {
		return nil
	}
	if end <= 0 || end > len(rows) {
		end = len(rows)
	}
	if end < start {
		end = start
	}
	return rows[start:end]
}
