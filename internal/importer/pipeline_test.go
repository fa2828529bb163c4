package importer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aforo/internal/models"
)

const sampleCSV = "Correo,Nombre,Apellido,Evento\nana@x.com,Ana,Ruiz,RockFest\n"

type pipelineEnv struct {
	pipeline    *Pipeline
	attendees   *fakeAttendeeStore
	attendances *fakeAttendanceStore
	jobs        *fakeJobStore
	blobs       *fakeBlobStore
}

func newPipelineEnv(t *testing.T, fallbackName string, csv string) (*pipelineEnv, *models.ImportJob) {
	t.Helper()

	events := &fakeEventStore{events: []models.Event{
		{ID: rockFestID, Name: "RockFest"},
		{ID: jazzNocheID, Name: "Jazz Noche"},
		{ID: otrosID, Name: "Otros Eventos"},
	}}
	tickets := &fakeTicketStore{tickets: []models.TicketType{
		{ID: generalID, Name: "General", EventID: rockFestID},
		{ID: vipID, Name: "VIP", EventID: rockFestID},
	}}

	env := &pipelineEnv{
		attendees:   newFakeAttendeeStore(),
		attendances: &fakeAttendanceStore{},
		jobs:        newFakeJobStore(),
		blobs:       &fakeBlobStore{files: map[string][]byte{"imports/test.csv": []byte(csv)}},
	}
	env.pipeline = NewPipeline(events, tickets, env.attendees, env.attendances, env.jobs, env.blobs, nil, Options{
		FallbackEventName: fallbackName,
		SoftTimeLimit:     time.Minute,
	})

	job := &models.ImportJob{
		ID:       "job-1",
		FileName: "asistentes.csv",
		FileKey:  "imports/test.csv",
		Status:   models.JobStatusPending,
	}
	require.NoError(t, env.jobs.Create(context.Background(), job))

	return env, job
}

func TestPreviewPerformsNoWrites(t *testing.T) {
	env, job := newPipelineEnv(t, "", sampleCSV)

	resp, err := env.pipeline.Preview(context.Background(), job, nil)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "preview", resp.Mode)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Valid)
	require.Len(t, resp.Preview, 1)
	require.NotNil(t, resp.Preview[0].Event)
	assert.Equal(t, "RockFest", resp.Preview[0].Event.Name)

	// No attendee or attendance writes, job still pending.
	assert.Empty(t, env.attendees.byEmail)
	assert.Empty(t, env.attendances.rows)
	stored, _ := env.jobs.GetByID(context.Background(), job.ID)
	assert.Equal(t, models.JobStatusPending, stored.Status)
	assert.Equal(t, "Correo", stored.DetectedCols[FieldEmail])
}

func TestImportCommitsAndCompletes(t *testing.T) {
	env, job := newPipelineEnv(t, "", sampleCSV)

	resp, err := env.pipeline.Import(context.Background(), job, nil)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Processed)
	assert.Equal(t, 1, resp.CreatedCount)
	assert.Equal(t, 0, resp.UpdatedCount)
	assert.Equal(t, 0, resp.ErrorCount)

	stored, _ := env.jobs.GetByID(context.Background(), job.ID)
	assert.Equal(t, models.JobStatusCompleted, stored.Status)
	assert.Equal(t, 100, stored.Progress)
	assert.NotNil(t, stored.FinishedAt)
	require.Len(t, env.attendances.rows, 1)
}

func TestImportTwiceIsIdempotent(t *testing.T) {
	env, job := newPipelineEnv(t, "", sampleCSV)

	_, err := env.pipeline.Import(context.Background(), job, nil)
	require.NoError(t, err)

	job2 := &models.ImportJob{ID: "job-2", FileName: "asistentes.csv", FileKey: "imports/test.csv", Status: models.JobStatusPending}
	require.NoError(t, env.jobs.Create(context.Background(), job2))

	resp, err := env.pipeline.Import(context.Background(), job2, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, resp.CreatedCount)
	assert.Equal(t, 1, resp.UpdatedCount)
	assert.Len(t, env.attendances.rows, 1)
	assert.Len(t, env.attendees.byEmail, 1)
}

func TestImportSameJobTwiceResetsCounters(t *testing.T) {
	env, job := newPipelineEnv(t, "", sampleCSV)

	_, err := env.pipeline.Import(context.Background(), job, nil)
	require.NoError(t, err)

	// Re-invoking the same queueId restarts the chunk; counters must not
	// accumulate across attempts.
	resp, err := env.pipeline.Import(context.Background(), job, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Processed)
	assert.Equal(t, 0, resp.CreatedCount)
	assert.Equal(t, 1, resp.UpdatedCount)
	assert.Equal(t, 0, resp.ErrorCount)

	stored, _ := env.jobs.GetByID(context.Background(), job.ID)
	assert.Equal(t, 1, stored.Processed)
	assert.Equal(t, 100, stored.Progress)
	assert.Empty(t, stored.Errors)
	assert.Len(t, env.attendances.rows, 1)
}

func TestImportNeverCommitsErrorRecords(t *testing.T) {
	csv := "Correo,Nombre,Apellido,Evento\nana@x.com,Ana,Ruiz,Evento Fantasma\n"
	env, job := newPipelineEnv(t, "", csv)

	resp, err := env.pipeline.Import(context.Background(), job, nil)

	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, 1, resp.Processed)
	assert.Equal(t, 1, resp.ErrorCount)
	assert.Empty(t, env.attendees.byEmail)
	assert.Empty(t, env.attendances.rows)

	stored, _ := env.jobs.GetByID(context.Background(), job.ID)
	assert.Equal(t, models.JobStatusFailed, stored.Status)
	require.Len(t, stored.Errors, 1)
	assert.Equal(t, 2, stored.Errors[0].Line)
	assert.Contains(t, stored.Errors[0].Error, "evento no encontrado")
}

func TestImportAppliesCorrections(t *testing.T) {
	csv := "Correo,Nombre,Apellido,Evento\nana@x.com,Ana,Ruiz,Evento Fantasma\n"
	env, job := newPipelineEnv(t, "", csv)

	corrections := []models.CorrectionRecord{
		{Email: "ana@x.com", EventID: rockFestID},
	}
	resp, err := env.pipeline.Import(context.Background(), job, corrections)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.CreatedCount)
	assert.Equal(t, 0, resp.ErrorCount)
	require.Len(t, env.attendances.rows, 1)
	assert.Equal(t, rockFestID, env.attendances.rows[0].EventID)
}

func TestImportFallbackEventKeepsRow(t *testing.T) {
	csv := "Correo,Nombre,Apellido,Evento\nana@x.com,Ana,Ruiz,Evento Fantasma\n"
	env, job := newPipelineEnv(t, "Otros Eventos", csv)

	resp, err := env.pipeline.Import(context.Background(), job, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.CreatedCount)
	// Attendee lands in the catch-all bucket; no ticket types exist for it,
	// so only the attendee row is written.
	stored, _ := env.attendees.GetByEmail(context.Background(), "ana@x.com")
	require.NotNil(t, stored)
}

func TestImportHonorsRowRange(t *testing.T) {
	csv := "Correo,Nombre,Apellido,Evento\n" +
		"a@x.com,Ana,Ruiz,RockFest\n" +
		"b@x.com,Beto,Lara,RockFest\n" +
		"c@x.com,Caro,Paz,RockFest\n"
	env, job := newPipelineEnv(t, "", csv)
	job.RowStart = 1
	job.RowEnd = 2

	resp, err := env.pipeline.Import(context.Background(), job, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Processed)
	assert.Len(t, env.attendees.byEmail, 1)
	_, ok := env.attendees.byEmail["b@x.com"]
	assert.True(t, ok)
}

func TestImportMissingColumnsAborts(t *testing.T) {
	csv := "Correo,Nombre,Apellido,Festival\nana@x.com,Ana,Ruiz,RockFest\n"
	env, job := newPipelineEnv(t, "", csv)

	_, err := env.pipeline.Import(context.Background(), job, nil)

	var missingErr *MissingColumnsError
	require.ErrorAs(t, err, &missingErr)

	// Abort-class failure: nothing processed, job untouched.
	assert.Empty(t, env.attendees.byEmail)
	stored, _ := env.jobs.GetByID(context.Background(), job.ID)
	assert.Equal(t, models.JobStatusPending, stored.Status)
	assert.Equal(t, 0, stored.Processed)
}

func TestImportSoftDeadlineStopsProcessing(t *testing.T) {
	csv := "Correo,Nombre,Apellido,Evento\n" +
		"a@x.com,Ana,Ruiz,RockFest\n" +
		"b@x.com,Beto,Lara,RockFest\n" +
		"c@x.com,Caro,Paz,RockFest\n"
	env, job := newPipelineEnv(t, "", csv)
	// A zero-ish budget trips the cooperative check after the first row.
	env.pipeline.opts.SoftTimeLimit = time.Nanosecond

	resp, err := env.pipeline.Import(context.Background(), job, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Processed)

	stored, _ := env.jobs.GetByID(context.Background(), job.ID)
	assert.Equal(t, models.JobStatusIncomplete, stored.Status)
	require.NotEmpty(t, stored.Errors)
	assert.Contains(t, stored.Errors[len(stored.Errors)-1].Error, "filas pendientes")
	// Partial counts survive for the next chunk to resume from.
	assert.Equal(t, 1, stored.Processed)
	assert.Equal(t, 1, stored.Created)
}

func TestPreviewCountsWarnings(t *testing.T) {
	csv := "Correo,Nombre,Apellido,Evento,Ticket\nana@x.com,Ana,Ruiz,RockFest,Palco Dorado\n"
	env, job := newPipelineEnv(t, "", csv)

	resp, err := env.pipeline.Preview(context.Background(), job, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Warnings)
	assert.Equal(t, 0, resp.Valid)
	assert.Equal(t, 0, resp.Errors)
}
