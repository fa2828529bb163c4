package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aforo/internal/models"
)

const (
	rockFestID   = "5b1f0d64-9c2a-4c4e-8a2e-111111111111"
	jazzNocheID  = "5b1f0d64-9c2a-4c4e-8a2e-222222222222"
	otrosID      = "5b1f0d64-9c2a-4c4e-8a2e-333333333333"
	generalID    = "5b1f0d64-9c2a-4c4e-8a2e-444444444444"
	vipID        = "5b1f0d64-9c2a-4c4e-8a2e-555555555555"
)

func testCatalog(t *testing.T, fallbackName string) *Catalog {
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

	cat, err := LoadCatalog(context.Background(), events, tickets, fallbackName)
	require.NoError(t, err)
	return cat
}

func baseMapping() ColumnMapping {
	return ColumnMapping{
		FieldEmail:      "Correo",
		FieldFirstName:  "Nombre",
		FieldLastName:   "Apellido",
		FieldEventName:  "Evento",
		FieldEventID:    "Evento ID",
		FieldTicketName: "Ticket",
	}
}

func rowWith(values map[string]string) Row {
	return Row{Line: 2, Values: values}
}

func TestBuildRecordValid(t *testing.T) {
	cat := testCatalog(t, "")
	row := rowWith(map[string]string{
		"Correo": "Ana@X.com", "Nombre": "Ana", "Apellido": "Ruiz", "Evento": "RockFest",
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	assert.Equal(t, models.RecordValid, rec.Status)
	assert.Equal(t, "ana@x.com", rec.Email)
	require.NotNil(t, rec.Event)
	assert.Equal(t, "RockFest", rec.Event.Name)
	assert.Equal(t, rockFestID, rec.Event.ID)
	assert.Empty(t, rec.Errors)
}

func TestBuildRecordEventNameCaseInsensitive(t *testing.T) {
	cat := testCatalog(t, "")
	row := rowWith(map[string]string{
		"Correo": "a@x.com", "Nombre": "Ana", "Apellido": "Ruiz", "Evento": "  rockfest ",
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	require.NotNil(t, rec.Event)
	assert.Equal(t, rockFestID, rec.Event.ID)
}

func TestBuildRecordExplicitEventID(t *testing.T) {
	cat := testCatalog(t, "")
	row := rowWith(map[string]string{
		"Correo": "a@x.com", "Nombre": "Ana", "Apellido": "Ruiz",
		"Evento": "nombre que no existe", "Evento ID": jazzNocheID,
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	require.NotNil(t, rec.Event)
	assert.Equal(t, jazzNocheID, rec.Event.ID)
	assert.Equal(t, models.RecordValid, rec.Status)
}

func TestBuildRecordNonUUIDEventIDIgnored(t *testing.T) {
	cat := testCatalog(t, "")
	row := rowWith(map[string]string{
		"Correo": "a@x.com", "Nombre": "Ana", "Apellido": "Ruiz",
		"Evento": "Jazz Noche", "Evento ID": "12345",
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	require.NotNil(t, rec.Event)
	assert.Equal(t, jazzNocheID, rec.Event.ID)
}

func TestBuildRecordFallbackEvent(t *testing.T) {
	cat := testCatalog(t, "Otros Eventos")
	row := rowWith(map[string]string{
		"Correo": "a@x.com", "Nombre": "Ana", "Apellido": "Ruiz", "Evento": "Desconocido 2024",
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	require.NotNil(t, rec.Event)
	assert.Equal(t, otrosID, rec.Event.ID)
	assert.Equal(t, models.RecordValid, rec.Status)
}

func TestBuildRecordEmptyEventNameNotRescuedByFallback(t *testing.T) {
	cat := testCatalog(t, "Otros Eventos")
	row := rowWith(map[string]string{
		"Correo": "a@x.com", "Nombre": "Ana", "Apellido": "Ruiz", "Evento": "",
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	// The fallback only rescues mismatched names, never a missing one.
	assert.Nil(t, rec.Event)
	assert.Equal(t, models.RecordError, rec.Status)
	assert.Contains(t, rec.Errors, "evento requerido")
}

func TestBuildRecordUnresolvedEventIsError(t *testing.T) {
	cat := testCatalog(t, "")
	row := rowWith(map[string]string{
		"Correo": "a@x.com", "Nombre": "Ana", "Apellido": "Ruiz", "Evento": "Desconocido 2024",
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	assert.Nil(t, rec.Event)
	assert.Equal(t, models.RecordError, rec.Status)
	assert.Contains(t, rec.Errors, "evento no encontrado: Desconocido 2024")
}

func TestBuildRecordUnresolvedTicketIsWarning(t *testing.T) {
	cat := testCatalog(t, "")
	row := rowWith(map[string]string{
		"Correo": "a@x.com", "Nombre": "Ana", "Apellido": "Ruiz",
		"Evento": "RockFest", "Ticket": "Palco Dorado",
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	assert.Nil(t, rec.Ticket)
	assert.Equal(t, models.RecordWarning, rec.Status)
	assert.Contains(t, rec.Warnings, "tipo de ticket no encontrado: Palco Dorado")
}

func TestBuildRecordTicketByName(t *testing.T) {
	cat := testCatalog(t, "")
	row := rowWith(map[string]string{
		"Correo": "a@x.com", "Nombre": "Ana", "Apellido": "Ruiz",
		"Evento": "RockFest", "Ticket": "vip",
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	require.NotNil(t, rec.Ticket)
	assert.Equal(t, vipID, rec.Ticket.ID)
	assert.Equal(t, models.RecordValid, rec.Status)
}

func TestBuildRecordCorrectionOverridesResolution(t *testing.T) {
	cat := testCatalog(t, "")
	corrections := NewCorrectionSet([]models.CorrectionRecord{
		{Email: "A@X.com", EventID: jazzNocheID, TicketTypeID: vipID},
	})
	// Automatic resolution would pick RockFest; the operator wins.
	row := rowWith(map[string]string{
		"Correo": "a@x.com", "Nombre": "Ana", "Apellido": "Ruiz", "Evento": "RockFest",
	})

	rec := BuildRecord(row, baseMapping(), corrections, cat)

	require.NotNil(t, rec.Event)
	assert.Equal(t, jazzNocheID, rec.Event.ID)
	require.NotNil(t, rec.Ticket)
	assert.Equal(t, vipID, rec.Ticket.ID)
}

func TestBuildRecordMissingEmail(t *testing.T) {
	cat := testCatalog(t, "")
	row := rowWith(map[string]string{
		"Correo": "", "Nombre": "Ana", "Apellido": "Ruiz", "Evento": "RockFest",
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	assert.Equal(t, models.RecordError, rec.Status)
	assert.Contains(t, rec.Errors, "email requerido")
}

func TestBuildRecordInvalidEmail(t *testing.T) {
	cat := testCatalog(t, "")
	row := rowWith(map[string]string{
		"Correo": "no-es-un-email", "Nombre": "Ana", "Apellido": "Ruiz", "Evento": "RockFest",
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	assert.Equal(t, models.RecordError, rec.Status)
	assert.Contains(t, rec.Errors, "email inválido: no-es-un-email")
}

func TestBuildRecordMissingNames(t *testing.T) {
	cat := testCatalog(t, "")
	row := rowWith(map[string]string{
		"Correo": "a@x.com", "Nombre": "", "Apellido": "", "Evento": "RockFest",
	})

	rec := BuildRecord(row, baseMapping(), nil, cat)

	assert.Equal(t, models.RecordError, rec.Status)
	assert.Contains(t, rec.Errors, "nombre requerido")
	assert.Contains(t, rec.Errors, "apellido requerido")
}
