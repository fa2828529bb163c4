package importer

import (
	"strings"

	"github.com/google/uuid"

	"aforo/internal/models"
)

// CorrectionSet indexes operator corrections by the row's natural key, the
// lower-cased trimmed email, so a correction survives re-parsing the file.
type CorrectionSet map[string]models.CorrectionRecord

func NewCorrectionSet(records []models.CorrectionRecord) CorrectionSet {
	set := make(CorrectionSet, len(records))
	for _, rec := range records {
		set[normalizeEmail(rec.Email)] = rec
	}
	return set
}

// BuildRecord maps, resolves and classifies one spreadsheet row. It is a
// pure function over (row, mapping, corrections, catalog): preview and
// commit both call it, so they cannot disagree on resolution.
func BuildRecord(row Row, mapping ColumnMapping, corrections CorrectionSet, cat *Catalog) models.CanonicalRecord {
	rec := models.CanonicalRecord{
		Line:         row.Line,
		Email:        normalizeEmail(mapping.Value(row, FieldEmail)),
		FirstName:    mapping.Value(row, FieldFirstName),
		LastName:     mapping.Value(row, FieldLastName),
		EventName:    mapping.Value(row, FieldEventName),
		TicketName:   mapping.Value(row, FieldTicketName),
		Phone:        mapping.Value(row, FieldPhone),
		DocumentID:   mapping.Value(row, FieldDocumentID),
		Gender:       mapping.Value(row, FieldGender),
		BirthDate:    mapping.Value(row, FieldBirthDate),
		Address:      mapping.Value(row, FieldAddress),
		Section:      mapping.Value(row, FieldSection),
		SalesChannel: mapping.Value(row, FieldSalesChannel),
		PurchaseDate: mapping.Value(row, FieldPurchaseDate),
	}

	correction, corrected := corrections[rec.Email]
	if !corrected {
		correction = models.CorrectionRecord{}
	}

	if ev := resolveEvent(rec, row, mapping, correction, cat); ev != nil {
		rec.Event = &models.ResolvedRef{ID: ev.ID, Name: ev.Name}
	}
	if tt := resolveTicket(rec, row, mapping, correction, cat); tt != nil {
		rec.Ticket = &models.ResolvedRef{ID: tt.ID, Name: tt.Name}
	}

	classify(&rec)
	return rec
}

// resolveEvent applies the resolution order: operator correction, explicit
// UUID-shaped id, case-insensitive name match, configured fallback.
func resolveEvent(rec models.CanonicalRecord, row Row, mapping ColumnMapping, correction models.CorrectionRecord, cat *Catalog) *models.Event {
	if correction.EventID != "" {
		if ev := cat.EventByID(correction.EventID); ev != nil {
			return ev
		}
		// Operator corrections are authoritative even when the id has since
		// left the catalog.
		return &models.Event{ID: correction.EventID, Name: rec.EventName}
	}

	if id := mapping.Value(row, FieldEventID); id != "" && isUUID(id) {
		if ev := cat.EventByID(id); ev != nil {
			return ev
		}
	}

	// The fallback rescues rows whose event name matched nothing, not rows
	// that never named an event; those stay unresolved and classify as errors.
	if rec.EventName != "" {
		if ev := cat.EventByName(rec.EventName); ev != nil {
			return ev
		}
		return cat.FallbackEvent()
	}

	return nil
}

// resolveTicket is independent of event resolution and optional: no match is
// a warning, not an error.
func resolveTicket(rec models.CanonicalRecord, row Row, mapping ColumnMapping, correction models.CorrectionRecord, cat *Catalog) *models.TicketType {
	if correction.TicketTypeID != "" {
		if tt := cat.TicketByID(correction.TicketTypeID); tt != nil {
			return tt
		}
	}

	if id := mapping.Value(row, FieldTicketID); id != "" && isUUID(id) {
		if tt := cat.TicketByID(id); tt != nil {
			return tt
		}
	}

	if rec.TicketName != "" {
		if tt := cat.TicketByName(rec.TicketName); tt != nil {
			return tt
		}
	}

	return nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
