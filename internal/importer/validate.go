package importer

import (
	"fmt"
	"regexp"

	"aforo/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// classify applies the validation rules in order and sets the record's
// final status. Any error makes the record un-committable; warnings do not
// block the row.
func classify(rec *models.CanonicalRecord) {
	if rec.Email == "" {
		rec.Errors = append(rec.Errors, "email requerido")
	} else if !emailPattern.MatchString(rec.Email) {
		rec.Errors = append(rec.Errors, fmt.Sprintf("email inválido: %s", rec.Email))
	}

	if rec.FirstName == "" {
		rec.Errors = append(rec.Errors, "nombre requerido")
	}
	if rec.LastName == "" {
		rec.Errors = append(rec.Errors, "apellido requerido")
	}

	if rec.EventName == "" && rec.Event == nil {
		rec.Errors = append(rec.Errors, "evento requerido")
	} else if rec.Event == nil {
		rec.Errors = append(rec.Errors, fmt.Sprintf("evento no encontrado: %s", rec.EventName))
	}

	if rec.TicketName != "" && rec.Ticket == nil {
		rec.Warnings = append(rec.Warnings, fmt.Sprintf("tipo de ticket no encontrado: %s", rec.TicketName))
	}

	switch {
	case len(rec.Errors) > 0:
		rec.Status = models.RecordError
	case len(rec.Warnings) > 0:
		rec.Status = models.RecordWarning
	default:
		rec.Status = models.RecordValid
	}
}
