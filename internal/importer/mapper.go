package importer

import (
	"fmt"
	"strings"
)

// Canonical field names. Spreadsheet headers are mapped onto these; the rest
// of the pipeline never sees raw header spellings.
const (
	FieldEmail        = "email"
	FieldFirstName    = "nombre"
	FieldLastName     = "apellido"
	FieldEventName    = "evento_nombre"
	FieldEventID      = "evento_id"
	FieldTicketID     = "ticket_id"
	FieldTicketName   = "ticket_nombre"
	FieldPhone        = "telefono"
	FieldDocumentID   = "documento_id"
	FieldGender       = "genero"
	FieldBirthDate    = "fecha_nacimiento"
	FieldAddress      = "direccion"
	FieldSection      = "seccion"
	FieldSalesChannel = "canal_venta"
	FieldPurchaseDate = "fecha_compra"
)

// fieldSpec binds a canonical field to its ordered header synonyms. New
// header spellings are added here, never in resolution logic.
type fieldSpec struct {
	name     string
	required bool
	synonyms []string
}

var fieldSpecs = []fieldSpec{
	{FieldEmail, true, []string{"email", "e-mail", "correo", "correo electronico", "correo electrónico", "mail"}},
	{FieldFirstName, true, []string{"nombre", "nombres", "first name", "firstname", "name"}},
	{FieldLastName, true, []string{"apellido", "apellidos", "last name", "lastname", "surname"}},
	{FieldEventName, true, []string{"evento", "event", "nombre evento", "nombre del evento", "show"}},
	{FieldEventID, false, []string{"evento id", "evento_id", "event id", "id evento"}},
	{FieldTicketID, false, []string{"ticket id", "ticket_id", "id ticket"}},
	{FieldTicketName, false, []string{"ticket", "tipo ticket", "tipo de ticket", "ticket type", "entrada", "tipo entrada"}},
	{FieldPhone, false, []string{"telefono", "teléfono", "phone", "celular", "movil", "móvil"}},
	{FieldDocumentID, false, []string{"documento", "dni", "cedula", "cédula", "rut", "document"}},
	{FieldGender, false, []string{"genero", "género", "sexo", "gender"}},
	{FieldBirthDate, false, []string{"fecha nacimiento", "fecha de nacimiento", "nacimiento", "birth date", "birthdate"}},
	{FieldAddress, false, []string{"direccion", "dirección", "domicilio", "address"}},
	{FieldSection, false, []string{"seccion", "sección", "sector", "zona", "section"}},
	{FieldSalesChannel, false, []string{"canal", "canal venta", "canal de venta", "origen", "source", "channel"}},
	{FieldPurchaseDate, false, []string{"fecha compra", "fecha de compra", "purchase date", "fecha venta"}},
}

// ColumnMapping maps canonical field name to the header actually found.
type ColumnMapping map[string]string

// MissingColumnsError aborts the whole job: a missing required column would
// silently corrupt every row. Its message is shown verbatim to the operator.
type MissingColumnsError struct {
	Missing []string
	Hints   map[string][]string
	Headers []string
}

func (e *MissingColumnsError) Error() string {
	var b strings.Builder
	b.WriteString("No se encontraron las siguientes columnas requeridas:\n")
	for _, field := range e.Missing {
		fmt.Fprintf(&b, "- %s (se acepta: %s)\n", field, strings.Join(e.Hints[field], ", "))
	}
	fmt.Fprintf(&b, "Columnas encontradas en el archivo: %s", strings.Join(e.Headers, ", "))
	return b.String()
}

// MapColumns binds each canonical field to the first header matching one of
// its synonyms. Exact normalized matches win over substring matches, and a
// header is never bound to two fields.
func MapColumns(headers []string) (ColumnMapping, error) {
	mapping := make(ColumnMapping, len(fieldSpecs))
	claimed := make(map[string]bool, len(headers))

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	// Pass 1: exact synonym match.
	for _, spec := range fieldSpecs {
		for _, syn := range spec.synonyms {
			if header, ok := findHeader(headers, normalized, claimed, syn, true); ok {
				mapping[spec.name] = header
				claimed[header] = true
				break
			}
		}
	}

	// Pass 2: header contains the synonym, for anything still unbound.
	for _, spec := range fieldSpecs {
		if _, ok := mapping[spec.name]; ok {
			continue
		}
		for _, syn := range spec.synonyms {
			if header, ok := findHeader(headers, normalized, claimed, syn, false); ok {
				mapping[spec.name] = header
				claimed[header] = true
				break
			}
		}
	}

	var missing []string
	hints := make(map[string][]string)
	for _, spec := range fieldSpecs {
		if !spec.required {
			continue
		}
		if _, ok := mapping[spec.name]; !ok {
			missing = append(missing, spec.name)
			hints[spec.name] = spec.synonyms
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, Hints: hints, Headers: headers}
	}

	return mapping, nil
}

// Value returns the row's value for a canonical field, trimmed; "" when the
// field is unmapped or the cell is empty.
func (m ColumnMapping) Value(row Row, field string) string {
	header, ok := m[field]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row.Values[header])
}

func findHeader(headers, normalized []string, claimed map[string]bool, synonym string, exact bool) (string, bool) {
	syn := normalizeHeader(synonym)
	for i, norm := range normalized {
		if norm == "" || claimed[headers[i]] {
			continue
		}
		if exact && norm == syn {
			return headers[i], true
		}
		if !exact && strings.Contains(norm, syn) {
			return headers[i], true
		}
	}
	return "", false
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}
