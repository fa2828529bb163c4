package importer

import "strings"

// genreKeywords maps raw text fragments to a normalized music genre, in
// priority order. Detection is informational only: the tag lands on the job
// ledger and in the import response, never on committed records.
var genreKeywords = []struct {
	genre    string
	keywords []string
}{
	{"rock", []string{"rock", "metal", "punk"}},
	{"electronica", []string{"electro", "techno", "house", "rave", "dj "}},
	{"urbano", []string{"reggaeton", "reggaetón", "urbano", "trap", "hip hop", "rap"}},
	{"cumbia", []string{"cumbia", "tropical"}},
	{"salsa", []string{"salsa", "bachata", "merengue"}},
	{"jazz", []string{"jazz", "blues", "soul"}},
	{"pop", []string{"pop", "indie"}},
	{"folclore", []string{"folclore", "folklore", "peña"}},
}

// DetectGenre scans the upload's file name and the event-name cells and
// returns the genre with the most keyword hits, or "" when nothing matches.
func DetectGenre(fileName string, rows []Row, mapping ColumnMapping) string {
	var corpus strings.Builder
	corpus.WriteString(strings.ToLower(fileName))
	corpus.WriteByte(' ')
	for _, row := range rows {
		corpus.WriteString(strings.ToLower(mapping.Value(row, FieldEventName)))
		corpus.WriteByte(' ')
	}
	text := corpus.String()

	best := ""
	bestHits := 0
	for _, entry := range genreKeywords {
		hits := 0
		for _, kw := range entry.keywords {
			hits += strings.Count(text, kw)
		}
		if hits > bestHits {
			best = entry.genre
			bestHits = hits
		}
	}
	return best
}
