package importer

import (
	"context"
	"fmt"
	"strings"

	"aforo/internal/models"
)

// Catalog holds every known event and ticket type, loaded once per
// invocation and indexed for case-insensitive name lookup. Loading the full
// collections up front is what keeps per-row resolution off the database.
type Catalog struct {
	eventsByID     map[string]*models.Event
	eventsByName   map[string]*models.Event
	ticketsByID    map[string]*models.TicketType
	ticketsByName  map[string]*models.TicketType
	ticketsByEvent map[string][]*models.TicketType
	fallback       *models.Event
}

// LoadCatalog reads both reference collections and resolves the designated
// fallback event by name. fallbackName may be empty, in which case rows with
// an unresolvable event stay unresolved.
func LoadCatalog(ctx context.Context, events EventStore, tickets TicketTypeStore, fallbackName string) (*Catalog, error) {
	evs, err := events.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events catalog: %w", err)
	}
	tts, err := tickets.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket types catalog: %w", err)
	}

	cat := &Catalog{
		eventsByID:     make(map[string]*models.Event, len(evs)),
		eventsByName:   make(map[string]*models.Event, len(evs)),
		ticketsByID:    make(map[string]*models.TicketType, len(tts)),
		ticketsByName:  make(map[string]*models.TicketType, len(tts)),
		ticketsByEvent: make(map[string][]*models.TicketType),
	}

	for i := range evs {
		ev := &evs[i]
		cat.eventsByID[ev.ID] = ev
		key := normalizeName(ev.Name)
		if _, dup := cat.eventsByName[key]; !dup {
			cat.eventsByName[key] = ev
		}
	}
	for i := range tts {
		tt := &tts[i]
		cat.ticketsByID[tt.ID] = tt
		key := normalizeName(tt.Name)
		if _, dup := cat.ticketsByName[key]; !dup {
			cat.ticketsByName[key] = tt
		}
		cat.ticketsByEvent[tt.EventID] = append(cat.ticketsByEvent[tt.EventID], tt)
	}

	if fallbackName != "" {
		cat.fallback = cat.eventsByName[normalizeName(fallbackName)]
	}

	return cat, nil
}

func (c *Catalog) EventByID(id string) *models.Event {
	return c.eventsByID[id]
}

func (c *Catalog) EventByName(name string) *models.Event {
	return c.eventsByName[normalizeName(name)]
}

func (c *Catalog) TicketByID(id string) *models.TicketType {
	return c.ticketsByID[id]
}

func (c *Catalog) TicketByName(name string) *models.TicketType {
	return c.ticketsByName[normalizeName(name)]
}

// FirstTicketForEvent returns the event's first ticket type in catalog load
// order, the deterministic default when a row names no ticket.
func (c *Catalog) FirstTicketForEvent(eventID string) *models.TicketType {
	tts := c.ticketsByEvent[eventID]
	if len(tts) == 0 {
		return nil
	}
	return tts[0]
}

func (c *Catalog) FallbackEvent() *models.Event {
	return c.fallback
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
