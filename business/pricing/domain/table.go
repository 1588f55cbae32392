package domain

import (
	"encoding/json"
	"time"
)

// PriceTable is the immutable set of observations of one poll cycle, keyed by
// source and kept in source enumeration order.
type PriceTable struct {
	cycleID     string
	startedAt   time.Time
	completedAt time.Time
	order       []SourceID
	bySource    map[SourceID]PriceObservation
}

// NewPriceTable creates a table from observations in enumeration order. A
// later observation for the same source replaces an earlier one in place.
func NewPriceTable(cycleID string, startedAt, completedAt time.Time, observations []PriceObservation) *PriceTable {
	t := &PriceTable{
		cycleID:     cycleID,
		startedAt:   startedAt,
		completedAt: completedAt,
		order:       make([]SourceID, 0, len(observations)),
		bySource:    make(map[SourceID]PriceObservation, len(observations)),
	}
	for _, o := range observations {
		if _, ok := t.bySource[o.SourceID]; !ok {
			t.order = append(t.order, o.SourceID)
		}
		t.bySource[o.SourceID] = o
	}
	return t
}

func (t *PriceTable) CycleID() string        { return t.cycleID }
func (t *PriceTable) StartedAt() time.Time   { return t.startedAt }
func (t *PriceTable) CompletedAt() time.Time { return t.completedAt }

// Len returns the number of sources.
func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Get returns the observation of a source.
func (t *PriceTable) Get(id SourceID) (PriceObservation, bool) {
	if t == nil {
		return PriceObservation{}, false
	}
	o, ok := t.bySource[id]
	return o, ok
}

// Observations returns every observation in enumeration order.
func (t *PriceTable) Observations() []PriceObservation {
	return t.filter(func(PriceObservation) bool { return true })
}

// Successful returns the observations carrying a price, in enumeration order.
func (t *PriceTable) Successful() []PriceObservation {
	return t.filter(PriceObservation.IsSuccess)
}

// Failed returns the error observations, in enumeration order.
func (t *PriceTable) Failed() []PriceObservation {
	return t.filter(func(o PriceObservation) bool { return !o.IsSuccess() })
}

func (t *PriceTable) filter(keep func(PriceObservation) bool) []PriceObservation {
	if t == nil {
		return nil
	}
	out := make([]PriceObservation, 0, len(t.order))
	for _, id := range t.order {
		if o := t.bySource[id]; keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// MarshalJSON renders the table as an ordered list.
func (t *PriceTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CycleID      string             `json:"cycle_id"`
		StartedAt    time.Time          `json:"started_at"`
		CompletedAt  time.Time          `json:"completed_at"`
		Observations []PriceObservation `json:"observations"`
	}{t.cycleID, t.startedAt, t.completedAt, t.Observations()})
}
