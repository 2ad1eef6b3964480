// Package stats models the dashboard counters and keeps them fresh.
package stats

import (
	"strconv"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Stats is the payload of the statistics endpoint. Nil fields are absent
// and leave their slot untouched.
type Stats struct {
	ConsultasHoje    *int `json:"consultas_hoje,omitempty"`
	SalasDisponiveis *int `json:"salas_disponiveis,omitempty"`
	SalasOcupadas    *int `json:"salas_ocupadas,omitempty"`
	ClientesAtivos   *int `json:"clientes_ativos,omitempty"`
}

// Slot ids in the dashboard markup.
const (
	SlotConsultasHoje    = "stat-consultas-hoje"
	SlotSalasDisponiveis = "stat-salas-disponiveis"
	SlotSalasOcupadas    = "stat-salas-ocupadas"
	SlotClientesAtivos   = "stat-clientes-ativos"
)

// PulseClass marks a slot whose value just changed.
const PulseClass = "stat-pulse"

// Slots lists the slot ids in display order.
var Slots = []string{SlotConsultasHoje, SlotSalasDisponiveis, SlotSalasOcupadas, SlotClientesAtivos}

// Int returns a pointer to v, for building payloads.
func Int(v int) *int { return &v }

// Values returns the present fields keyed by slot id.
func (s Stats) Values() map[string]string {
	out := make(map[string]string, 4)
	put := func(slot string, v *int) {
		if v != nil {
			out[slot] = strconv.Itoa(*v)
		}
	}
	put(SlotConsultasHoje, s.ConsultasHoje)
	put(SlotSalasDisponiveis, s.SalasDisponiveis)
	put(SlotSalasOcupadas, s.SalasOcupadas)
	put(SlotClientesAtivos, s.ClientesAtivos)
	return out
}

// pulses reports whether a slot animates on change. Only the appointments
// counter does.
func pulses(slot string) bool { return slot == SlotConsultasHoje }

// ApplyToDocument writes the present values into the elements with the
// matching ids and returns the slots whose text changed. Missing elements
// are skipped.
func ApplyToDocument(doc *goquery.Document, s Stats) []string {
	var changed []string
	values := s.Values()
	for _, slot := range Slots {
		v, ok := values[slot]
		if !ok {
			continue
		}
		el := doc.Find("#" + slot).First()
		if el.Length() == 0 || el.Text() == v {
			continue
		}
		el.SetText(v)
		if pulses(slot) {
			el.AddClass(PulseClass)
		}
		changed = append(changed, slot)
	}
	return changed
}

// Change is one slot update.
type Change struct {
	Slot  string `json:"slot"`
	Value string `json:"value"`
	Pulse bool   `json:"pulse"`
}

// Board is the in-memory copy of the dashboard slots. Safe for concurrent
// use.
type Board struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{values: make(map[string]string, len(Slots))}
}

// Apply merges s into the board and returns what changed.
func (b *Board) Apply(s Stats) []Change {
	b.mu.Lock()
	defer b.mu.Unlock()

	var changes []Change
	values := s.Values()
	for _, slot := range Slots {
		v, ok := values[slot]
		if !ok || b.values[slot] == v {
			continue
		}
		b.values[slot] = v
		changes = append(changes, Change{Slot: slot, Value: v, Pulse: pulses(slot)})
	}
	return changes
}

// Get returns the current text of a slot.
func (b *Board) Get(slot string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[slot]
	return v, ok
}

// Snapshot returns a copy of every filled slot.
func (b *Board) Snapshot() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]string, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}
