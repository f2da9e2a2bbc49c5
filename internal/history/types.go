// Package history keeps the ordered ledger of evaluated expressions and
// mirrors it to a persistent backend after every change.
package history

import "time"

// Step records one binary operation of an evaluated expression.
type Step struct {
	Input     string  `json:"input"`
	Operation string  `json:"operation"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    float64 `json:"result"`
}

// Group is one evaluated expression with its ordered steps.
type Group struct {
	Input     string    `json:"input"`
	Result    float64   `json:"result"`
	Timestamp time.Time `json:"timestamp"`
	Steps     []Step    `json:"steps"`
}

// clone returns a copy of g that shares no memory with it.
func (g Group) clone() Group {
	out := g
	if g.Steps != nil {
		out.Steps = make([]Step, len(g.Steps))
		copy(out.Steps, g.Steps)
	}
	return out
}

func cloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = g.clone()
	}
	return out
}

// DeletedEvent is the payload of a calculation_deleted notification.
type DeletedEvent struct {
	Index int
	Group Group
}

// LoadedEvent is the payload of a history_loaded notification.
type LoadedEvent struct {
	Backup string
	Count  int
}
