package game

// EventPhase is one of the six sequential phases an event runs through.
// Progression is strictly linear; there is no backward transition and no
// terminal "closed" phase. Ending an event is a separate operation, not a
// phase.
type EventPhase string

const (
	PhaseBriefing   EventPhase = "briefing"
	PhaseSetup      EventPhase = "setup"
	PhaseRounds     EventPhase = "rounds"
	PhaseResolution EventPhase = "resolution"
	PhaseScoring    EventPhase = "scoring"
	PhasePrizes     EventPhase = "prizes"
)

// PhaseOrder lists the phases in their fixed run order.
var PhaseOrder = []EventPhase{
	PhaseBriefing,
	PhaseSetup,
	PhaseRounds,
	PhaseResolution,
	PhaseScoring,
	PhasePrizes,
}

// Valid reports whether p is a known phase.
func (p EventPhase) Valid() bool {
	for _, phase := range PhaseOrder {
		if p == phase {
			return true
		}
	}
	return false
}

// Next returns the phase after p in the fixed order. The last phase
// (prizes) has no successor and returns itself with ok=false.
func (p EventPhase) Next() (next EventPhase, ok bool) {
	for i, phase := range PhaseOrder {
		if p == phase {
			if i+1 < len(PhaseOrder) {
				return PhaseOrder[i+1], true
			}
			return p, false
		}
	}
	return p, false
}

// Index returns the position of p in the run order, or -1 if unknown.
func (p EventPhase) Index() int {
	for i, phase := range PhaseOrder {
		if p == phase {
			return i
		}
	}
	return -1
}
