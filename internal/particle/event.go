package particle

// DetectionEvent is one accepted interaction. Events are immutable once
// appended and identifiers reflect processed order, not physical time.
type DetectionEvent struct {
	ID             int                `json:"event_id"`
	Time           float64            `json:"timestamp_s"`
	TrueEnergy     float64            `json:"energy_deposited_kev"`
	ObservedEnergy float64            `json:"detector_response_kev"`
	Signal         bool               `json:"is_signal"`
	Position       Vec3               `json:"position_m"`
	Meta           map[string]float64 `json:"metadata,omitempty"`
}

// Collection is the append-only event list owned by a single run.
// Insertion order is processing order; Append assigns sequential IDs.
type Collection struct {
	events     []DetectionEvent
	signal     int
	background int
}

func NewCollection() *Collection {
	return &Collection{events: make([]DetectionEvent, 0)}
}

func (c *Collection) Append(ev DetectionEvent) {
	ev.ID = len(c.events)
	if ev.Signal {
		c.signal++
	} else {
		c.background++
	}
	c.events = append(c.events, ev)
}

func (c *Collection) Events() []DetectionEvent { return c.events }
func (c *Collection) Len() int                 { return len(c.events) }
func (c *Collection) SignalCount() int         { return c.signal }
func (c *Collection) BackgroundCount() int     { return c.background }
