package datatable

// Default presentation constants for the floating filter panel.
const (
	PanelGap   = 4
	PanelWidth = 240
)

// Rect is a trigger's bounding rectangle in viewport coordinates.
type Rect struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Position is a panel's document-absolute anchor.
type Position struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Geometry exposes the host's live layout.
type Geometry interface {
	// TriggerRect returns the current viewport rectangle of key's filter
	// trigger, or false when the trigger is not mounted.
	TriggerRect(key string) (Rect, bool)
	// ScrollOffset returns the page's horizontal and vertical scroll.
	ScrollOffset() (x, y float64)
}

// PositionerConfig sets the panel gap and width.
type PositionerConfig struct {
	Gap   float64
	Width float64
}

// DefaultPositionerConfig returns PanelGap and PanelWidth.
func DefaultPositionerConfig() PositionerConfig {
	return PositionerConfig{Gap: PanelGap, Width: PanelWidth}
}

// Positioner anchors an open panel under its trigger and keeps the anchor
// current while the page or the table wrapper scrolls.
type Positioner struct {
	geometry Geometry
	events   EventSource
	gap      float64
	width    float64

	key    string
	active bool
	pos    Position
	placed bool
	detach []func()
}

// NewPositioner builds a positioner. Either dependency may be nil, in which
// case the panel is tracked but never placed. A non-positive width falls back
// to PanelWidth.
func NewPositioner(geometry Geometry, events EventSource, cfg PositionerConfig) *Positioner {
	if cfg.Width <= 0 {
		cfg.Width = PanelWidth
	}
	return &Positioner{geometry: geometry, events: events, gap: cfg.Gap, width: cfg.Width}
}

// Open starts tracking key's trigger. Listeners are attached once per open.
func (p *Positioner) Open(key string) {
	p.Close()
	p.key = key
	p.active = true
	p.Recompute()
	if p.events == nil {
		return
	}
	for _, kind := range trackedEvents {
		p.detach = append(p.detach, p.events.Listen(kind, p.Recompute))
	}
}

// Close detaches every listener and discards the position.
func (p *Positioner) Close() {
	for _, remove := range p.detach {
		remove()
	}
	p.detach = nil
	p.key = ""
	p.active = false
	p.placed = false
	p.pos = Position{}
}

// Recompute re-derives the position from the trigger's live rectangle. A
// missing trigger leaves the panel unplaced.
func (p *Positioner) Recompute() {
	if !p.active || p.geometry == nil {
		return
	}
	rect, ok := p.geometry.TriggerRect(p.key)
	if !ok {
		p.placed = false
		return
	}
	x, y := p.geometry.ScrollOffset()
	p.pos = Position{
		Top:  rect.Bottom + y + p.gap,
		Left: rect.Right - p.width + x,
	}
	p.placed = true
}

// Position returns the current anchor and whether the panel may be drawn.
func (p *Positioner) Position() (Position, bool) {
	return p.pos, p.active && p.placed
}

// Width is the panel width the positioner right-aligns against.
func (p *Positioner) Width() float64 {
	return p.width
}

// Gap is the vertical distance between trigger and panel.
func (p *Positioner) Gap() float64 {
	return p.gap
}

// Attached reports how many listeners are currently held.
func (p *Positioner) Attached() int {
	return len(p.detach)
}
