package datatable

// HitKind classifies the target of a pointer press.
type HitKind int

const (
	HitElsewhere HitKind = iota
	HitPanel
	HitTrigger
)

// Hit is where a pointer press landed, and for panels and triggers, which
// column they belong to.
type Hit struct {
	Kind HitKind
	Key  string
}

// Panel is the filter panel state machine: closed, or open on one column.
type Panel struct {
	columns    Columns
	open       string
	positioner *Positioner
	onClose    []func(key string)
}

func newPanel(columns Columns, positioner *Positioner) *Panel {
	return &Panel{columns: columns, positioner: positioner}
}

// Open returns the key of the open panel.
func (p *Panel) Open() (string, bool) {
	return p.open, p.open != ""
}

// Toggle opens key's panel, closing any other, or closes it if it is already
// open. Non-filterable columns are ignored.
func (p *Panel) Toggle(key string) bool {
	col, ok := p.columns.Lookup(key)
	if !ok || !col.filterable() {
		return false
	}
	if p.open == key {
		p.Close()
		return true
	}
	p.Close()
	p.open = key
	p.positioner.Open(key)
	return true
}

// Close closes the panel, detaching positioner listeners. It is safe to call
// when nothing is open.
func (p *Panel) Close() {
	if p.open == "" {
		p.positioner.Close()
		return
	}
	key := p.open
	p.open = ""
	p.positioner.Close()
	for _, fn := range p.onClose {
		fn(key)
	}
}

// OutsideClick closes the panel unless hit is the open panel or its trigger.
func (p *Panel) OutsideClick(hit Hit) {
	if p.open == "" {
		return
	}
	if (hit.Kind == HitPanel || hit.Kind == HitTrigger) && hit.Key == p.open {
		return
	}
	p.Close()
}

// Escape closes the panel.
func (p *Panel) Escape() {
	p.Close()
}
