package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestPanel() (*Panel, *EventBus) {
	bus := NewEventBus()
	geo := &fakeGeometry{rects: map[string]Rect{"name": {}, "status": {}, "tags": {}}}
	return newPanel(filterColumns(), NewPositioner(geo, bus, DefaultPositionerConfig())), bus
}

func TestPanelTransitions(t *testing.T) {
	p, bus := newTestPanel()

	assert.True(t, p.Toggle("name"))
	key, open := p.Open()
	assert.True(t, open)
	assert.Equal(t, "name", key)

	assert.True(t, p.Toggle("status"))
	key, _ = p.Open()
	assert.Equal(t, "status", key)
	assert.Equal(t, 1, bus.Listeners(EventResize))

	assert.True(t, p.Toggle("status"))
	_, open = p.Open()
	assert.False(t, open)
	assert.Zero(t, bus.Listeners(EventResize))
}

func TestPanelIgnoresNonFilterableColumns(t *testing.T) {
	p, _ := newTestPanel()
	assert.False(t, p.Toggle("id"))
	assert.False(t, p.Toggle("missing"))
	_, open := p.Open()
	assert.False(t, open)
}

func TestPanelOutsideClick(t *testing.T) {
	p, bus := newTestPanel()
	p.Toggle("tags")

	p.OutsideClick(Hit{Kind: HitPanel, Key: "tags"})
	p.OutsideClick(Hit{Kind: HitTrigger, Key: "tags"})
	_, open := p.Open()
	assert.True(t, open)

	p.OutsideClick(Hit{Kind: HitPanel, Key: "name"})
	_, open = p.Open()
	assert.False(t, open)

	p.Toggle("tags")
	p.OutsideClick(Hit{Kind: HitElsewhere})
	_, open = p.Open()
	assert.False(t, open)
	assert.Zero(t, bus.Listeners(EventContainerScroll))
}

func TestPanelEscape(t *testing.T) {
	p, _ := newTestPanel()
	closed := ""
	p.onClose = append(p.onClose, func(key string) { closed = key })

	p.Toggle("name")
	p.Escape()
	_, open := p.Open()
	assert.False(t, open)
	assert.Equal(t, "name", closed)

	assert.NotPanics(t, p.Escape)
}
