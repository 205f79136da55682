package mode

import (
	"fmt"

	"github.com/milk9111/worldmap/errs"
	"github.com/milk9111/worldmap/event"
	"github.com/milk9111/worldmap/gfx"
	"github.com/milk9111/worldmap/worldmap"
	"golang.org/x/image/colornames"
)

const NameEdit = "edit"

const selectionItem = "selection"

// PropertiesPanel is the external view EditMode fills with the selected
// entity's properties.
type PropertiesPanel interface {
	Open()
	Show(id string, kind event.Kind, props map[string]string)
	Clear()
	Close()
}

// EditMode selects the entity under the pointer and exposes its properties
// in the panel. It writes properties back through SetProperty and never
// changes geometry. It emits SelectionChanged.
type EditMode struct {
	base
	event.Emitter

	model *worldmap.Map
	layer *gfx.Layer
	vp    Viewport
	panel PropertiesPanel

	subs     event.Subscriptions
	selected string
	kind     event.Kind
}

func NewEditMode(model *worldmap.Map, layer *gfx.Layer, vp Viewport, panel PropertiesPanel, opts ...Option) *EditMode {
	return &EditMode{
		base:  newBase(NameEdit, opts),
		model: model,
		layer: layer,
		vp:    vp,
		panel: panel,
	}
}

func (m *EditMode) Activate(n *Notifier) error {
	if err := m.attach(n); err != nil {
		return err
	}
	m.panel.Open()
	event.Subscribe(&m.subs, m.model, func(ev event.EntityChanged) {
		if ev.ID == m.selected {
			m.refresh()
		}
	})
	event.Subscribe(&m.subs, m.model, func(ev event.EntityRemoved) {
		if ev.ID == m.selected {
			m.Deselect()
		}
	})
	return nil
}

func (m *EditMode) Deactivate() {
	if !m.Active() {
		return
	}
	m.Deselect()
	m.subs.Release()
	m.layer.Clear()
	m.panel.Close()
	m.detach()
}

// Selected returns the selected entity.
func (m *EditMode) Selected() (string, event.Kind, bool) {
	return m.selected, m.kind, m.selected != ""
}

func (m *EditMode) PointerDown(ev PointerEvent) {
	if !m.Active() || ev.Button != ButtonLeft {
		return
	}
	id, _ := pickEntity(m.model, m.vp, ev.Screen, m.threshold)
	if id == "" {
		m.Deselect()
		return
	}
	if err := m.Select(id); err != nil {
		m.log.Warn().Err(err).Str("entity", id).Msg("select failed")
	}
}

func (m *EditMode) KeyPress(ev KeyEvent) {
	if ev.Key == KeyEscape {
		m.Deselect()
	}
}

// Select makes id the selection and shows its properties.
func (m *EditMode) Select(id string) error {
	if !m.Active() {
		return fmt.Errorf("select %s: mode inactive: %w", id, errs.ErrInvalidArgument)
	}
	kind, ok := m.model.Lookup(id)
	if !ok {
		return errs.NewNotFound("entity", id)
	}
	if id == m.selected {
		return nil
	}
	m.selected, m.kind = id, kind
	m.refresh()
	m.Emit(event.SelectionChanged{ID: id, Kind: kind})
	return nil
}

// Deselect clears the selection and the panel.
func (m *EditMode) Deselect() {
	if m.selected == "" {
		return
	}
	m.selected, m.kind = "", ""
	m.layer.Remove(selectionItem)
	m.panel.Clear()
	m.Emit(event.SelectionChanged{})
}

// SetProperty writes a property of the selected entity.
func (m *EditMode) SetProperty(key, value string) error {
	if m.selected == "" {
		return fmt.Errorf("set property %q: nothing selected: %w", key, errs.ErrInvalidArgument)
	}
	return m.model.SetProperty(m.selected, key, value)
}

// DeleteProperty removes a property of the selected entity.
func (m *EditMode) DeleteProperty(key string) error {
	if m.selected == "" {
		return fmt.Errorf("delete property %q: nothing selected: %w", key, errs.ErrInvalidArgument)
	}
	return m.model.DeleteProperty(m.selected, key)
}

// Properties returns the properties of the selected entity.
func (m *EditMode) Properties() (map[string]string, error) {
	if m.selected == "" {
		return nil, fmt.Errorf("properties: nothing selected: %w", errs.ErrInvalidArgument)
	}
	return m.model.Properties(m.selected)
}

func (m *EditMode) refresh() {
	props, err := m.model.Properties(m.selected)
	if err != nil {
		m.log.Warn().Err(err).Str("entity", m.selected).Msg("refresh selection")
		return
	}
	m.panel.Show(m.selected, m.kind, props)
	m.layer.Put(selectionItem, highlight(m.model, m.selected, m.kind, colornames.Deepskyblue, m.threshold))
}
