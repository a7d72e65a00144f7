package tray

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
)

const (
	MenuInterface = "com.canonical.dbusmenu"
	MenuPath      = "/MenuBar"
)

// menuVersion is the com.canonical.dbusmenu interface version this
// implementation provides.
const menuVersion = uint32(3)

// Menu serves a menu tree over the com.canonical.dbusmenu interface.
//
// The tree is replaced atomically with [Menu.Update]; every replacement
// bumps the layout revision and notifies hosts with the LayoutUpdated
// signal.
type Menu struct {
	conn     *dbus.Conn
	mu       sync.Mutex
	root     *Node
	nodes    map[int32]*Node
	revision uint32

	// emitter sends a signal from the menu path. Set on export; a menu
	// without one has nothing to notify.
	emitter func(name string, values ...any)
}

// NewMenu exports an empty menu on the connection at [MenuPath].
func NewMenu(conn *dbus.Conn) (*Menu, error) {
	menu := &Menu{
		conn:  conn,
		root:  Submenu("", ""),
		nodes: map[int32]*Node{},
	}
	assignIDs(menu.root, menu.nodes)

	menu.emitter = func(name string, values ...any) {
		conn.Emit(MenuPath, name, values...)
	}

	if err := conn.Export(menu, MenuPath, MenuInterface); err != nil {
		return nil, fmt.Errorf("menu: failed to export %s: %w", MenuInterface, err)
	}

	if err := menu.exportProperties(); err != nil {
		return nil, fmt.Errorf("menu: %w", err)
	}

	return menu, nil
}

// Update replaces the menu content with the given top-level entries.
func (m *Menu) Update(entries ...*Node) {
	m.mu.Lock()

	m.root = Submenu("", "")
	m.root.children = entries
	m.nodes = map[int32]*Node{}
	assignIDs(m.root, m.nodes)
	m.revision++
	revision := m.revision

	m.mu.Unlock()

	// Zero means the whole layout changed; hosts re-fetch it via GetLayout.
	m.emit(MenuInterface+".LayoutUpdated", revision, int32(0))
}

// GetLayout implements com.canonical.dbusmenu.GetLayout.
func (m *Menu) GetLayout(parentID int32, recursionDepth int32, propertyNames []string) (uint32, layout, *dbus.Error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	parent, ok := m.nodes[parentID]
	if !ok {
		return m.revision, layout{}, dbus.MakeFailedError(fmt.Errorf("menu: unknown node %d", parentID))
	}

	return m.revision, parent.encode(recursionDepth, propertyNames), nil
}

// nodeProperties is an element of the GetGroupProperties reply, with D-Bus
// signature (ia{sv}).
type nodeProperties struct {
	ID         int32
	Properties map[string]dbus.Variant
}

// GetGroupProperties implements com.canonical.dbusmenu.GetGroupProperties.
// Unknown IDs are silently omitted from the reply.
func (m *Menu) GetGroupProperties(ids []int32, propertyNames []string) ([]nodeProperties, *dbus.Error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	group := make([]nodeProperties, 0, len(ids))

	for _, id := range ids {
		node, ok := m.nodes[id]
		if !ok {
			continue
		}

		group = append(group, nodeProperties{
			ID:         id,
			Properties: filterProperties(node.properties, propertyNames),
		})
	}

	return group, nil
}

// GetProperty implements com.canonical.dbusmenu.GetProperty.
func (m *Menu) GetProperty(id int32, name string) (dbus.Variant, *dbus.Error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	node, ok := m.nodes[id]
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("menu: unknown node %d", id))
	}

	value, ok := node.properties[name]
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("menu: node %d has no property %s", id, name))
	}

	return value, nil
}

// Event implements com.canonical.dbusmenu.Event. Only "clicked" events are
// acted upon; other events are accepted and ignored.
func (m *Menu) Event(id int32, eventID string, data dbus.Variant, timestamp uint32) *dbus.Error {
	if eventID != "clicked" {
		return nil
	}

	m.click(id)

	return nil
}

// menuEvent is an element of the EventGroup argument, with D-Bus signature
// (isvu).
type menuEvent struct {
	ID        int32
	EventID   string
	Data      dbus.Variant
	Timestamp uint32
}

// EventGroup implements com.canonical.dbusmenu.EventGroup. It returns the
// IDs that were not found.
func (m *Menu) EventGroup(events []menuEvent) ([]int32, *dbus.Error) {
	var notFound []int32

	for _, event := range events {
		m.mu.Lock()
		_, ok := m.nodes[event.ID]
		m.mu.Unlock()

		if !ok {
			notFound = append(notFound, event.ID)
			continue
		}

		if event.EventID == "clicked" {
			m.click(event.ID)
		}
	}

	return notFound, nil
}

// AboutToShow implements com.canonical.dbusmenu.AboutToShow. The menu is
// rebuilt eagerly on configuration changes, so hosts never need a refresh.
func (m *Menu) AboutToShow(id int32) (bool, *dbus.Error) {
	return false, nil
}

// AboutToShowGroup implements com.canonical.dbusmenu.AboutToShowGroup.
func (m *Menu) AboutToShowGroup(ids []int32) ([]int32, []int32, *dbus.Error) {
	return []int32{}, []int32{}, nil
}

// click dispatches an activation to the node's callback. Checkmark nodes
// flip their state first and report it to hosts via ItemsPropertiesUpdated.
func (m *Menu) click(id int32) {
	m.mu.Lock()

	node, ok := m.nodes[id]
	if !ok {
		m.mu.Unlock()
		return
	}

	var run func()

	switch {
	case node.onToggle != nil:
		state := !node.Checked()
		node.properties["toggle-state"] = dbus.MakeVariant(toggleState(state))

		updated := []nodeProperties{{
			ID:         id,
			Properties: map[string]dbus.Variant{"toggle-state": node.properties["toggle-state"]},
		}}

		m.emit(MenuInterface+".ItemsPropertiesUpdated", updated, []struct {
			ID         int32
			Properties []string
		}{})

		callback := node.onToggle
		run = func() { callback(state) }
	case node.onClick != nil:
		run = node.onClick
	}

	m.mu.Unlock()

	if run != nil {
		run()
	}
}

func (m *Menu) emit(name string, values ...any) {
	if m.emitter == nil {
		return
	}

	m.emitter(name, values...)
}

func (m *Menu) exportProperties() error {
	_, err := prop.Export(m.conn, MenuPath, prop.Map{
		MenuInterface: map[string]*prop.Prop{
			"Version": {
				Value:    menuVersion,
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"TextDirection": {
				Value:    "ltr",
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"Status": {
				Value:    "normal",
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"IconThemePath": {
				Value:    []string{},
				Writable: false,
				Emit:     prop.EmitTrue,
			},
		},
	})

	return err
}
