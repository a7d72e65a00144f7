package tray

import (
	"github.com/godbus/dbus/v5"
)

// Node is a single entry of the menu tree. Nodes are built free-standing
// and receive their IDs when the tree is installed with [Menu.Update].
type Node struct {
	id         int32
	properties map[string]dbus.Variant
	children   []*Node

	// onClick runs when the host reports a "clicked" event for this node.
	onClick func()

	// onToggle runs instead of onClick for checkmark nodes and receives
	// the new toggle state.
	onToggle func(bool)
}

// MenuItem returns a plain activatable menu entry. The icon name may be
// empty.
func MenuItem(label, iconName string, onClick func()) *Node {
	node := &Node{
		properties: map[string]dbus.Variant{
			"label": dbus.MakeVariant(label),
		},
		onClick: onClick,
	}

	if iconName != "" {
		node.properties["icon-name"] = dbus.MakeVariant(iconName)
	}

	return node
}

// Separator returns a separator entry.
func Separator() *Node {
	return &Node{
		properties: map[string]dbus.Variant{
			"type": dbus.MakeVariant("separator"),
		},
	}
}

// Submenu returns an entry that expands into child entries.
func Submenu(label, iconName string, children ...*Node) *Node {
	node := MenuItem(label, iconName, nil)
	node.properties["children-display"] = dbus.MakeVariant("submenu")
	node.children = children

	return node
}

// Checkbox returns a checkmark entry. The callback receives the state the
// user switched the entry to.
func Checkbox(label string, checked bool, onToggle func(bool)) *Node {
	node := MenuItem(label, "", nil)
	node.properties["toggle-type"] = dbus.MakeVariant("checkmark")
	node.properties["toggle-state"] = dbus.MakeVariant(toggleState(checked))
	node.onToggle = onToggle

	return node
}

// Label returns the label of the node, empty for separators.
func (n *Node) Label() string {
	variant, ok := n.properties["label"]
	if !ok {
		return ""
	}

	label, _ := variant.Value().(string)

	return label
}

// Children returns the child entries of a submenu node.
func (n *Node) Children() []*Node {
	return n.children
}

// Disabled marks the node as not activatable and returns it.
func (n *Node) Disabled() *Node {
	n.properties["enabled"] = dbus.MakeVariant(false)
	return n
}

// Checked reports the current toggle state of a checkmark node.
func (n *Node) Checked() bool {
	variant, ok := n.properties["toggle-state"]
	if !ok {
		return false
	}

	state, ok := variant.Value().(int32)

	return ok && state == 1
}

func toggleState(checked bool) int32 {
	if checked {
		return 1
	}

	return 0
}

// layout is the com.canonical.dbusmenu layout struct, with D-Bus signature
// (ia{sv}av).
type layout struct {
	ID         int32
	Properties map[string]dbus.Variant
	Children   []dbus.Variant
}

// encode converts the node subtree into the wire layout. depth limits
// recursion: -1 means unlimited, 0 omits children. propertyNames filters
// the returned properties; an empty filter returns all of them.
func (n *Node) encode(depth int32, propertyNames []string) layout {
	encoded := layout{
		ID:         n.id,
		Properties: filterProperties(n.properties, propertyNames),
		Children:   []dbus.Variant{},
	}

	if depth == 0 {
		return encoded
	}

	childDepth := depth
	if childDepth > 0 {
		childDepth--
	}

	for _, child := range n.children {
		encoded.Children = append(encoded.Children, dbus.MakeVariant(child.encode(childDepth, propertyNames)))
	}

	return encoded
}

func filterProperties(properties map[string]dbus.Variant, names []string) map[string]dbus.Variant {
	if len(names) == 0 {
		filtered := make(map[string]dbus.Variant, len(properties))
		for key, value := range properties {
			filtered[key] = value
		}

		return filtered
	}

	filtered := make(map[string]dbus.Variant, len(names))
	for _, name := range names {
		if value, ok := properties[name]; ok {
			filtered[name] = value
		}
	}

	return filtered
}

// assignIDs numbers the subtree depth-first and records every node in the
// index. The root keeps ID 0, as required by the protocol.
func assignIDs(root *Node, index map[int32]*Node) {
	nextID := int32(0)

	var walk func(node *Node)
	walk = func(node *Node) {
		node.id = nextID
		index[nextID] = node
		nextID++

		for _, child := range node.children {
			walk(child)
		}
	}

	walk(root)
}
