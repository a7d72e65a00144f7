package tray

import (
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
	"github.com/sirupsen/logrus"
)

const (
	StatusNotifierItemInterface = "org.kde.StatusNotifierItem"
	StatusNotifierItemPath      = "/StatusNotifierItem"

	StatusNotifierWatcherInterface = "org.kde.StatusNotifierWatcher"
	StatusNotifierWatcherPath      = "/StatusNotifierWatcher"
)

type ItemCategory string

// StatusNotifierItem categories.
const (
	// The item describes the status of a generic application.
	ItemCategoryApplicationStatus ItemCategory = "ApplicationStatus"

	// The item describes the status of communication oriented applications.
	ItemCategoryCommunications ItemCategory = "Communications"

	// The item describes services of the system not seen as a stand alone
	// application by the user.
	ItemCategorySystemServices ItemCategory = "SystemServices"

	// The item describes the state and control of a particular hardware.
	ItemCategoryHardware ItemCategory = "Hardware"
)

type ItemStatus string

// StatusNotifierItem statuses.
const (
	// The item doesn't convey important information to the user.
	ItemStatusPassive ItemStatus = "Passive"

	// The item is active and should be shown to the user.
	ItemStatusActive ItemStatus = "Active"

	// The item carries really important information for the user.
	ItemStatusNeedsAttention ItemStatus = "NeedsAttention"
)

// tooltip is the ToolTip property struct, with D-Bus signature (sa(iiay)ss).
type tooltip struct {
	IconName    string
	Pixmaps     []Pixmap
	Title       string
	Description string
}

// Item represents the application in the system tray. It implements the
// service side of [StatusNotifierItem]: it exports the item properties and
// activation methods on the session bus and registers itself with the
// StatusNotifierWatcher.
//
// [StatusNotifierItem]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/StatusNotifierItem/
type Item struct {
	conn    *dbus.Conn
	props   *prop.Properties
	busName string

	// Unique identifier for the application, such as the application name.
	ID string

	// Name that describes the application, can be more descriptive than ID.
	Title string

	// Extra information that can be visualized by a tooltip.
	Tooltip string

	// Category of the item.
	Category ItemCategory

	// Status of the item or of the associated application.
	Status ItemStatus

	// Icon that is used to visualize the item.
	//
	// IconName is a [Freedesktop-compliant] icon name. Hosts prefer this
	// field over IconPixmap if both are set.
	//
	// [Freedesktop-compliant]: https://specifications.freedesktop.org/icon-naming-spec/latest/
	IconName string

	// Icon that is used to visualize the item, as raw ARGB pixmaps, for
	// hosts that cannot resolve themed names.
	IconPixmap []Pixmap

	// onActivate runs when the host asks for activation, typically a left
	// click on the icon.
	onActivate func(x, y int32)
}

// NewItem exports a StatusNotifierItem on the connection and registers it
// with the watcher. Registration is best-effort: when no watcher owns the
// name yet, the item stays exported and callers re-register through
// [Item.RegisterWithWatcher] once the watcher appears.
//
// The menu must already be exported on the same connection; hosts reach it
// through the Menu property.
func NewItem(conn *dbus.Conn, id, title, iconName string, menu *Menu) (*Item, error) {
	item := &Item{
		conn:     conn,
		busName:  fmt.Sprintf("%s-%d-1", StatusNotifierItemInterface, os.Getpid()),
		ID:       id,
		Title:    title,
		Tooltip:  title,
		Category: ItemCategoryApplicationStatus,
		Status:   ItemStatusActive,
		IconName: iconName,
	}

	reply, err := conn.RequestName(item.busName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("item: failed to request name %s: %w", item.busName, err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, fmt.Errorf("item: name %s already taken", item.busName)
	}

	if err := conn.Export(itemHandler{item}, StatusNotifierItemPath, StatusNotifierItemInterface); err != nil {
		return nil, fmt.Errorf("item: failed to export %s: %w", StatusNotifierItemInterface, err)
	}

	if err := item.exportProperties(); err != nil {
		return nil, fmt.Errorf("item: %w", err)
	}

	if err := item.RegisterWithWatcher(); err != nil {
		logrus.WithError(err).Warn("status notifier watcher unavailable, registering when it appears")
	}

	return item, nil
}

// RegisterWithWatcher announces the item to the StatusNotifierWatcher.
//
// Called once at startup and again whenever the watcher name changes owner,
// since a restarted watcher loses all registrations.
func (item *Item) RegisterWithWatcher() error {
	call := item.conn.Object(
		StatusNotifierWatcherInterface,
		StatusNotifierWatcherPath,
	).Call(StatusNotifierWatcherInterface+".RegisterStatusNotifierItem", 0, item.busName)
	if call.Err != nil {
		return fmt.Errorf("item: failed to register with watcher: %w", call.Err)
	}

	return nil
}

// BusName returns the name the item owns on the session bus.
func (item *Item) BusName() string {
	return item.busName
}

// OnActivate sets the callback that runs when the host asks the item for
// activation.
func (item *Item) OnActivate(callback func(x, y int32)) {
	item.onActivate = callback
}

// SetIconName updates the themed icon of the item and notifies hosts.
func (item *Item) SetIconName(name string) {
	item.IconName = name
	item.props.SetMust(StatusNotifierItemInterface, "IconName", name)
	item.conn.Emit(StatusNotifierItemPath, StatusNotifierItemInterface+".NewIcon")
}

// SetIconPixmap updates the pixmap icon of the item and notifies hosts.
func (item *Item) SetIconPixmap(pixmaps []Pixmap) {
	item.IconPixmap = pixmaps
	item.props.SetMust(StatusNotifierItemInterface, "IconPixmap", pixmaps)
	item.conn.Emit(StatusNotifierItemPath, StatusNotifierItemInterface+".NewIcon")
}

// SetTitle updates the title of the item and notifies hosts.
func (item *Item) SetTitle(title string) {
	item.Title = title
	item.props.SetMust(StatusNotifierItemInterface, "Title", title)
	item.conn.Emit(StatusNotifierItemPath, StatusNotifierItemInterface+".NewTitle")
}

// SetTooltip updates the tooltip of the item and notifies hosts.
func (item *Item) SetTooltip(text string) {
	item.Tooltip = text
	item.props.SetMust(StatusNotifierItemInterface, "ToolTip", tooltip{
		Pixmaps: []Pixmap{},
		Title:   text,
	})
	item.conn.Emit(StatusNotifierItemPath, StatusNotifierItemInterface+".NewToolTip")
}

// SetStatus updates the status of the item and notifies hosts.
func (item *Item) SetStatus(status ItemStatus) {
	item.Status = status
	item.props.SetMust(StatusNotifierItemInterface, "Status", string(status))
	item.conn.Emit(StatusNotifierItemPath, StatusNotifierItemInterface+".NewStatus", string(status))
}

// Close releases the item name from the bus. Hosts remove the icon when the
// name disappears.
func (item *Item) Close() error {
	_, err := item.conn.ReleaseName(item.busName)
	return err
}

func (item *Item) exportProperties() error {
	props, err := prop.Export(item.conn, StatusNotifierItemPath, prop.Map{
		StatusNotifierItemInterface: map[string]*prop.Prop{
			"Id":       {Value: item.ID, Writable: false, Emit: prop.EmitTrue},
			"Title":    {Value: item.Title, Writable: false, Emit: prop.EmitTrue},
			"Category": {Value: string(item.Category), Writable: false, Emit: prop.EmitTrue},
			"Status":   {Value: string(item.Status), Writable: false, Emit: prop.EmitTrue},
			"WindowId": {Value: uint32(0), Writable: false, Emit: prop.EmitTrue},
			"IconName": {Value: item.IconName, Writable: false, Emit: prop.EmitTrue},
			"IconPixmap": {
				Value:    item.IconPixmap,
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			"OverlayIconName":   {Value: "", Writable: false, Emit: prop.EmitTrue},
			"AttentionIconName": {Value: "", Writable: false, Emit: prop.EmitTrue},
			"ToolTip": {
				Value:    tooltip{Pixmaps: []Pixmap{}, Title: item.Tooltip},
				Writable: false,
				Emit:     prop.EmitTrue,
			},
			// The item is menu-only: hosts should open the menu on any
			// activation.
			"ItemIsMenu": {Value: true, Writable: false, Emit: prop.EmitTrue},
			"Menu": {
				Value:    dbus.ObjectPath(MenuPath),
				Writable: false,
				Emit:     prop.EmitTrue,
			},
		},
	})
	if err != nil {
		return err
	}

	item.props = props

	return nil
}

// itemHandler exposes only the StatusNotifierItem activation methods on the
// bus.
type itemHandler struct {
	item *Item
}

// Activate handles a left click on the icon.
func (h itemHandler) Activate(x, y int32) *dbus.Error {
	if h.item.onActivate != nil {
		h.item.onActivate(x, y)
	}

	return nil
}

// SecondaryActivate handles a middle click on the icon. The launcher is
// menu-only, so this does nothing.
func (h itemHandler) SecondaryActivate(x, y int32) *dbus.Error {
	return nil
}

// ContextMenu handles an explicit context menu request. Hosts that honor
// ItemIsMenu open the exported menu themselves.
func (h itemHandler) ContextMenu(x, y int32) *dbus.Error {
	return nil
}

// Scroll handles scroll events over the icon.
func (h itemHandler) Scroll(delta int32, orientation string) *dbus.Error {
	return nil
}
