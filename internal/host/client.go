// Package host models the game client the plugin runs inside.
package host

import (
	"errors"
	"fmt"
)

// ComponentID identifies a widget as interface<<16 | child.
type ComponentID int32

// PackComponentID builds a ComponentID from its interface and child parts.
func PackComponentID(iface, child int) ComponentID {
	return ComponentID(iface<<16 | child)
}

// Interface returns the interface (group) part of the id.
func (id ComponentID) Interface() int {
	return int(id) >> 16
}

// Child returns the child part of the id.
func (id ComponentID) Child() int {
	return int(id) & 0xFFFF
}

func (id ComponentID) String() string {
	return fmt.Sprintf("%d.%d", id.Interface(), id.Child())
}

// BankInterface is the interface id of the bank.
const BankInterface = 12

// BankContainer is the bank's root container; it is visible exactly while the
// bank is open.
var BankContainer = PackComponentID(BankInterface, 2)

// ErrNotReady is returned by clients that cannot answer yet, e.g. before login.
var ErrNotReady = errors.New("host client not ready")

// Widget is a snapshot of a host-owned UI element.
type Widget struct {
	ID     ComponentID `json:"id"`
	Hidden bool        `json:"hidden"`
}

// Client is the part of the host API the plugin consumes.
//
// Widget returns (nil, nil) when the widget does not exist. Implementations are
// called from request goroutines while the host mutates its widget tree, so they
// must tolerate concurrent use; a stale answer is acceptable.
type Client interface {
	Widget(id ComponentID) (*Widget, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(id ComponentID) (*Widget, error)

// Widget calls f(id).
func (f ClientFunc) Widget(id ComponentID) (*Widget, error) {
	return f(id)
}
