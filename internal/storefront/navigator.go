// Package storefront holds the page-level widget state: top navigation,
// the service catalog browser and the small dialogs.
package storefront

import (
	"fmt"
	"time"

	"github.com/wolfman30/autocare-booking/internal/schedule"
)

// DefaultScrollDelay gives a freshly mounted home view time to render
// before scrolling to an anchor.
const DefaultScrollDelay = 100 * time.Millisecond

// NavOption is a top navigation entry.
type NavOption string

const (
	NavHome     NavOption = "home"
	NavServices NavOption = "services"
	NavExpress  NavOption = "express"
	NavContact  NavOption = "contact"
)

// View is the mounted top-level page.
type View string

const (
	ViewHome    View = "home"
	ViewExpress View = "express"
)

// In-page anchors on the home view.
const (
	AnchorServices = "services-section"
	AnchorContact  = "contact-section"
)

// ParseNavOption validates a client supplied option.
func ParseNavOption(s string) (NavOption, error) {
	switch opt := NavOption(s); opt {
	case NavHome, NavServices, NavExpress, NavContact:
		return opt, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNavOption, s)
}

func (o NavOption) anchor() string {
	switch o {
	case NavServices:
		return AnchorServices
	case NavContact:
		return AnchorContact
	}
	return ""
}

// ScrollCommand tells the client where to scroll. An empty Anchor means the
// top of the page. Seq increases with every command.
type ScrollCommand struct {
	Seq    uint64 `json:"seq"`
	Anchor string `json:"anchor,omitempty"`
	Smooth bool   `json:"smooth"`
}

// NavigatorState is the serialisable form of a Navigator.
type NavigatorState struct {
	Active     NavOption      `json:"active"`
	View       View           `json:"view"`
	LastScroll *ScrollCommand `json:"last_scroll,omitempty"`
	// PendingAnchor is set while a scroll waits for the home view to mount.
	PendingAnchor string `json:"pending_anchor,omitempty"`
}

// Navigator tracks the active navigation option and the mounted view.
type Navigator struct {
	scope    *schedule.Scope
	delay    time.Duration
	onScroll func()

	active  NavOption
	view    View
	seq     uint64
	last    *ScrollCommand
	gen     uint64
	pending *schedule.Task
	anchor  string
}

// NewNavigator starts on the home view. onScroll, if set, runs after a
// delayed scroll command has been emitted.
func NewNavigator(scope *schedule.Scope, delay time.Duration, onScroll func()) *Navigator {
	if delay <= 0 {
		delay = DefaultScrollDelay
	}
	return &Navigator{scope: scope, delay: delay, onScroll: onScroll, active: NavHome, view: ViewHome}
}

// Active is the highlighted option.
func (n *Navigator) Active() NavOption { return n.active }

// View is the mounted page.
func (n *Navigator) View() View { return n.view }

// LastScroll returns the most recent scroll command, if any.
func (n *Navigator) LastScroll() *ScrollCommand {
	if n.last == nil {
		return nil
	}
	c := *n.last
	return &c
}

// Select activates opt. Any delayed scroll from an earlier selection is
// abandoned.
func (n *Navigator) Select(opt NavOption) error {
	if _, err := ParseNavOption(string(opt)); err != nil {
		return err
	}
	n.gen++
	n.pending.Cancel()
	n.pending = nil
	n.anchor = ""
	n.active = opt

	switch opt {
	case NavHome:
		n.view = ViewHome
		n.scroll("")
	case NavExpress:
		n.view = ViewExpress
		n.scroll("")
	default:
		if n.view == ViewHome {
			n.scroll(opt.anchor())
			return nil
		}
		n.view = ViewHome
		n.scrollLater(opt.anchor())
	}
	return nil
}

// scroll records a command. Every scroll the widget issues animates, including
// the jump to the top on a view switch.
func (n *Navigator) scroll(anchor string) {
	n.seq++
	n.last = &ScrollCommand{Seq: n.seq, Anchor: anchor, Smooth: true}
}

func (n *Navigator) scrollLater(anchor string) {
	gen := n.gen
	n.anchor = anchor
	n.pending = n.scope.After(n.delay, func() {
		if n.gen != gen || n.view != ViewHome {
			return
		}
		n.pending = nil
		n.anchor = ""
		n.scroll(anchor)
		if n.onScroll != nil {
			n.onScroll()
		}
	})
}

// State captures the navigator for snapshots.
func (n *Navigator) State() NavigatorState {
	return NavigatorState{Active: n.active, View: n.view, LastScroll: n.LastScroll(), PendingAnchor: n.anchor}
}

// Restore replaces the navigator with st, re-arming a pending scroll.
func (n *Navigator) Restore(st NavigatorState) {
	n.gen++
	n.pending.Cancel()
	n.pending = nil
	n.anchor = ""

	n.active, n.view = st.Active, st.View
	if _, err := ParseNavOption(string(n.active)); err != nil {
		n.active = NavHome
	}
	if n.view != ViewExpress {
		n.view = ViewHome
	}
	n.last = nil
	n.seq = 0
	if st.LastScroll != nil {
		c := *st.LastScroll
		n.last = &c
		n.seq = c.Seq
	}
	if st.PendingAnchor != "" && n.view == ViewHome {
		n.scrollLater(st.PendingAnchor)
	}
}
