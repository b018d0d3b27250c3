package storefront

import (
	"fmt"
	"time"

	"github.com/wolfman30/autocare-booking/internal/catalog"
	"github.com/wolfman30/autocare-booking/internal/schedule"
)

// DefaultClearDelay covers the detail view's closing animation.
const DefaultClearDelay = 200 * time.Millisecond

// BrowserState is the serialisable form of a Browser.
type BrowserState struct {
	Open     bool   `json:"open"`
	Selected string `json:"selected,omitempty"`
}

// Browser shows at most one service category's detail view. The selected
// category outlives Close by the clear delay so the view can animate out.
type Browser struct {
	ref     *catalog.Catalog
	scope   *schedule.Scope
	delay   time.Duration
	onClear func()

	open     bool
	selected string
	gen      uint64
	clear    *schedule.Task
}

// NewBrowser creates a closed browser. onClear, if set, runs after a
// delayed clear took effect.
func NewBrowser(ref *catalog.Catalog, scope *schedule.Scope, delay time.Duration, onClear func()) *Browser {
	if delay <= 0 {
		delay = DefaultClearDelay
	}
	return &Browser{ref: ref, scope: scope, delay: delay, onClear: onClear}
}

// Open shows categoryID, replacing whatever was open or closing.
func (b *Browser) Open(categoryID string) error {
	if _, ok := b.ref.Category(categoryID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, categoryID)
	}
	b.cancelClear()
	b.open = true
	b.selected = categoryID
	return nil
}

// Close hides the detail view now and forgets the category later.
func (b *Browser) Close() {
	if !b.open {
		return
	}
	b.open = false
	b.cancelClear()
	gen := b.gen
	b.clear = b.scope.After(b.delay, func() {
		if b.gen != gen || b.open {
			return
		}
		b.selected = ""
		b.clear = nil
		if b.onClear != nil {
			b.onClear()
		}
	})
}

func (b *Browser) cancelClear() {
	b.gen++
	b.clear.Cancel()
	b.clear = nil
}

// IsOpen reports whether the detail view is shown.
func (b *Browser) IsOpen() bool { return b.open }

// Selected returns the retained category, open or closing.
func (b *Browser) Selected() (*catalog.ServiceCategory, bool) {
	if b.selected == "" {
		return nil, false
	}
	return b.ref.Category(b.selected)
}

// Item looks up itemID in the retained category.
func (b *Browser) Item(itemID string) (catalog.ServiceItem, string, error) {
	cat, ok := b.Selected()
	if !ok {
		return catalog.ServiceItem{}, "", ErrNoCategory
	}
	item, ok := cat.Item(itemID)
	if !ok {
		return catalog.ServiceItem{}, "", fmt.Errorf("%w: %q in %s", ErrUnknownItem, itemID, cat.ID)
	}
	return item, cat.ID, nil
}

// State captures the browser for snapshots.
func (b *Browser) State() BrowserState {
	return BrowserState{Open: b.open, Selected: b.selected}
}

// Restore replaces the browser with st. A closing category is cleared after
// a fresh delay.
func (b *Browser) Restore(st BrowserState) {
	b.cancelClear()
	b.open = false
	b.selected = ""
	if _, ok := b.ref.Category(st.Selected); !ok {
		return
	}
	b.selected = st.Selected
	b.open = true
	if !st.Open {
		b.Close()
	}
}
