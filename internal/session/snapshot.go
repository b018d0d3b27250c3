package session

import (
	"time"

	"github.com/wolfman30/autocare-booking/internal/booking"
	"github.com/wolfman30/autocare-booking/internal/cart"
	"github.com/wolfman30/autocare-booking/internal/catalog"
	"github.com/wolfman30/autocare-booking/internal/storefront"
	"github.com/wolfman30/autocare-booking/internal/vehicle"
)

// Snapshot is the full view state of a session. Clients render it as is;
// stores persist it to continue the session elsewhere.
type Snapshot struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Nav     storefront.NavigatorState `json:"nav"`
	Catalog CatalogView               `json:"catalog"`
	Cart    CartView                  `json:"cart"`
	Vehicle VehicleView               `json:"vehicle"`
	FAQ     FAQView                   `json:"faq"`
	BookNow DialogView                `json:"book_now"`
	Booking BookingView               `json:"booking"`
}

// CatalogView is the service category detail view.
type CatalogView struct {
	storefront.BrowserState
	Category *catalog.ServiceCategory `json:"category,omitempty"`
}

// CartView is the cart drawer.
type CartView struct {
	cart.State
	Subtotal int  `json:"subtotal"`
	Count    int  `json:"count"`
	Empty    bool `json:"empty"`
}

// VehicleView is the vehicle selector dialog.
type VehicleView struct {
	vehicle.State
	Models      []string           `json:"models,omitempty"`
	FuelOptions []catalog.FuelType `json:"fuel_options,omitempty"`
	CanResolve  bool               `json:"can_resolve"`
	Label       string             `json:"label,omitempty"`
}

// FAQView is the accordion; Expanded is -1 when every entry is collapsed.
type FAQView struct {
	Expanded int `json:"expanded"`
}

// DialogView is a plain modal.
type DialogView struct {
	Open bool `json:"open"`
}

// BookingView is the appointment form.
type BookingView struct {
	booking.State
	MinDate string   `json:"min_date"`
	Missing []string `json:"missing,omitempty"`
	// NeedsVehicle is a display hint: the form is shown once a vehicle is
	// resolved. Submitting does not require one.
	NeedsVehicle bool `json:"needs_vehicle"`
}

// Snapshot renders the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		CreatedAt: s.created,
		UpdatedAt: s.updated,
		Nav:       s.nav.State(),
		Catalog:   CatalogView{BrowserState: s.browser.State()},
		Cart: CartView{
			State:    s.cart.State(),
			Subtotal: s.cart.Subtotal(),
			Count:    s.cart.Len(),
			Empty:    s.cart.Len() == 0,
		},
		Vehicle: VehicleView{
			State:       s.vehicle.State(),
			Models:      s.vehicle.Models(),
			FuelOptions: s.vehicle.FuelOptions(),
			CanResolve:  s.vehicle.CanResolve(),
		},
		FAQ:     FAQView{Expanded: s.faq.Expanded()},
		BookNow: DialogView{Open: s.bookNow.IsOpen()},
		Booking: BookingView{State: s.form.State(), MinDate: s.form.MinDate()},
	}
	if cat, ok := s.browser.Selected(); ok {
		snap.Catalog.Category = cat
	}
	if car := s.vehicle.Resolved(); car != nil {
		snap.Vehicle.Label = car.String()
	}
	if s.form.Status() == booking.StatusCollecting {
		snap.Booking.Missing = s.form.Missing()
		snap.Booking.NeedsVehicle = s.vehicle.Resolved() == nil
	}
	return snap
}

// Restore rebuilds a session from a snapshot. Pending delayed transitions
// resume on the new session's clock.
func Restore(snap Snapshot, ref *catalog.Catalog, opts Options) *Session {
	s := New(snap.ID, ref, opts)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !snap.CreatedAt.IsZero() {
		s.created = snap.CreatedAt
	}
	if !snap.UpdatedAt.IsZero() {
		s.updated = snap.UpdatedAt
	}
	s.nav.Restore(snap.Nav)
	s.browser.Restore(snap.Catalog.BrowserState)
	s.cart.Restore(reconcileCart(ref, snap.Cart.State))
	s.vehicle.Restore(snap.Vehicle.State)
	s.faq.Restore(snap.FAQ.Expanded)
	s.bookNow.Restore(snap.BookNow.Open)
	s.form.Restore(snap.Booking.State)
	return s
}

// reconcileCart drops restored items the catalog no longer offers and
// refreshes the rest, so a catalog change between restarts never brings back
// a stale price.
func reconcileCart(ref *catalog.Catalog, st cart.State) cart.State {
	items := make([]cart.Item, 0, len(st.Items))
	for _, item := range st.Items {
		current, ok := ref.Item(item.CategoryID, item.ID)
		if !ok {
			continue
		}
		items = append(items, cart.Item{ServiceItem: current, CategoryID: item.CategoryID})
	}
	st.Items = items
	return st
}
