// Package session aggregates one visitor's widget state behind a single lock
// and exposes it as named transitions.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/wolfman30/autocare-booking/internal/booking"
	"github.com/wolfman30/autocare-booking/internal/cart"
	"github.com/wolfman30/autocare-booking/internal/catalog"
	"github.com/wolfman30/autocare-booking/internal/schedule"
	"github.com/wolfman30/autocare-booking/internal/storefront"
	"github.com/wolfman30/autocare-booking/internal/vehicle"
)

// Options configures the widget timings of new sessions.
type Options struct {
	Dwell       time.Duration
	ClearDelay  time.Duration
	ScrollDelay time.Duration
	Location    *time.Location
	Clock       schedule.Clock

	// OnChange runs after a timer changed the session, outside its lock.
	OnChange func(*Session)
}

// Session is one visitor's widget. All methods are safe for concurrent use;
// every method is a single transition that either applies fully or returns
// an error and leaves the state untouched.
type Session struct {
	id  string
	ref *catalog.Catalog

	mu       sync.Mutex
	scope    *schedule.Scope
	onChange func(*Session)
	dirty    bool
	closed   bool
	created  time.Time
	updated  time.Time

	nav     *storefront.Navigator
	browser *storefront.Browser
	cart    *cart.Cart
	vehicle *vehicle.Selector
	faq     *storefront.FAQ
	bookNow storefront.Dialog
	form    *booking.Form
}

// New creates a session in its initial state.
func New(id string, ref *catalog.Catalog, opts Options) *Session {
	s := &Session{id: id, ref: ref, onChange: opts.OnChange}
	s.scope = schedule.NewScope(opts.Clock, s.runTimer)

	changed := func() { s.dirty = true }
	s.nav = storefront.NewNavigator(s.scope, opts.ScrollDelay, changed)
	s.browser = storefront.NewBrowser(ref, s.scope, opts.ClearDelay, changed)
	s.cart = cart.New()
	s.vehicle = vehicle.NewSelector(ref, s.scope.Now)
	s.faq = storefront.NewFAQ(len(ref.FAQs))
	s.form = booking.NewForm(ref, s.scope, booking.Options{
		Dwell:    opts.Dwell,
		Location: opts.Location,
		OnReset:  changed,
	})
	s.created = s.scope.Now()
	s.updated = s.created
	return s
}

// runTimer is the scope executor: timer callbacks run under the session lock
// and observers are told afterwards.
func (s *Session) runTimer(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	fn()
	changed := s.dirty
	s.dirty = false
	if changed {
		s.updated = s.scope.Now()
	}
	s.mu.Unlock()

	if changed && s.onChange != nil {
		s.onChange(s)
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// LastActive is the time of the latest transition.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updated
}

// Close cancels every scheduled transition. Later calls fail with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.scope.Close()
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// do runs a transition under the lock.
func (s *Session) do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if err := fn(); err != nil {
		return err
	}
	// Callers save and publish after every transition.
	s.dirty = false
	s.updated = s.scope.Now()
	return nil
}

// Touch marks the session active without changing it.
func (s *Session) Touch() error {
	return s.do(func() error { return nil })
}

// Navigate selects a top navigation option.
func (s *Session) Navigate(option string) error {
	return s.do(func() error {
		opt, err := storefront.ParseNavOption(option)
		if err != nil {
			return err
		}
		return s.nav.Select(opt)
	})
}

// OpenCategory shows a service category's packages.
func (s *Session) OpenCategory(categoryID string) error {
	return s.do(func() error { return s.browser.Open(categoryID) })
}

// CloseCategory hides the open category.
func (s *Session) CloseCategory() error {
	return s.do(func() error {
		s.browser.Close()
		return nil
	})
}

// AddToCart adds an item of the retained category, closes the category and
// opens the cart drawer.
func (s *Session) AddToCart(itemID string) (cart.Item, error) {
	var added cart.Item
	err := s.do(func() error {
		item, categoryID, err := s.browser.Item(itemID)
		if err != nil {
			return err
		}
		if err := s.cart.Add(item, categoryID); err != nil {
			return err
		}
		added = cart.Item{ServiceItem: item, CategoryID: categoryID}
		s.browser.Close()
		s.cart.Open()
		return nil
	})
	return added, err
}

// RemoveFromCart removes an item and reports whether it was present.
func (s *Session) RemoveFromCart(itemID string) (bool, error) {
	var removed bool
	err := s.do(func() error {
		removed = s.cart.Remove(itemID)
		return nil
	})
	return removed, err
}

// SetCartOpen shows or hides the cart drawer.
func (s *Session) SetCartOpen(open bool) error {
	return s.do(func() error {
		if open {
			s.cart.Open()
		} else {
			s.cart.Close()
		}
		return nil
	})
}

// SetVehicleDialogOpen shows or hides the vehicle selector.
func (s *Session) SetVehicleDialogOpen(open bool) error {
	return s.do(func() error {
		if open {
			s.vehicle.Open()
		} else {
			s.vehicle.Close()
		}
		return nil
	})
}

// SelectBrand picks a brand from the lookup.
func (s *Session) SelectBrand(brand string) error {
	return s.do(func() error { return s.vehicle.SelectBrand(brand) })
}

// SelectModel picks a model of the selected brand.
func (s *Session) SelectModel(model string) error {
	return s.do(func() error { return s.vehicle.SelectModel(model) })
}

// EnterManualVehicle switches to free-text brand and model entry.
func (s *Session) EnterManualVehicle(brand, model string) error {
	return s.do(func() error {
		s.vehicle.EnterManual(brand, model)
		return nil
	})
}

// ToggleFuel toggles a fuel type and reports whether the selection changed.
func (s *Session) ToggleFuel(fuel string) (bool, error) {
	var changed bool
	err := s.do(func() error {
		var err error
		changed, err = s.vehicle.ToggleFuel(catalog.FuelType(fuel))
		return err
	})
	return changed, err
}

// ResolveVehicle completes the vehicle selection.
func (s *Session) ResolveVehicle() (vehicle.CarModel, error) {
	var car vehicle.CarModel
	err := s.do(func() error {
		var err error
		car, err = s.vehicle.Resolve()
		return err
	})
	return car, err
}

// BookingPatch updates booking fields; nil fields are left alone.
type BookingPatch struct {
	ServiceType *string `json:"service_type,omitempty"`
	Date        *string `json:"date,omitempty"`
	Slot        *string `json:"slot,omitempty"`
	booking.ContactPatch
}

// UpdateBooking applies patch to the booking form.
func (s *Session) UpdateBooking(patch BookingPatch) error {
	return s.do(func() error {
		before := s.form.State()
		if err := s.applyBooking(patch); err != nil {
			s.form.Restore(before)
			return err
		}
		return nil
	})
}

func (s *Session) applyBooking(p BookingPatch) error {
	if p.ServiceType != nil {
		if err := s.form.SelectServiceType(*p.ServiceType); err != nil {
			return err
		}
	}
	if p.Date != nil {
		if err := s.form.SelectDate(*p.Date); err != nil {
			return err
		}
	}
	if p.Slot != nil {
		if err := s.form.SelectSlot(*p.Slot); err != nil {
			return err
		}
	}
	return s.form.UpdateContact(p.ContactPatch)
}

// SubmitBooking confirms the booking, attaching the resolved vehicle.
func (s *Session) SubmitBooking() (booking.Confirmation, error) {
	var conf booking.Confirmation
	err := s.do(func() error {
		var err error
		conf, err = s.form.Submit(s.vehicle.Resolved())
		if err != nil {
			return fmt.Errorf("session %s: submit: %w", s.id, err)
		}
		return nil
	})
	return conf, err
}

// ToggleFAQ expands or collapses an FAQ entry.
func (s *Session) ToggleFAQ(index int) error {
	return s.do(func() error { return s.faq.Toggle(index) })
}

// SetBookNowOpen shows or hides the Book Now dialog.
func (s *Session) SetBookNowOpen(open bool) error {
	return s.do(func() error {
		if open {
			s.bookNow.Open()
		} else {
			s.bookNow.Close()
		}
		return nil
	})
}

// PendingTimers returns the number of scheduled transitions.
func (s *Session) PendingTimers() int { return s.scope.Pending() }
