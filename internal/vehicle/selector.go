// Package vehicle implements the stepwise brand, model and fuel type selector
// that resolves the visitor's car.
package vehicle

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/autocare-booking/internal/catalog"
)

// MaxFuelTypes caps how many fuel types a vehicle can combine.
const MaxFuelTypes = 2

// FuelSeparator joins combined fuel types, e.g. "Petrol + CNG".
const FuelSeparator = " + "

// CarModel is a resolved vehicle. FuelType is free-form because dual-fuel
// selections are stored as a joined string.
type CarModel struct {
	ID         string    `json:"id"`
	Brand      string    `json:"brand"`
	Model      string    `json:"model"`
	FuelType   string    `json:"fuel_type"`
	Manual     bool      `json:"manual"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// String renders the vehicle the way the widget shows it.
func (c CarModel) String() string {
	return fmt.Sprintf("%s %s (%s)", c.Brand, c.Model, c.FuelType)
}

// State is the serialisable form of a Selector.
type State struct {
	Open     bool               `json:"open"`
	Manual   bool               `json:"manual"`
	Brand    string             `json:"brand"`
	Model    string             `json:"model"`
	Fuels    []catalog.FuelType `json:"fuels"`
	Resolved *CarModel          `json:"resolved,omitempty"`
}

// Selector is a single visitor's vehicle selection session. It is not safe
// for concurrent use; the owning session serialises access.
type Selector struct {
	ref *catalog.Catalog
	now func() time.Time

	open     bool
	manual   bool
	brand    string
	model    string
	fuels    []catalog.FuelType
	resolved *CarModel
}

// NewSelector creates a selector over the reference lookup. now defaults to
// time.Now.
func NewSelector(ref *catalog.Catalog, now func() time.Time) *Selector {
	if now == nil {
		now = time.Now
	}
	return &Selector{ref: ref, now: now}
}

// Open shows the selection dialog, keeping any in-progress selection.
func (s *Selector) Open() { s.open = true }

// Close hides the selection dialog.
func (s *Selector) Close() { s.open = false }

// IsOpen reports whether the dialog is shown.
func (s *Selector) IsOpen() bool { return s.open }

// SelectBrand picks a brand from the lookup and invalidates the model and
// fuel type selections.
func (s *Selector) SelectBrand(brand string) error {
	if !s.ref.HasBrand(brand) {
		return fmt.Errorf("%w: %q", ErrUnknownBrand, brand)
	}
	s.manual = false
	s.brand = brand
	s.model = ""
	s.fuels = nil
	return nil
}

// SelectModel picks one of Models() and invalidates the fuel type selection.
func (s *Selector) SelectModel(model string) error {
	if s.manual || !slices.Contains(s.Models(), model) {
		return fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	s.model = model
	s.fuels = nil
	return nil
}

// EnterManual switches to free-text entry. Fuel types already chosen are kept
// when they are valid manual options.
func (s *Selector) EnterManual(brand, model string) {
	s.manual = true
	s.brand = strings.TrimSpace(brand)
	s.model = strings.TrimSpace(model)
	s.fuels = slices.DeleteFunc(s.fuels, func(f catalog.FuelType) bool {
		return !slices.Contains(catalog.ManualFuelTypes, f)
	})
}

// Models lists the models offered for the guided brand.
func (s *Selector) Models() []string {
	if s.manual {
		return nil
	}
	return s.ref.ModelsFor(s.brand)
}

// FuelOptions lists the fuel types that may be toggled right now.
func (s *Selector) FuelOptions() []catalog.FuelType {
	if s.manual {
		return slices.Clone(catalog.ManualFuelTypes)
	}
	return s.ref.FuelTypesFor(s.brand, s.model)
}

// ToggleFuel adds or removes a fuel type. Adding beyond MaxFuelTypes is
// ignored; the returned bool reports whether the selection changed.
func (s *Selector) ToggleFuel(f catalog.FuelType) (bool, error) {
	if i := slices.Index(s.fuels, f); i >= 0 {
		s.fuels = slices.Delete(s.fuels, i, i+1)
		return true, nil
	}
	if !slices.Contains(s.FuelOptions(), f) {
		return false, fmt.Errorf("%w: %q", ErrUnknownFuelType, f)
	}
	if len(s.fuels) >= MaxFuelTypes {
		return false, nil
	}
	s.fuels = append(s.fuels, f)
	return true, nil
}

// SelectedFuels returns the chosen fuel types in selection order.
func (s *Selector) SelectedFuels() []catalog.FuelType {
	return slices.Clone(s.fuels)
}

// CanResolve reports whether Resolve would succeed.
func (s *Selector) CanResolve() bool {
	if s.brand == "" || s.model == "" || len(s.fuels) == 0 {
		return false
	}
	return s.manual || s.ref.HasBrand(s.brand)
}

// Resolve builds the vehicle from the current selection, replaces any
// previously resolved vehicle and closes the dialog.
func (s *Selector) Resolve() (CarModel, error) {
	if !s.CanResolve() {
		return CarModel{}, ErrIncomplete
	}
	parts := make([]string, len(s.fuels))
	for i, f := range s.fuels {
		parts[i] = string(f)
	}
	prefix := "selected-"
	if s.manual {
		prefix = "manual-"
	}
	car := CarModel{
		ID:         prefix + newID(),
		Brand:      s.brand,
		Model:      s.model,
		FuelType:   strings.Join(parts, FuelSeparator),
		Manual:     s.manual,
		ResolvedAt: s.now(),
	}
	s.resolved = &car
	s.open = false
	return car, nil
}

// Resolved returns the current vehicle, or nil before the first resolution.
func (s *Selector) Resolved() *CarModel {
	if s.resolved == nil {
		return nil
	}
	car := *s.resolved
	return &car
}

// State captures the selector for snapshots.
func (s *Selector) State() State {
	return State{
		Open:     s.open,
		Manual:   s.manual,
		Brand:    s.brand,
		Model:    s.model,
		Fuels:    s.SelectedFuels(),
		Resolved: s.Resolved(),
	}
}

// Restore replaces the selector's state with st.
func (s *Selector) Restore(st State) {
	s.open = st.Open
	s.manual = st.Manual
	s.brand = st.Brand
	s.model = st.Model
	s.fuels = slices.Clone(st.Fuels)
	if len(s.fuels) > MaxFuelTypes {
		s.fuels = s.fuels[:MaxFuelTypes]
	}
	s.resolved = nil
	if st.Resolved != nil {
		car := *st.Resolved
		s.resolved = &car
	}
}

// newID returns a time-ordered identifier, unique within the process.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
