// Package catalog holds the read-only reference data the booking widget runs
// on: vehicle lookup tables, the service catalog, scheduler service types,
// time slots, FAQs and contact actions.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrEmptyCatalog is returned when loaded reference data lacks a required table.
var ErrEmptyCatalog = errors.New("catalog: reference data is incomplete")

// FuelType is a single fuel type as stored in the lookup table.
type FuelType string

const (
	FuelPetrol FuelType = "Petrol"
	FuelDiesel FuelType = "Diesel"
	FuelCNG    FuelType = "CNG"
)

// ManualFuelTypes are offered when a vehicle is entered by hand.
var ManualFuelTypes = []FuelType{FuelPetrol, FuelDiesel, FuelCNG}

// CarRecord is one brand/model/fuel row of the vehicle lookup table.
type CarRecord struct {
	ID       string   `json:"id"`
	Brand    string   `json:"brand"`
	Model    string   `json:"model"`
	FuelType FuelType `json:"fuel_type"`
}

// ServiceItem is a purchasable package inside a category.
type ServiceItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         int      `json:"price"`
	OriginalPrice *int     `json:"original_price,omitempty"`
	TimeRequired  string   `json:"time_required"`
	Features      []string `json:"features"`
	Recommended   bool     `json:"recommended,omitempty"`
}

// ServiceCategory groups service items on the landing page.
type ServiceCategory struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	IconName    string        `json:"icon_name"`
	Description string        `json:"description"`
	Items       []ServiceItem `json:"items"`
}

// ServiceType is a bookable service in the appointment scheduler.
type ServiceType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// FAQ is one question/answer entry of the landing page accordion.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ContactAction is a static outbound intent such as a dial or compose link.
type ContactAction struct {
	Kind  string `json:"kind"` // "phone" or "email"
	Label string `json:"label"`
	Value string `json:"value"`
	URL   string `json:"url"`
}

// Catalog is the full reference data set. It is never mutated after load.
type Catalog struct {
	Brands       []string          `json:"brands"`
	Cars         []CarRecord       `json:"cars"`
	Categories   []ServiceCategory `json:"categories"`
	ServiceTypes []ServiceType     `json:"service_types"`
	TimeSlots    []string          `json:"time_slots"`
	FAQs         []FAQ             `json:"faqs"`
	Contacts     []ContactAction   `json:"contacts"`
}

// Load reads reference data from a JSON file. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, source string) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", source, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate performs presence checks only.
func (c *Catalog) Validate() error {
	switch {
	case len(c.Brands) == 0:
		return fmt.Errorf("%w: no brands", ErrEmptyCatalog)
	case len(c.Categories) == 0:
		return fmt.Errorf("%w: no service categories", ErrEmptyCatalog)
	case len(c.ServiceTypes) == 0:
		return fmt.Errorf("%w: no service types", ErrEmptyCatalog)
	case len(c.TimeSlots) == 0:
		return fmt.Errorf("%w: no time slots", ErrEmptyCatalog)
	}
	return nil
}

// HasBrand reports whether brand is part of the guided lookup.
func (c *Catalog) HasBrand(brand string) bool {
	for _, b := range c.Brands {
		if b == brand {
			return true
		}
	}
	return false
}

// ModelsFor returns the distinct models of a brand in lookup order.
func (c *Catalog) ModelsFor(brand string) []string {
	if brand == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var models []string
	for _, car := range c.Cars {
		if car.Brand != brand {
			continue
		}
		if _, ok := seen[car.Model]; ok {
			continue
		}
		seen[car.Model] = struct{}{}
		models = append(models, car.Model)
	}
	return models
}

// FuelTypesFor returns the distinct fuel types of a brand and model in lookup
// order. CNG is always offered, appended when the lookup lacks it.
func (c *Catalog) FuelTypesFor(brand, model string) []FuelType {
	if brand == "" || model == "" {
		return nil
	}
	seen := make(map[FuelType]struct{})
	var fuels []FuelType
	for _, car := range c.Cars {
		if car.Brand != brand || car.Model != model {
			continue
		}
		if _, ok := seen[car.FuelType]; ok {
			continue
		}
		seen[car.FuelType] = struct{}{}
		fuels = append(fuels, car.FuelType)
	}
	if _, ok := seen[FuelCNG]; !ok {
		fuels = append(fuels, FuelCNG)
	}
	return fuels
}

// Category looks up a service category by id.
func (c *Catalog) Category(id string) (*ServiceCategory, bool) {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i], true
		}
	}
	return nil, false
}

// Item looks up an item of a category.
func (c *ServiceCategory) Item(itemID string) (ServiceItem, bool) {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return ServiceItem{}, false
}

// Item looks up an item within a category.
func (c *Catalog) Item(categoryID, itemID string) (ServiceItem, bool) {
	cat, ok := c.Category(categoryID)
	if !ok {
		return ServiceItem{}, false
	}
	return cat.Item(itemID)
}

// ServiceType looks up a scheduler service type by id.
func (c *Catalog) ServiceType(id string) (ServiceType, bool) {
	for _, st := range c.ServiceTypes {
		if st.ID == id {
			return st, true
		}
	}
	return ServiceType{}, false
}

// HasSlot reports whether label is one of the fixed time slots.
func (c *Catalog) HasSlot(label string) bool {
	for _, s := range c.TimeSlots {
		if s == label {
			return true
		}
	}
	return false
}
