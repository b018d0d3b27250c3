// Package booking implements the appointment form: it collects a service
// type, date, time slot and contact details, confirms the booking, and
// returns to collecting after a fixed dwell period.
package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/autocare-booking/internal/catalog"
	"github.com/wolfman30/autocare-booking/internal/schedule"
	"github.com/wolfman30/autocare-booking/internal/vehicle"
)

// DefaultDwell is how long a confirmation stays on screen.
const DefaultDwell = 5 * time.Second

// Status is the form's state machine position.
type Status string

const (
	StatusCollecting Status = "collecting"
	StatusBooked     Status = "booked"
)

// Required field names, in the order they are reported.
const (
	FieldDate        = "date"
	FieldSlot        = "slot"
	FieldServiceType = "service_type"
	FieldName        = "name"
	FieldPhone       = "phone"
)

// Contact holds the visitor's details.
type Contact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	CarModel string `json:"car_model"`
	Notes    string `json:"notes"`
}

// ContactPatch updates only the non-nil fields.
type ContactPatch struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	CarModel *string `json:"car_model,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// Confirmation is the read-only summary shown while booked.
type Confirmation struct {
	ID          string            `json:"id"`
	ServiceType string            `json:"service_type"`
	ServiceName string            `json:"service_name"`
	Date        string            `json:"date"`
	Slot        string            `json:"slot"`
	Name        string            `json:"name"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email,omitempty"`
	CarModel    string            `json:"car_model,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Vehicle     *vehicle.CarModel `json:"vehicle,omitempty"`
	BookedAt    time.Time         `json:"booked_at"`
}

// State is the serialisable form of a Form.
type State struct {
	Status       Status        `json:"status"`
	ServiceType  string        `json:"service_type"`
	Date         string        `json:"date"`
	Slot         string        `json:"slot"`
	Contact      Contact       `json:"contact"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
}

// Options tunes a Form.
type Options struct {
	Dwell    time.Duration
	Location *time.Location
	// OnReset is called, inside the scope's executor, after the dwell reset.
	OnReset func()
}

// Form is one visitor's booking form. It is not safe for concurrent use;
// the owning session serialises access, including timer callbacks.
type Form struct {
	ref   *catalog.Catalog
	scope *schedule.Scope
	opts  Options

	status       Status
	serviceType  string
	date         string
	slot         string
	contact      Contact
	confirmation *Confirmation

	epoch uint64
	reset *schedule.Task
}

// NewForm creates a collecting form whose dwell reset is scheduled on scope.
func NewForm(ref *catalog.Catalog, scope *schedule.Scope, opts Options) *Form {
	if opts.Dwell <= 0 {
		opts.Dwell = DefaultDwell
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Form{ref: ref, scope: scope, opts: opts, status: StatusCollecting}
}

// Status returns the current state.
func (f *Form) Status() Status { return f.status }

// Confirmation returns the summary while booked, nil otherwise.
func (f *Form) Confirmation() *Confirmation {
	if f.confirmation == nil {
		return nil
	}
	c := *f.confirmation
	return &c
}

// SelectServiceType sets the service type; an empty id clears it.
func (f *Form) SelectServiceType(id string) error {
	if err := f.editable(); err != nil {
		return err
	}
	if id != "" {
		if _, ok := f.ref.ServiceType(id); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownServiceType, id)
		}
	}
	f.serviceType = id
	return nil
}

// SelectDate sets the appointment date (YYYY-MM-DD). Dates before today in
// the form's location are rejected; an empty value clears the date.
func (f *Form) SelectDate(date string) error {
	if err := f.editable(); err != nil {
		return err
	}
	if date == "" {
		f.date = ""
		return nil
	}
	day, err := time.ParseInLocation(time.DateOnly, date, f.opts.Location)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if day.Before(f.Today()) {
		return fmt.Errorf("%w: %s", ErrDateInPast, date)
	}
	f.date = day.Format(time.DateOnly)
	return nil
}

// Today is the earliest selectable date.
func (f *Form) Today() time.Time {
	now := f.scope.Now().In(f.opts.Location)
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, f.opts.Location)
}

// MinDate is Today formatted for date inputs.
func (f *Form) MinDate() string {
	return f.Today().Format(time.DateOnly)
}

// SelectSlot sets the time slot; an empty label clears it.
func (f *Form) SelectSlot(label string) error {
	if err := f.editable(); err != nil {
		return err
	}
	if label != "" && !f.ref.HasSlot(label) {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, label)
	}
	f.slot = label
	return nil
}

// UpdateContact applies the non-nil fields of p.
func (f *Form) UpdateContact(p ContactPatch) error {
	if err := f.editable(); err != nil {
		return err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&f.contact.Name, p.Name)
	set(&f.contact.Phone, p.Phone)
	set(&f.contact.Email, p.Email)
	set(&f.contact.CarModel, p.CarModel)
	set(&f.contact.Notes, p.Notes)
	return nil
}

// Missing lists the required fields that are empty.
func (f *Form) Missing() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check(FieldDate, f.date)
	check(FieldSlot, f.slot)
	check(FieldServiceType, f.serviceType)
	check(FieldName, f.contact.Name)
	check(FieldPhone, f.contact.Phone)
	return missing
}

// Submit confirms the booking when every required field is present and
// schedules the return to collecting. On failure the form is unchanged.
func (f *Form) Submit(car *vehicle.CarModel) (Confirmation, error) {
	if err := f.editable(); err != nil {
		return Confirmation{}, err
	}
	if missing := f.Missing(); len(missing) > 0 {
		return Confirmation{}, &ValidationError{Missing: missing}
	}

	st, _ := f.ref.ServiceType(f.serviceType)
	conf := Confirmation{
		ID:          "booking-" + uuid.NewString(),
		ServiceType: f.serviceType,
		ServiceName: st.Name,
		Date:        f.date,
		Slot:        f.slot,
		Name:        strings.TrimSpace(f.contact.Name),
		Phone:       strings.TrimSpace(f.contact.Phone),
		Email:       strings.TrimSpace(f.contact.Email),
		CarModel:    f.contact.CarModel,
		Notes:       f.contact.Notes,
		BookedAt:    f.scope.Now(),
	}
	if car != nil {
		c := *car
		conf.Vehicle = &c
	}

	f.status = StatusBooked
	f.confirmation = &conf
	f.scheduleReset(f.opts.Dwell)
	return conf, nil
}

// State captures the form for snapshots.
func (f *Form) State() State {
	return State{
		Status:       f.status,
		ServiceType:  f.serviceType,
		Date:         f.date,
		Slot:         f.slot,
		Contact:      f.contact,
		Confirmation: f.Confirmation(),
	}
}

// Restore replaces the form with st. A booked form resumes the remainder of
// its dwell period, or resets at once when the period already elapsed.
func (f *Form) Restore(st State) {
	f.reset.Cancel()
	f.reset = nil
	f.epoch++

	f.serviceType = st.ServiceType
	f.date = st.Date
	f.slot = st.Slot
	f.contact = st.Contact
	f.status = StatusCollecting
	f.confirmation = nil

	if st.Status != StatusBooked || st.Confirmation == nil {
		return
	}
	remaining := f.opts.Dwell - f.scope.Now().Sub(st.Confirmation.BookedAt)
	if remaining <= 0 {
		f.clear()
		return
	}
	conf := *st.Confirmation
	f.status = StatusBooked
	f.confirmation = &conf
	f.scheduleReset(remaining)
}

func (f *Form) scheduleReset(after time.Duration) {
	f.epoch++
	epoch := f.epoch
	f.reset = f.scope.After(after, func() {
		if f.epoch != epoch || f.status != StatusBooked {
			return
		}
		f.clear()
		f.reset = nil
		if f.opts.OnReset != nil {
			f.opts.OnReset()
		}
	})
}

func (f *Form) clear() {
	f.status = StatusCollecting
	f.confirmation = nil
	f.serviceType = ""
	f.date = ""
	f.slot = ""
	f.contact = Contact{}
}

func (f *Form) editable() error {
	if f.status != StatusCollecting {
		return ErrNotCollecting
	}
	return nil
}
