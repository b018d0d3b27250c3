package storefront

import "fmt"

// FAQ is an accordion with at most one expanded entry.
type FAQ struct {
	size int
	open int
}

// NewFAQ creates an accordion over size entries with the first one open.
func NewFAQ(size int) *FAQ {
	f := &FAQ{size: size, open: -1}
	if size > 0 {
		f.open = 0
	}
	return f
}

// Toggle opens entry i, or closes it when it is already open.
func (f *FAQ) Toggle(i int) error {
	if i < 0 || i >= f.size {
		return fmt.Errorf("%w: %d", ErrUnknownFAQ, i)
	}
	if f.open == i {
		f.open = -1
	} else {
		f.open = i
	}
	return nil
}

// Expanded returns the open entry, or -1.
func (f *FAQ) Expanded() int { return f.open }

// Restore sets the open entry, ignoring out of range values.
func (f *FAQ) Restore(open int) {
	if open < -1 || open >= f.size {
		return
	}
	f.open = open
}

// Dialog is a modal with no state beyond visibility.
type Dialog struct {
	open bool
}

func (d *Dialog) Open()        { d.open = true }
func (d *Dialog) Close()       { d.open = false }
func (d *Dialog) IsOpen() bool { return d.open }

// Restore sets visibility.
func (d *Dialog) Restore(open bool) { d.open = open }
