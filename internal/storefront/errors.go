package storefront

import "errors"

var (
	ErrUnknownNavOption = errors.New("storefront: unknown navigation option")
	ErrUnknownCategory  = errors.New("storefront: unknown service category")
	// ErrNoCategory is returned when an item is added with no category retained
	ErrNoCategory  = errors.New("storefront: no service category selected")
	ErrUnknownItem = errors.New("storefront: unknown service item")
	ErrUnknownFAQ  = errors.New("storefront: unknown faq entry")
)
