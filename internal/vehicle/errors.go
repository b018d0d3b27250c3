package vehicle

import "errors"

var (
	// ErrUnknownBrand is returned when a brand is not part of the lookup table
	ErrUnknownBrand = errors.New("vehicle: unknown brand")

	// ErrUnknownModel is returned when a model is not offered for the selected brand
	ErrUnknownModel = errors.New("vehicle: unknown model")

	// ErrUnknownFuelType is returned when a fuel type is not among the offered options
	ErrUnknownFuelType = errors.New("vehicle: unknown fuel type")

	// ErrIncomplete is returned by Resolve while brand, model or fuel type is missing
	ErrIncomplete = errors.New("vehicle: selection incomplete")
)
