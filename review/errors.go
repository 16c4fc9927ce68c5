package review

import "errors"

// ErrNoCategory is returned when an approval names no target category.
var ErrNoCategory = errors.New("target category is required")
