package geo

import "errors"

// ErrInvalidCoordinate is returned when a latitude or longitude is out of range
var ErrInvalidCoordinate = errors.New("invalid coordinate")
