package model

import "errors"

var (
	// ErrUnknownCategory is returned for chart categories outside the supported set.
	ErrUnknownCategory = errors.New("unknown chart category")
	// ErrInvalidDate is returned when a block date is not a yyyy-mm-dd calendar date.
	ErrInvalidDate = errors.New("invalid block date")
	// ErrInvalidWindow is returned when an explicit upper bound precedes the window start.
	ErrInvalidWindow = errors.New("invalid block window")
)
