package types

import (
	"errors"

	"github.com/nhaugen/kraftpris-go/hours"
)

var (
	// ErrInvalidDateFormat: a caller-supplied date string didn't parse.
	// Client error, never retried. Same sentinel the hours package wraps,
	// so errors.Is matches either way.
	ErrInvalidDateFormat = hours.ErrBadDayFormat

	// ErrUnsupportedCurrency: only NOK is implemented. EUR is a known
	// unimplemented case, not a silent default.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrUpstreamUnavailable: an upstream provider was unreachable or
	// erroring and no further fallback exists.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
