package domain

import "errors"

// ErrNoEarnings means the calendar has no upcoming report for a symbol.
// It is an answer, not a failure.
var ErrNoEarnings = errors.New("no scheduled earnings")
