package models

import "errors"

// Sentinel errors shared across repositories. Handlers map ErrNotFound to
// 404 so it stays distinguishable from an authorization denial.
var (
	ErrNotFound = errors.New("not found")
)
