package domain

import "errors"

// ErrInvalidInput is returned for any input the engine refuses to compute on:
// negative amounts, non-positive horizons or caps, RPU years out of range and
// malformed bracket tables. Callers test for it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")
