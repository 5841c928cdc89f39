// Package errors re-exports github.com/cockroachdb/errors and defines the
// error kinds shared across the inflammation packages.
//
// Call sites wrap one of the sentinels so callers can branch with Is:
//
//	return errors.Wrapf(errors.ErrIndex, "patient %d", idx)
//
//	if errors.Is(err, errors.ErrIndex) { ... }
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	Mark         = crdb.Mark
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	Is           = crdb.Is
	FlattenHints = crdb.FlattenHints
)

// Error kinds.
var (
	// ErrParse reports a malformed or non-rectangular input table.
	ErrParse = crdb.New("parse error")
	// ErrTypeMismatch reports an argument of the wrong type.
	ErrTypeMismatch = crdb.New("type mismatch")
	// ErrShape reports input with the wrong dimensionality.
	ErrShape = crdb.New("shape error")
	// ErrDomain reports a value outside the permitted domain, e.g. a negative reading.
	ErrDomain = crdb.New("domain error")
	// ErrIndex reports an out-of-range patient or day index.
	ErrIndex = crdb.New("index out of range")
	// ErrEmptyCollection reports a query against an empty collection.
	ErrEmptyCollection = crdb.New("empty collection")
)
