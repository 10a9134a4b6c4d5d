package models

import "errors"

var (
	// ErrUnsupportedValue is returned when a Go value has no SurrealQL literal form.
	ErrUnsupportedValue = errors.New("value has no SurrealQL literal form")
	ErrInvalidRecordID  = errors.New("invalid record id")
)
