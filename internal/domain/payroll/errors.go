package payroll

import "errors"

var (
	ErrDuplicateID  = errors.New("employee id already exists")
	ErrNotFound     = errors.New("employee not found")
	ErrZeroHours    = errors.New("hours per day must be greater than zero")
	ErrEmptySet     = errors.New("no employees on record")
	ErrUnknownField = errors.New("unknown adjustment field")
	ErrNoSnapshot   = errors.New("no snapshot file to back up")
)
