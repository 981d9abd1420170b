package sale

import "errors"

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyExternalID = errors.New("empty external sale id")
)
