package architecture

import "errors"

var (
	ErrUnknownModel = errors.New("unknown model")
	ErrInvalidModel = errors.New("invalid model")
	ErrShape        = errors.New("incompatible layer shape")
)
