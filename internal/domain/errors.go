package domain

import "errors"

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidPoolState = errors.New("invalid pool state")
	ErrNoSnapshot       = errors.New("no snapshot available")
	ErrInvalidAsset     = errors.New("invalid asset")
	ErrTokenNotFound    = errors.New("token not found")
)
