package menu

import "errors"

var (
	ErrMenuNotFound  = errors.New("menu not found for this date")
	ErrMissingFields = errors.New("date, food type, price and mess time are required")
	ErrInvalidPrice  = errors.New("price must be greater than zero")
	ErrUnnamedItem   = errors.New("every menu item needs a name")
)
