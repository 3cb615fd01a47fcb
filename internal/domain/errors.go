package domain

import "errors"

var (
	ErrUnknownOption        = errors.New("unknown option")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidID            = errors.New("invalid id")
	ErrOrderNotFound        = errors.New("order not found")
	ErrNotOrderOwner        = errors.New("not the order owner")
	ErrOrderNotPending      = errors.New("order is not awaiting finalization")
	ErrOrderFinalizeFailed  = errors.New("order finalize failed")
	ErrCancelNotAllowed     = errors.New("cannot cancel in current state")
	ErrConcurrentConflict   = errors.New("order status changed concurrently")
	ErrGuestDetailsRequired = errors.New("guest name, phone and password are required")
	ErrRecipientRequired    = errors.New("recipient name, phone, zipcode and address are required")
	ErrOptionNameRequired   = errors.New("option name required")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrInvalidStock         = errors.New("invalid stock quantity")
	ErrOptionAlreadyExists  = errors.New("option already exists")
)
