package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrGateway            = errors.New("payment gateway error")
	ErrPaymentUnconfirmed = errors.New("payment not confirmed yet")
)
