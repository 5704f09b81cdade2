package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrGatewayIDsSet = errors.New("gateway ids already set for order")
)
