package core

import "errors"

var (
	// ErrInsufficientBalance indicates the exchange rejected the action due to insufficient funds.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrDuplicateOrder indicates the client order id has already been accepted before.
	ErrDuplicateOrder = errors.New("duplicate order")
	// ErrOrderNotFound indicates the order does not exist on exchange.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderRejected indicates the order was rejected by exchange.
	ErrOrderRejected = errors.New("order rejected")
	// ErrOrderExpired indicates the order has expired on exchange.
	ErrOrderExpired = errors.New("order expired")
	// ErrInvalidSignature indicates the exchange could not verify the request signature.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrTimestampOutsideRecvWindow indicates the request timestamp was stale or ahead of server time.
	ErrTimestampOutsideRecvWindow = errors.New("timestamp outside recvWindow")
	// ErrUnknownSymbol indicates the symbol is not listed on exchange.
	ErrUnknownSymbol = errors.New("unknown symbol")
)
