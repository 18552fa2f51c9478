package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrEmailTaken           = errors.New("email already registered")
	ErrLimitReached         = errors.New("daily limit reached")
	ErrModelRequiresUpgrade = errors.New("model requires pro plan")
	ErrUnknownModel         = errors.New("unknown model")
	ErrTurnInFlight         = errors.New("another turn is in flight")
	ErrGatewayTimeout       = errors.New("gateway timeout")
)
