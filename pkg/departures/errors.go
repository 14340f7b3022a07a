package departures

import "errors"

var (
	ErrInvalidWindow    = errors.New("window must look like 30m, 1h, or 1h30m")
	ErrInvalidDirection = errors.New("direction must be inbound/outbound or a cardinal like northbound")
	ErrUnknownLine      = errors.New("unknown line")
)
