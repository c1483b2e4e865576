package health

import "errors"

// ErrCheckTimeout wraps check errors caused by the shared timeout.
var ErrCheckTimeout = errors.New("health: check timeout")
