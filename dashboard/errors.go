package dashboard

import "errors"

var ErrUnknownAction = errors.New("dashboard: unknown action")
