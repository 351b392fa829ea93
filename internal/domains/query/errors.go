package query

import "errors"

var ErrQueryNotFound = errors.New("service query not found")
