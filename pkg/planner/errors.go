package planner

import "errors"

var ErrNotFound = errors.New("not found")
