package db

import "errors"

var (
	ErrClosed = errors.New("coldb: db closed")
)
