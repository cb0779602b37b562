package catalog

import "errors"

var (
	ErrInvalidSchema = errors.New("coldb: invalid schema")
)
