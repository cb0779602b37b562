package array

import "errors"

var (
	ErrTypeMismatch    = errors.New("coldb: array type mismatch")
	ErrUnsupportedType = errors.New("coldb: unsupported data type")
	ErrBuilderFinished = errors.New("coldb: array builder already finished")
	ErrEmptyChunk      = errors.New("coldb: data chunk needs at least one array")
	ErrLengthMismatch  = errors.New("coldb: all arrays must have the same length")
	ErrColumnMismatch  = errors.New("coldb: data chunk columns mismatch")
	ErrCorrupted       = errors.New("coldb: corrupted array data")
)
