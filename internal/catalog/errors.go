package catalog

import "errors"

var (
	// ErrOutputWrite wraps any failure writing either artifact.
	ErrOutputWrite = errors.New("cannot write catalog output")
	// ErrStrideMismatch indicates a binary file whose size is not a whole number of records.
	ErrStrideMismatch = errors.New("binary size is not a multiple of the record stride")
	// ErrMetadataMismatch indicates ids or names that do not line up with the records.
	ErrMetadataMismatch = errors.New("metadata not aligned with binary records")
	// ErrClassOutOfRange indicates a class id that does not index the class table.
	ErrClassOutOfRange = errors.New("class id out of range")
)
