package ingestion

import "errors"

var (
	// ErrManagerRequired is returned when a collection manager is not provided.
	ErrManagerRequired = errors.New("collection manager required")

	// ErrContentTooLarge is returned when a document exceeds the size cap.
	ErrContentTooLarge = errors.New("content exceeds maximum size")
)
