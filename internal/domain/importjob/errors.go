package importjob

import "errors"

var (
	// ErrAlreadyRunning rejects a start request while a run for the same
	// entity type is active. The in-flight run is not affected.
	ErrAlreadyRunning = errors.New("import job already running")

	// ErrUnsupportedEntityType rejects a start request for an entity type
	// the engine is not configured to import.
	ErrUnsupportedEntityType = errors.New("unsupported entity type")
)
