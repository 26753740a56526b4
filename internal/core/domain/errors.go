package domain

import "go.trai.ch/zerr"

var (
	// ErrRemoteUnavailable is returned when the remote content store cannot be reached or answers with
	// an unexpected status.
	ErrRemoteUnavailable = zerr.New("remote content store unavailable")

	// ErrNoCredential is returned when a remote operation is attempted without a configured token.
	ErrNoCredential = zerr.New("no remote credential configured")

	// ErrNotFound is returned when a path does not exist in the remote content store.
	ErrNotFound = zerr.New("not found")

	// ErrSourceUnavailable is returned when a data source cannot be queried in the current environment.
	ErrSourceUnavailable = zerr.New("source unavailable")

	// ErrSourceFailed is returned when a data source fails while loading records.
	ErrSourceFailed = zerr.New("source failed")

	// ErrRecordCorrupt is returned when a single record cannot be parsed.
	ErrRecordCorrupt = zerr.New("record corrupt")

	// ErrIndexCorrupt is returned when a category index cannot be parsed.
	ErrIndexCorrupt = zerr.New("category index corrupt")

	// ErrStorageQuotaExceeded is returned when a local store write would exceed its capacity.
	ErrStorageQuotaExceeded = zerr.New("local storage quota exceeded")

	// ErrStorageAccessDenied is returned when the local store cannot be read or written.
	ErrStorageAccessDenied = zerr.New("local storage access denied")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidEnvironment is returned when a configured environment name is unknown.
	ErrInvalidEnvironment = zerr.New("invalid environment, expected 'auto', 'production', 'development', 'filesystem' or 'unknown'")

	// ErrInvalidLogLevel is returned when a configured log level is unknown.
	ErrInvalidLogLevel = zerr.New("invalid log level, expected 'debug', 'info', 'warn' or 'error'")

	// ErrInvalidPath is returned when a path or identifier is empty or escapes its root.
	ErrInvalidPath = zerr.New("invalid path")

	// ErrDeleteFailed is returned when a record could not be removed from the remote content store.
	ErrDeleteFailed = zerr.New("failed to delete record")

	// ErrBatcherClosed is returned when a write is queued on a closed write batcher.
	ErrBatcherClosed = zerr.New("write batcher is closed")
)
