package viewer

import (
	"errors"
	"fmt"
)

var (
	// ErrLoadFailed covers transport and decoding failures of a document fetch
	ErrLoadFailed = errors.New("inventory data could not be loaded")
	// ErrEmptyDataset is returned when a fetched document has no sheets
	ErrEmptyDataset = errors.New("inventory data has no sheets")
	// ErrIngestionFailed is returned when an uploaded file was not processed
	ErrIngestionFailed = errors.New("file ingestion failed")
	// ErrPersistFailed is returned when a shelf-life write was rejected or errored
	ErrPersistFailed = errors.New("shelf life could not be saved")

	ErrEditInProgress   = errors.New("an edit is already in progress for this row")
	ErrNotEditable      = errors.New("shelf life is not editable here")
	ErrInvalidShelfLife = errors.New("shelf life is not one of the offered options")
)

// RemoteError carries the status and message a backend answered with
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// userMessage picks the text shown to a user for err: the backend's own
// message when there is one, the error text otherwise.
func userMessage(err error) string {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Error()
	}
	return err.Error()
}

// wrapAs tags err with sentinel unless it already carries it
func wrapAs(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
