package store

import (
	"errors"

	"github.com/josephgoksu/Guestflow/internal/prompt"
	"github.com/josephgoksu/Guestflow/models"
)

var (
	// ErrNotFound is returned when a document path does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrUnsupportedFormat is returned for extensions other than .json,
	// .yaml and .yml.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// ExperienceStore reads and writes experience documents and the runtime
// inputs used to compose prompts from them.
type ExperienceStore interface {
	// Load reads an experience document, checks its shape and returns it
	// with steps in run order.
	Load(path string) (models.Document, error)

	// Save writes doc, creating parent directories as needed. The format
	// follows the file extension.
	Save(path string, doc models.Document) error

	// List returns the experience documents directly inside dir, sorted.
	List(dir string) ([]string, error)

	// LoadSession reads a session value map keyed by step id.
	LoadSession(path string) (prompt.SessionValues, error)

	// LoadEvent reads event metadata.
	LoadEvent(path string) (models.EventMeta, error)
}
