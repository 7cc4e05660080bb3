// Package storage defines the data-directory file abstraction used for durable state.
package storage

// Provider is the interface for data directory file operations.
type Provider interface {
	// Root returns the absolute path of the data directory.
	Root() string
	// Read returns the raw bytes of the file at name (relative to root).
	// A missing file yields an error matching os.ErrNotExist.
	Read(name string) ([]byte, error)
	// Write atomically replaces the file at name (relative to root).
	Write(name string, content []byte) error
}
