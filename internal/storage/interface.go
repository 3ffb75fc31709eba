package storage

import "errors"

// ErrNotFound is returned when a document key has never been written.
var ErrNotFound = errors.New("document not found")

// Provider is the local durable key/value document store. Each key holds one
// serialized JSON document.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Documents
	GetDocument(key string) ([]byte, error)
	PutDocument(key string, value []byte) error
	DeleteDocument(key string) error
	Keys() ([]string, error)
	Clear() error

	// Utils
	GetConfigPath() string
}
