package domain

import "context"

// StorageError represents an error originating from a storage backend.
type StorageError string

func (e StorageError) Error() string {
	return string(e)
}

// ErrStorageMiss is returned when a key has never been saved.
const ErrStorageMiss = StorageError("storage: key not found")

// Storage is the key-value persistence port used for StudentProgress.
// Implementations are the adapters (memory, Redis, SQL).
type Storage interface {
	// Save stores value under key, overwriting any previous value.
	Save(ctx context.Context, key string, value string) error

	// Load returns the value stored under key.
	// It returns ErrStorageMiss if the key is absent.
	Load(ctx context.Context, key string) (string, error)
}
