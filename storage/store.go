package storage

// Store is a durable string key-value store scoped to one consumer, the Go counterpart of a browser's
// localStorage. Implementations must treat a missing key as ("", false, nil) and make Delete of a
// missing key a no-op.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error
}
