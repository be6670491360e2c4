package secret

// Store provides a pluggable interface for sensitive values such as
// datasource passwords, which never live inside a board document.
type Store interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns empty slice and nil error if key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}

// MemoryStore is an in-process Store for tests and headless sessions where
// no system keychain is available.
type MemoryStore struct {
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	return m.values[key], nil
}

func (m *MemoryStore) Delete(key string) error {
	delete(m.values, key)
	return nil
}
