package photostore

import "io"

// DisabledStore используется там, где файловая система недоступна (веб-клиент).
type DisabledStore struct{}

func (DisabledStore) Supported() bool { return false }

func (DisabledStore) Dir() string { return "" }

func (DisabledStore) Import(io.Reader, string) (string, error) {
	return "", ErrUnsupported
}

func (DisabledStore) Remove(string) error {
	return ErrUnsupported
}
