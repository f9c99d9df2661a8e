package confloader

import "errors"

var errReadBytesNotSupported = errors.New("confloader: map provider only supports Read")

// mapProvider is a koanf provider backed by a nested map.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errReadBytesNotSupported
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}
