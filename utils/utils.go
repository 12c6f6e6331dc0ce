package utils

import (
	"encoding/json"
	"fmt"
	"io"
)

// Parse decodes a JSON request body into T and closes the reader.
func Parse[T any](data io.ReadCloser) (*T, error) {
	defer data.Close()
	var container T
	if err := json.NewDecoder(data).Decode(&container); err != nil {
		return nil, fmt.Errorf("could not parse request body: %w", err)
	}
	return &container, nil
}
