// Package jsonc decodes JSON-with-comments documents.
package jsonc

import (
	"encoding/json"
	"fmt"
	"os"

	jsonc "github.com/muhammadmuzzammil1998/jsonc"
)

// Clean strips comments and trailing commas from JSONC input.
func Clean(data []byte) []byte {
	return jsonc.ToJSON(data)
}

// Decode parses JSONC bytes into dest.
func Decode(data []byte, dest any) error {
	if err := json.Unmarshal(Clean(data), dest); err != nil {
		return fmt.Errorf("parse jsonc: %w", err)
	}
	return nil
}

// DecodeFile loads a JSONC file into dest.
func DecodeFile(path string, dest any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(Clean(b), dest); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
