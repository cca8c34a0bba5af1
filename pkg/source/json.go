package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/nauticalab/layerconf/internal/tree"
)

// JSON loads JSON files holding exactly one document. Line comments, block
// comments and trailing commas are tolerated.
type JSON struct{}

// LoadConfiguration implements Strategy.
func (JSON) LoadConfiguration(path string) (Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fragment{}, fmt.Errorf("failed to read JSON file %s: %w", path, err)
	}

	doc, err := ParseJSON(data)
	if err != nil {
		return Fragment{}, fmt.Errorf("failed to parse JSON in %s: %w", path, err)
	}

	return Single(doc), nil
}

// ParseJSON decodes a single JSON document. Numbers keep their integer form
// where they have one.
func ParseJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()

	var doc any
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}

	// Exactly one document per file.
	var extra any
	if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after the top-level value")
	}

	return tree.Canonicalize(doc), nil
}
