package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nauticalab/layerconf/internal/tree"
)

// YAML loads YAML files. Every document of a multi-document file becomes one
// document of the returned sequence fragment, so profile-specific sections
// can live in the same file separated by "---".
type YAML struct{}

// LoadConfiguration implements Strategy.
func (YAML) LoadConfiguration(path string) (Fragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fragment{}, fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}

	docs, err := ParseYAML(data)
	if err != nil {
		return Fragment{}, fmt.Errorf("failed to parse YAML in %s: %w", path, err)
	}

	return Sequence(docs...), nil
}

// ParseYAML decodes every document in data. Empty documents decode to nil.
func ParseYAML(data []byte) ([]any, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var docs []any
	for index := 0; ; index++ {
		var doc any
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", index, err)
		}
		docs = append(docs, tree.Canonicalize(doc))
	}

	return docs, nil
}
