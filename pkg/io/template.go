package io

import (
	"io"

	"github.com/matzehuels/anchortile/pkg/config"
	"github.com/matzehuels/anchortile/pkg/errors"
)

// ReadTemplate decodes a JSON object. Arrays and scalars are rejected.
func ReadTemplate(r io.Reader) (map[string]any, error) {
	tmpl, err := config.DecodeObject(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "template must be a JSON object")
	}
	return tmpl, nil
}

// ImportTemplate reads the template at path. When optional is set, a missing
// file yields an empty template.
func ImportTemplate(path string, optional bool) (map[string]any, error) {
	if path == "" && optional {
		return map[string]any{}, nil
	}
	f, err := open(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) && optional {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTemplate(f)
}
