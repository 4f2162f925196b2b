// Package tokens reports staged design-token files that do not parse.
package tokens

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/newport-ds/ndsdist/internal/fileset"
)

// Patterns selects the token files checked by ValidateTree.
var Patterns = []string{"**/*.yml", "**/*.yaml", "**/*.json"}

// InvalidError identifies the token file that failed to parse.
type InvalidError struct {
	Path string
	Err  error
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid token file %s: %v", e.Path, e.Err)
}

func (e *InvalidError) Unwrap() error { return e.Err }

// Validate parses one token document. Any well-formed YAML stream or JSON
// value is accepted; the shape of the tokens is not checked.
func Validate(name string, data []byte) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return validateJSON(data)
	default:
		return validateYAML(data)
	}
}

func validateYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func validateJSON(data []byte) error {
	var v any
	return json.Unmarshal(data, &v)
}

// Result lists what ValidateTree checked.
type Result struct {
	Checked int
	Invalid []*InvalidError
}

// ValidateTree parses every token file under root. Files that do not parse
// are collected in Result.Invalid and the walk carries on; the returned
// error is reserved for I/O failures and cancellation.
func ValidateTree(ctx context.Context, root string) (Result, error) {
	var res Result
	files, err := fileset.Match(root, Patterns)
	if err != nil {
		return res, err
	}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		path := filepath.Join(root, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			return res, err
		}
		res.Checked++
		if err := Validate(rel, data); err != nil {
			res.Invalid = append(res.Invalid, &InvalidError{Path: path, Err: err})
		}
	}
	return res, nil
}
