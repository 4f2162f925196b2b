// Package manifest loads, edits and rewrites the package.json shipped with the
// distribution. Key order and untouched values survive a round trip.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/newport-ds/ndsdist/internal/fileset"
)

// Record is a JSON object whose keys keep their source order.
type Record struct {
	keys   []string
	values map[string]json.RawMessage
}

// New returns an empty record.
func New() *Record {
	return &Record{values: make(map[string]json.RawMessage)}
}

// Parse decodes a top-level JSON object.
func Parse(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("manifest: top-level value is not an object")
	}

	r := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("manifest: unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("manifest: value of %q: %w", key, err)
		}
		r.setRaw(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("manifest: trailing data after object")
	}
	return r, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Keys returns the keys in order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Raw returns the encoded value of key.
func (r *Record) Raw(key string) (json.RawMessage, bool) {
	v, ok := r.values[key]
	return v, ok
}

// String returns key as a string. Missing keys and non-string values report false.
func (r *Record) String(key string) (string, bool) {
	raw, ok := r.values[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Set encodes value under key. A new key is appended; an existing key keeps its position.
func (r *Record) Set(key string, value any) error {
	raw, err := marshal(value)
	if err != nil {
		return fmt.Errorf("manifest: encode %q: %w", key, err)
	}
	r.setRaw(key, raw)
	return nil
}

// Delete removes key. Missing keys are ignored.
func (r *Record) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

func (r *Record) setRaw(key string, raw json.RawMessage) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = raw
}

// Marshal renders the record with two-space indentation, no HTML escaping and
// a trailing newline.
func (r *Record) Marshal() ([]byte, error) {
	if len(r.keys) == 0 {
		return []byte("{}\n"), nil
	}
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, key := range r.keys {
		k, err := marshal(key)
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(k)
		buf.WriteString(": ")
		if err := json.Indent(&buf, r.values[key], "  ", "  "); err != nil {
			return nil, fmt.Errorf("manifest: value of %q: %w", key, err)
		}
		if i < len(r.keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Save writes the record to path atomically.
func (r *Record) Save(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return fileset.WriteFileAtomic(path, data, perm)
}

// Edit loads path, applies fn and saves the result in place. Nothing is
// written when fn fails.
func Edit(path string, fn func(*Record) error) error {
	r, err := Load(path)
	if err != nil {
		return err
	}
	if err := fn(r); err != nil {
		return err
	}
	return r.Save(path)
}

// ReadVersion returns the version field of the manifest at path.
func ReadVersion(path string) (string, error) {
	r, err := Load(path)
	if err != nil {
		return "", err
	}
	v, ok := r.String("version")
	if !ok || v == "" {
		return "", fmt.Errorf("%s: missing version", path)
	}
	return v, nil
}

// marshal encodes v without escaping <, > and &.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
