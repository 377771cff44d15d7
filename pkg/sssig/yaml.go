package sssig

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Encode writes rules as a YAML document with two-space indentation.
func Encode(w io.Writer, rules *Rules) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rules); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// Marshal returns the YAML encoding of rules.
func Marshal(rules *Rules) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, rules); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads an SSSIG rules document. Unknown keys are rejected.
func Decode(r io.Reader) (*Rules, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var rules Rules
	if err := dec.Decode(&rules); err != nil {
		if err == io.EOF {
			return &rules, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &rules, nil
}

// Unmarshal parses an SSSIG rules document from bytes.
func Unmarshal(data []byte) (*Rules, error) {
	return Decode(bytes.NewReader(data))
}
