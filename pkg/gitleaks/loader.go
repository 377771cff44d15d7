package gitleaks

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Loader reads Gitleaks configs from TOML.
type Loader struct {
	fs     fs.FS // nil means the host filesystem
	strict bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithStrict rejects configs that contain keys this package does not know.
func WithStrict() LoaderOption {
	return func(l *Loader) {
		l.strict = true
	}
}

// NewLoader creates a loader that reads files from the host filesystem.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewLoaderWithFS creates a loader that resolves paths inside fsys.
func NewLoaderWithFS(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := NewLoader(opts...)
	l.fs = fsys
	return l
}

// Load parses a config from TOML bytes.
func (l *Loader) Load(data []byte) (*Config, error) {
	return l.LoadReader(bytes.NewReader(data))
}

// LoadReader parses a config from r.
func (l *Loader) LoadReader(r io.Reader) (*Config, error) {
	dec := toml.NewDecoder(r)
	if l.strict {
		dec.DisallowUnknownFields()
	}

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("failed to parse TOML at line %d, column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.normalize()
	return &cfg, nil
}

// LoadFile parses the config stored at path.
func (l *Loader) LoadFile(path string) (*Config, error) {
	var (
		data []byte
		err  error
	)
	if l.fs != nil {
		data, err = fs.ReadFile(l.fs, path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	cfg, err := l.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
