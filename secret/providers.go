package secret

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvProvider resolves references as environment variable names.
type EnvProvider struct {
	prefix string
	lookup func(string) (string, bool)
}

// NewEnvProvider creates an env provider. prefix is prepended to every ref.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{prefix: prefix, lookup: os.LookupEnv}
}

// Name returns "env".
func (p *EnvProvider) Name() string { return "env" }

// Resolve returns the value of the variable prefix+ref.
func (p *EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := p.lookup(p.prefix + ref)
	if !ok {
		return "", fmt.Errorf("%w: env %s", ErrNotFound, p.prefix+ref)
	}
	return v, nil
}

// Close is a no-op.
func (p *EnvProvider) Close() error { return nil }

// FileProvider resolves references as file paths, as used for mounted
// secrets. Trailing newlines are trimmed.
type FileProvider struct {
	dir string
}

// NewFileProvider creates a file provider. A non-empty dir confines
// references to that directory; relative refs are resolved against it.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{dir: dir}
}

// Name returns "file".
func (p *FileProvider) Name() string { return "file" }

// Resolve reads the referenced file.
func (p *FileProvider) Resolve(_ context.Context, ref string) (string, error) {
	path := filepath.Clean(ref)
	if p.dir != "" {
		base := filepath.Clean(p.dir)
		if !filepath.IsAbs(path) {
			path = filepath.Join(base, path)
		}
		rel, err := filepath.Rel(base, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("%w: %s escapes %s", ErrInvalidRef, ref, base)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: file %s", ErrNotFound, ref)
		}
		return "", fmt.Errorf("secret: read %s: %w", ref, err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

// Close is a no-op.
func (p *FileProvider) Close() error { return nil }

var (
	_ Provider = (*EnvProvider)(nil)
	_ Provider = (*FileProvider)(nil)
)

func init() {
	_ = DefaultRegistry.Register("env", func(cfg map[string]any) (Provider, error) {
		prefix, _ := cfg["prefix"].(string)
		return NewEnvProvider(prefix), nil
	})
	_ = DefaultRegistry.Register("file", func(cfg map[string]any) (Provider, error) {
		dir, _ := cfg["dir"].(string)
		return NewFileProvider(dir), nil
	})
}
