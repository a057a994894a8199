// internal/store/file.go
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "mgesture"

// FileTier keeps one file per key in a directory.
type FileTier struct {
	source Source
	dir    string
	codec  Codec
}

// NewFileTier creates a tier rooted at dir.
func NewFileTier(source Source, dir string, codec Codec) *FileTier {
	return &FileTier{source: source, dir: dir, codec: codec}
}

// DefaultSyncDir is the user config directory, which users commonly keep in
// sync between machines.
func DefaultSyncDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appDirName), nil
}

// DefaultLocalDir is the machine-local cache directory.
func DefaultLocalDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(dir, appDirName), nil
}

func (f *FileTier) Source() Source { return f.source }

// Dir returns the directory the tier writes to.
func (f *FileTier) Dir() string { return f.dir }

// Path returns the file that holds key.
func (f *FileTier) Path(key string) string {
	return filepath.Join(f.dir, key+f.codec.Ext())
}

func (f *FileTier) Get(_ context.Context, key string) (Envelope, error) {
	data, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Envelope{}, ErrNotFound
		}
		return Envelope{}, fmt.Errorf("read %s: %w", f.Path(key), err)
	}

	env, err := f.codec.Decode(data)
	if err != nil {
		return Envelope{}, err
	}
	if err := checkVersion(env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// Put writes through a temporary file so readers never see a partial document.
func (f *FileTier) Put(_ context.Context, key string, env Envelope) error {
	data, err := f.codec.Encode(env)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.Path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", f.Path(key), err)
	}
	return nil
}

func (f *FileTier) Remove(_ context.Context, key string) error {
	if err := os.Remove(f.Path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", f.Path(key), err)
	}
	return nil
}
