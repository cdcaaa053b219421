package repositories

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BlobStore persists uploaded binaries under their storage name.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Exists(ctx context.Context, name string) (bool, error)
	// Delete removes the blob. An absent blob is not an error.
	Delete(ctx context.Context, name string) error
}

// Presigner is implemented by backends that can hand out direct download URLs.
type Presigner interface {
	PresignGet(ctx context.Context, name string, expires time.Duration) (string, error)
}

// ErrBlobNotFound is returned by Open when nothing is stored under the name.
var ErrBlobNotFound = errors.New("blob not found")

func validBlobName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return invalid("filename", "invalid storage name")
	}
	return nil
}

// DiskBlobStore keeps binaries as flat files in one directory.
type DiskBlobStore struct {
	dir string
}

func NewDiskBlobStore(dir string) (*DiskBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskBlobStore{dir: dir}, nil
}

func (s *DiskBlobStore) Dir() string { return s.dir }

func (s *DiskBlobStore) path(name string) (string, error) {
	if err := validBlobName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

func (s *DiskBlobStore) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	// O_EXCL: a storage name is written exactly once
	dst, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(p)
		return err
	}
	return dst.Close()
}

func (s *DiskBlobStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrBlobNotFound
	}
	return f, err
}

func (s *DiskBlobStore) Exists(_ context.Context, name string) (bool, error) {
	p, err := s.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (s *DiskBlobStore) Delete(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
