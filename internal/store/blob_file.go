// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-doc-ledger/internal/config"
	"github.com/MKhiriev/go-doc-ledger/internal/logger"
	"github.com/MKhiriev/go-doc-ledger/models"
)

// fileBlobStorage is the filesystem implementation of [BlobStorage]. Each
// blob is a file under the configured directory; its attributes are persisted
// as a JSON sidecar next to the ciphertext (name + ".attrs.json").
//
// Blob names are generated by the envelope codec as UUIDs, so the sanitising
// in blobPath is a guard against misuse, not a routine code path.
type fileBlobStorage struct {
	dir string

	logger *logger.Logger
}

const attrsSuffix = ".attrs.json"

// NewFileBlobStorage constructs a [BlobStorage] rooted at cfg.Dir, creating
// the directory if it does not exist.
func NewFileBlobStorage(cfg config.Blobs, log *logger.Logger) (BlobStorage, error) {
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		log.Err(err).Str("func", "NewFileBlobStorage").Str("dir", cfg.Dir).Msg("failed to create blob directory")
		return nil, fmt.Errorf("%w: %w", ErrBlobWrite, err)
	}

	return &fileBlobStorage{dir: cfg.Dir, logger: log}, nil
}

// Put implements [BlobStorage]. The ciphertext is written first and the
// attribute sidecar second; a blob without its sidecar is unreadable and
// treated as absent, so a crash between the two writes cannot produce a
// blob that decrypts incorrectly.
func (f *fileBlobStorage) Put(ctx context.Context, name string, data []byte, attrs models.BlobAttributes) error {
	log := logger.FromContext(ctx)

	path, err := f.blobPath(name)
	if err != nil {
		return err
	}

	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		log.Err(writeErr).
			Str("func", "fileBlobStorage.Put").
			Str("blob_name", name).
			Msg("failed to write blob data")
		return fmt.Errorf("%w: %w", ErrBlobWrite, writeErr)
	}

	attrBytes, marshalErr := json.Marshal(attrs)
	if marshalErr != nil {
		log.Err(marshalErr).
			Str("func", "fileBlobStorage.Put").
			Str("blob_name", name).
			Msg("failed to marshal blob attributes")
		return fmt.Errorf("%w: %w", ErrBlobWrite, marshalErr)
	}

	if writeErr := os.WriteFile(path+attrsSuffix, attrBytes, 0o600); writeErr != nil {
		log.Err(writeErr).
			Str("func", "fileBlobStorage.Put").
			Str("blob_name", name).
			Msg("failed to write blob attributes")
		return fmt.Errorf("%w: %w", ErrBlobWrite, writeErr)
	}

	log.Debug().
		Str("func", "fileBlobStorage.Put").
		Str("blob_name", name).
		Int("size", len(data)).
		Msg("blob stored")

	return nil
}

// Get implements [BlobStorage].
func (f *fileBlobStorage) Get(ctx context.Context, name string) ([]byte, models.BlobAttributes, error) {
	log := logger.FromContext(ctx)

	var attrs models.BlobAttributes

	path, err := f.blobPath(name)
	if err != nil {
		return nil, attrs, err
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return nil, attrs, fmt.Errorf("%w: %s", ErrBlobNotFound, name)
		}
		log.Err(readErr).
			Str("func", "fileBlobStorage.Get").
			Str("blob_name", name).
			Msg("failed to read blob data")
		return nil, attrs, fmt.Errorf("%w: %w", ErrBlobRead, readErr)
	}

	attrBytes, readErr := os.ReadFile(path + attrsSuffix)
	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			return nil, attrs, fmt.Errorf("%w: %s", ErrBlobNotFound, name)
		}
		log.Err(readErr).
			Str("func", "fileBlobStorage.Get").
			Str("blob_name", name).
			Msg("failed to read blob attributes")
		return nil, attrs, fmt.Errorf("%w: %w", ErrBlobRead, readErr)
	}

	if unmarshalErr := json.Unmarshal(attrBytes, &attrs); unmarshalErr != nil {
		log.Err(unmarshalErr).
			Str("func", "fileBlobStorage.Get").
			Str("blob_name", name).
			Msg("failed to unmarshal blob attributes")
		return nil, attrs, fmt.Errorf("%w: %w", ErrBlobRead, unmarshalErr)
	}

	return data, attrs, nil
}

// Exists implements [BlobStorage].
func (f *fileBlobStorage) Exists(ctx context.Context, name string) (bool, error) {
	path, err := f.blobPath(name)
	if err != nil {
		return false, err
	}

	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrBlobRead, statErr)
	}

	return true, nil
}

// Reconnect implements [BlobStorage]. For the filesystem backend the
// equivalent of re-establishing a session is re-ensuring the directory is
// present and writable, which covers the case of the mount disappearing
// between writes.
func (f *fileBlobStorage) Reconnect(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		log.Err(err).
			Str("func", "fileBlobStorage.Reconnect").
			Str("dir", f.dir).
			Msg("failed to re-establish blob directory")
		return fmt.Errorf("%w: %w", ErrBlobWrite, err)
	}

	return nil
}

// blobPath resolves a blob name inside the storage directory, rejecting
// names that would escape it.
func (f *fileBlobStorage) blobPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: invalid blob name %q", ErrBlobRead, name)
	}

	return filepath.Join(f.dir, name), nil
}
