// Package storage persists uploaded files on the local filesystem.
// Deck thumbnails and card attachments live under separate fixed
// directories; card attachments are partitioned by MIME category so
// images and audio never share a directory.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/utils"
)

// imageExtensions are the only extensions accepted for deck thumbnails.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// FileStore saves and removes uploaded files under a configured root.
type FileStore struct {
	root string
}

// NewFileStore creates a FileStore rooted at the given directory and
// ensures the storage subdirectories exist.
func NewFileStore(root string) (*FileStore, error) {
	fs := &FileStore{root: root}

	for _, dir := range []string{
		constants.StorageDeckDir,
		constants.StorageCardImageDir,
		constants.StorageCardAudioDir,
	} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}

	return fs, nil
}

// storedName builds the on-disk filename: a fresh UUID prefixed to the
// lowercased original name, so uploads never collide and never collide
// with each other.
func storedName(originalName string) string {
	return uuid.New().String() + strings.ToLower(filepath.Base(originalName))
}

// SaveDeckImage stores a deck thumbnail and returns its path relative
// to the storage root. Only png, jpg, and jpeg files are accepted.
func (f *FileStore) SaveDeckImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExtensions[ext] {
		return "", utils.NewBadRequestError(constants.MsgInvalidImage)
	}

	return f.save(file, constants.StorageDeckDir, header.Filename)
}

// SaveCardFile stores a card attachment, partitioned by MIME category.
// Image uploads land under the image directory, everything else under
// the audio directory.
func (f *FileStore) SaveCardFile(file multipart.File, header *multipart.FileHeader) (string, error) {
	dir := constants.StorageCardAudioDir
	if strings.HasPrefix(header.Header.Get(constants.HeaderContentType), "image/") {
		dir = constants.StorageCardImageDir
	}

	return f.save(file, dir, header.Filename)
}

// save writes the upload into dir and returns the relative path.
func (f *FileStore) save(file multipart.File, dir, originalName string) (string, error) {
	relPath := filepath.Join(dir, storedName(originalName))
	absPath := filepath.Join(f.root, relPath)

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	log.Debug().
		Str("path", relPath).
		Msg("File stored")

	return relPath, nil
}

// Remove deletes a stored file by its relative path. Removal is best
// effort: a missing file is not an error, and failures are logged
// rather than returned so resource deletion never blocks on disk state.
func (f *FileStore) Remove(relPath string) {
	if relPath == "" {
		return
	}

	absPath := filepath.Join(f.root, relPath)
	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		log.Warn().
			Err(err).
			Str("path", relPath).
			Msg("Failed to remove stored file")
		return
	}

	log.Debug().
		Str("path", relPath).
		Msg("File removed")
}

// Root returns the storage root directory.
func (f *FileStore) Root() string {
	return f.root
}
