package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/JavierSanzSaez/zama-technical-test/internal/models"
)

// FileStore persists the console's records in a single JSON document on
// disk. It is the local-disk analogue of the browser storage the original
// dashboard used: one small document, last write wins, corruption treated as
// an empty store.
type FileStore struct {
	path   string
	logger *logrus.Logger
	mu     sync.Mutex
}

// document is the on-disk shape. The field names are the fixed storage keys
// the dashboard documents.
type document struct {
	Session *models.Session `json:"sandbox_session,omitempty"`
	APIKeys []models.APIKey `json:"api_keys,omitempty"`
}

// NewFileStore creates a file-backed store at the given path. The file is
// created lazily on the first write.
func NewFileStore(path string, logger *logrus.Logger) *FileStore {
	logger.WithField("path", path).Info("File store initialized")
	return &FileStore{path: path, logger: logger}
}

// Close is a no-op; every operation opens and closes the file itself.
func (f *FileStore) Close() error {
	return nil
}

// Ping verifies the document is readable or absent.
func (f *FileStore) Ping(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := os.Stat(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage file not accessible: %w", err)
	}
	return nil
}

// StoreSession persists the session mirror.
func (f *FileStore) StoreSession(_ context.Context, session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.load()
	doc.Session = session
	return f.save(doc)
}

// GetSession retrieves the mirrored session.
func (f *FileStore) GetSession(_ context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.load()
	if doc.Session == nil {
		return nil, ErrNotFound
	}
	return doc.Session, nil
}

// DeleteSession removes the session mirror.
func (f *FileStore) DeleteSession(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.load()
	if doc.Session == nil {
		return nil
	}
	doc.Session = nil
	return f.save(doc)
}

// StoreAPIKeys persists the key list.
func (f *FileStore) StoreAPIKeys(_ context.Context, keys []models.APIKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.load()
	doc.APIKeys = keys
	return f.save(doc)
}

// GetAPIKeys retrieves the key list.
func (f *FileStore) GetAPIKeys(_ context.Context) ([]models.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc := f.load()
	return doc.APIKeys, nil
}

// load reads the document from disk. A missing file yields an empty
// document; an unparsable file is deleted and treated the same way, so
// corruption self-heals without surfacing an error.
func (f *FileStore) load() *document {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.WithError(err).Warn("Failed to read storage file, treating as empty")
		}
		return &document{}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		f.logger.WithError(err).Warn("Corrupt storage file detected, clearing it")
		if removeErr := os.Remove(f.path); removeErr != nil {
			f.logger.WithError(removeErr).Warn("Failed to remove corrupt storage file")
		}
		return &document{}
	}

	return &doc
}

// save writes the document back to disk.
func (f *FileStore) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage document: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage file: %w", err)
	}

	return nil
}
