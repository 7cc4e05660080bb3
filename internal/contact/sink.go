package contact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/storage"
)

// LogFileName is the message log inside the data directory.
const LogFileName = "contact_messages.json"

// Sink is the append-only contact message log, stored as one JSON array.
// Appends within a process are serialized; every write replaces the file atomically.
type Sink struct {
	mu    sync.Mutex
	files storage.Provider
}

// NewSink creates a sink writing to LogFileName under files.
func NewSink(files storage.Provider) *Sink {
	return &Sink{files: files}
}

// Append adds msg as the last entry of the log. A log that cannot be decoded is left
// untouched and the append fails with apperr.ErrStorageUnavailable.
func (s *Sink) Append(msg models.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.read()
	if err != nil {
		return err
	}
	messages = append(messages, msg)

	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return fmt.Errorf("contact: encode log: %w", err)
	}
	if err := s.files.Write(LogFileName, data); err != nil {
		return fmt.Errorf("%w: contact: write log: %w", apperr.ErrStorageUnavailable, err)
	}
	return nil
}

// ListAll returns every logged message, oldest first.
func (s *Sink) ListAll() ([]models.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Count returns the number of logged messages.
func (s *Sink) Count() (int, error) {
	messages, err := s.ListAll()
	if err != nil {
		return 0, err
	}
	return len(messages), nil
}

func (s *Sink) read() ([]models.ContactMessage, error) {
	data, err := s.files.Read(LogFileName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.ContactMessage{}, nil
		}
		return nil, fmt.Errorf("%w: contact: read log: %w", apperr.ErrStorageUnavailable, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.ContactMessage{}, nil
	}
	var messages []models.ContactMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("%w: contact: decode log: %w", apperr.ErrStorageUnavailable, err)
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}
	return messages, nil
}
