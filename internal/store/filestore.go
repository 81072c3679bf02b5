// Package store persists the whole portal database as a single JSON document.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"feedback_portal/internal/model"
)

// Document is the whole database
type Document struct {
	Users     []model.User
	Feedbacks []model.Feedback
}

// documentFile is the on-disk shape. Passwords are persisted here even though
// model.User never renders them.
type documentFile struct {
	Users     []userRecord     `json:"users"`
	Feedbacks []model.Feedback `json:"feedbacks"`
}

type userRecord struct {
	model.User
	Password string `json:"password"`
}

// FileStore reads and rewrites the document file on every call. A single
// FileStore must own the file inside a process: Update holds its mutex across
// the read-modify-write so concurrent requests cannot lose each other's writes.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a FileStore backed by path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Init creates the document file with empty collections when it does not exist.
func (s *FileStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat database file: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	return s.save(&Document{})
}

// Load reads and parses the whole document.
func (s *FileStore) Load(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Save overwrites the file with doc.
func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

// View loads the document and passes it to fn under a read lock.
func (s *FileStore) View(ctx context.Context, fn func(doc *Document) error) error {
	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

// Update runs load, fn and save as one critical section. Nothing is written
// when fn returns an error.
func (s *FileStore) Update(ctx context.Context, fn func(doc *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *FileStore) load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database file: %w", err)
	}

	var file documentFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse database file %s: %w", s.path, err)
	}

	doc := &Document{
		Users:     make([]model.User, 0, len(file.Users)),
		Feedbacks: file.Feedbacks,
	}
	for _, rec := range file.Users {
		u := rec.User
		u.Password = rec.Password
		doc.Users = append(doc.Users, u)
	}
	if doc.Feedbacks == nil {
		doc.Feedbacks = []model.Feedback{}
	}
	return doc, nil
}

func (s *FileStore) save(doc *Document) error {
	file := documentFile{
		Users:     make([]userRecord, 0, len(doc.Users)),
		Feedbacks: doc.Feedbacks,
	}
	for _, u := range doc.Users {
		file.Users = append(file.Users, userRecord{User: u, Password: u.Password})
	}
	if file.Feedbacks == nil {
		file.Feedbacks = []model.Feedback{}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode database: %w", err)
	}

	// Write next to the target and rename so readers never see a half-written file.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".db-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp database file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write database file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close database file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace database file: %w", err)
	}
	return nil
}
