package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// document is the persisted layout: the whole collection plus the id counter.
type document struct {
	Entities []json.RawMessage `json:"entities"`
	NextID   uint              `json:"nextId"`
}

// FileStore persists one entity type as a single pretty-printed JSON document
// with an in-memory cache of every record. Every mutation rewrites the whole
// file; there is no write batching and no atomic rename, so a crash mid-write
// can corrupt the file. A mutex serializes all access because request
// handlers run on separate goroutines.
type FileStore[T any, PT Pointer[T]] struct {
	path   string
	logger *zap.SugaredLogger

	mu      sync.Mutex
	records []PT
	nextID  uint
}

// NewFileStore loads the backing file if present. A missing file starts an
// empty collection with the counter at 1; an unreadable or unparsable file is
// logged and recovered the same way rather than failing construction.
func NewFileStore[T any, PT Pointer[T]](path string, logger *zap.SugaredLogger) *FileStore[T, PT] {
	s := &FileStore[T, PT]{
		path:   path,
		logger: logger,
		nextID: 1,
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warnw("create data directory", "path", path, "error", err)
	}
	s.load()
	return s
}

func (s *FileStore[T, PT]) load() {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		s.logger.Warnw("read store file, starting empty", "path", s.path, "error", err)
		return
	}

	entities, nextID, err := decodeDocument(raw)
	if err != nil {
		s.logger.Warnw("parse store file, starting empty", "path", s.path, "error", err)
		return
	}

	records := make([]PT, 0, len(entities))
	for _, entity := range entities {
		record := PT(new(T))
		if err := json.Unmarshal(entity, record); err != nil {
			s.logger.Warnw("parse store record, starting empty", "path", s.path, "error", err)
			return
		}
		records = append(records, record)
	}

	s.records = records
	s.nextID = nextID
}

// decodeDocument accepts both persisted layouts: the {entities, nextId}
// envelope and the bare array, for which nextId is derived as max(id)+1.
func decodeDocument(raw []byte) ([]json.RawMessage, uint, error) {
	var bare []json.RawMessage
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, deriveNextID(bare), nil
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, 0, fmt.Errorf("unrecognized store layout: %w", err)
	}
	if doc.NextID == 0 {
		doc.NextID = deriveNextID(doc.Entities)
	}
	return doc.Entities, doc.NextID, nil
}

func deriveNextID(entities []json.RawMessage) uint {
	next := uint(1)
	for _, entity := range entities {
		var probe struct {
			ID uint `json:"id"`
		}
		if err := json.Unmarshal(entity, &probe); err != nil {
			continue
		}
		if probe.ID >= next {
			next = probe.ID + 1
		}
	}
	return next
}

// save rewrites the whole collection. Callers must hold the mutex and roll
// back their in-memory mutation on error so memory never diverges from disk.
func (s *FileStore[T, PT]) save() error {
	entities := make([]json.RawMessage, 0, len(s.records))
	for _, record := range s.records {
		raw, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		entities = append(entities, raw)
	}

	raw, err := json.MarshalIndent(document{Entities: entities, NextID: s.nextID}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store document: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		s.logger.Errorw("write store file", "path", s.path, "error", err)
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}

func (s *FileStore[T, PT]) FindAll(_ context.Context) ([]PT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]PT, 0, len(s.records))
	for _, record := range s.records {
		copied, err := clone[T, PT](record)
		if err != nil {
			return nil, err
		}
		snapshot = append(snapshot, copied)
	}
	return snapshot, nil
}

func (s *FileStore[T, PT]) FindByID(_ context.Context, id uint) (PT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records {
		if record.EntityID() == id {
			return clone[T, PT](record)
		}
	}
	return nil, nil
}

func (s *FileStore[T, PT]) FindBy(_ context.Context, criteria map[string]any) ([]PT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []PT
	for _, record := range s.records {
		fields, err := toMap(record)
		if err != nil {
			return nil, err
		}
		matched := true
		for key, want := range criteria {
			if !jsonEqual(fields[key], want) {
				matched = false
				break
			}
		}
		if matched {
			copied, err := clone[T, PT](record)
			if err != nil {
				return nil, err
			}
			matches = append(matches, copied)
		}
	}
	return matches, nil
}

// Create assigns the next id and persists the whole collection before
// acknowledging. The counter is monotonic: ids are never reused, even after
// deletions.
func (s *FileStore[T, PT]) Create(_ context.Context, record PT) (PT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.SetEntityID(s.nextID)
	stored, err := clone[T, PT](record)
	if err != nil {
		return nil, err
	}

	s.nextID++
	s.records = append(s.records, stored)
	if err := s.save(); err != nil {
		s.records = s.records[:len(s.records)-1]
		s.nextID--
		return nil, err
	}
	return record, nil
}

func (s *FileStore[T, PT]) Update(_ context.Context, id uint, patch map[string]any) (PT, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := slices.IndexFunc(s.records, func(record PT) bool {
		return record.EntityID() == id
	})
	if index == -1 {
		return nil, nil
	}

	merged, err := mergePatch[T, PT](s.records[index], patch)
	if err != nil {
		return nil, err
	}

	previous := s.records[index]
	s.records[index] = merged
	if err := s.save(); err != nil {
		s.records[index] = previous
		return nil, err
	}
	return clone[T, PT](merged)
}

func (s *FileStore[T, PT]) Delete(_ context.Context, id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := slices.IndexFunc(s.records, func(record PT) bool {
		return record.EntityID() == id
	})
	if index == -1 {
		return false, nil
	}

	removed := s.records[index]
	s.records = slices.Delete(s.records, index, index+1)
	if err := s.save(); err != nil {
		s.records = slices.Insert(s.records, index, removed)
		return false, err
	}
	return true, nil
}
