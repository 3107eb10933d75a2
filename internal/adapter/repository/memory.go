package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"resume-export/internal/domain"
	"resume-export/internal/model"

	"github.com/google/uuid"
)

// MemoryResumes keeps resumes in process when no database is configured.
// Documents are stored encoded so callers never share mutable state.
type MemoryResumes struct {
	mu   sync.RWMutex
	docs map[uuid.UUID][]byte
}

func NewMemoryResumes() *MemoryResumes {
	return &MemoryResumes{docs: map[uuid.UUID][]byte{}}
}

func (m *MemoryResumes) Save(_ context.Context, r *model.Resume) error {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	doc, err := json.Marshal(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[r.ID] = doc
	m.mu.Unlock()
	return nil
}

func (m *MemoryResumes) Get(_ context.Context, id uuid.UUID) (*model.Resume, error) {
	m.mu.RLock()
	doc, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	var r model.Resume
	if err := json.Unmarshal(doc, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

type MemoryExports struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]domain.ExportJob
}

func NewMemoryExports() *MemoryExports {
	return &MemoryExports{jobs: map[uuid.UUID]domain.ExportJob{}}
}

func (m *MemoryExports) Save(_ context.Context, j *domain.ExportJob) error {
	cp := *j
	cp.Metadata = make(map[string]interface{}, len(j.Metadata))
	for k, v := range j.Metadata {
		cp.Metadata[k] = v
	}
	m.mu.Lock()
	m.jobs[j.ID] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryExports) Get(_ context.Context, id uuid.UUID) (*domain.ExportJob, error) {
	m.mu.RLock()
	j, ok := m.jobs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	meta := make(map[string]interface{}, len(j.Metadata))
	for k, v := range j.Metadata {
		meta[k] = v
	}
	j.Metadata = meta
	return &j, nil
}
