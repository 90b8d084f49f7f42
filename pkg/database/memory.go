package database

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	seqerrors "github.com/mhelland/seqheat/pkg/errors"
	"github.com/mhelland/seqheat/pkg/observability"
)

// Memory is an in-process annotation store. It is annotatable and safe for
// concurrent use, which makes it the default backend for interactive
// sessions that have no external database configured.
type Memory struct {
	name string

	mu          sync.RWMutex
	annotations map[string][]Annotation
}

// NewMemory creates an empty in-process store registered under name.
func NewMemory(name string) *Memory {
	if name == "" {
		name = "memory"
	}
	return &Memory{
		name:        name,
		annotations: make(map[string][]Annotation),
	}
}

func (m *Memory) DatabaseName() string { return m.name }

func (m *Memory) Annotatable() bool { return true }

func (m *Memory) Annotations(ctx context.Context, featureID string) ([]Annotation, error) {
	start := time.Now()
	observability.Database().OnLookupStart(ctx, m.name, featureID)

	m.mu.RLock()
	stored := m.annotations[featureID]
	m.mu.RUnlock()

	out := make([]Annotation, len(stored))
	copy(out, stored)
	observability.Database().OnLookupComplete(ctx, m.name, featureID, len(out), time.Since(start), nil)
	return out, nil
}

func (m *Memory) AddAnnotation(ctx context.Context, featureIDs []string, ann Annotation) error {
	if ann.Description == "" {
		return seqerrors.New(seqerrors.ErrCodeInvalidInput, "annotation description is empty")
	}
	if len(featureIDs) == 0 {
		return seqerrors.New(seqerrors.ErrCodeInvalidInput, "no features to annotate")
	}
	if ann.ID == "" {
		ann.ID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range featureIDs {
		m.annotations[id] = append(m.annotations[id], ann)
	}
	return nil
}

func init() {
	Register("memory", func(ctx context.Context) (Database, error) {
		return NewMemory("memory"), nil
	})
}
