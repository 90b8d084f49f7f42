// Package database provides feature annotation lookups for interactive
// heatmap sessions. A Database resolves a feature identifier to the
// annotations known for it; annotatable backends additionally accept new
// annotations for a set of features.
package database

import (
	"context"
	"sort"
	"strings"
	"sync"

	seqerrors "github.com/mhelland/seqheat/pkg/errors"
)

// Annotation is a single piece of knowledge attached to a feature.
type Annotation struct {
	// ID identifies the annotation within its backend.
	ID string `bson:"_id,omitempty" json:"id,omitempty"`
	// Description is the human-readable annotation text.
	Description string `bson:"description" json:"description"`
	// Type classifies the annotation (e.g. "common", "highfreq", "diffexp").
	Type string `bson:"type,omitempty" json:"type,omitempty"`
	// Details holds backend-specific key/value pairs.
	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}

// Database looks up annotations for features.
type Database interface {
	// DatabaseName returns the registry name of the backend.
	DatabaseName() string

	// Annotatable reports whether AddAnnotation is supported.
	Annotatable() bool

	// Annotations returns the annotations known for a feature. A feature
	// with no annotations yields an empty slice, not an error.
	Annotations(ctx context.Context, featureID string) ([]Annotation, error)

	// AddAnnotation attaches an annotation to a set of features. Backends
	// that report Annotatable() == false return an UNSUPPORTED error.
	AddAnnotation(ctx context.Context, featureIDs []string, ann Annotation) error
}

// =============================================================================
// Registry
// =============================================================================

// Opener constructs a backend from its registry name.
type Opener func(ctx context.Context) (Database, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Opener{}
)

// Register makes a backend available to Open under the given name.
// Registering the same name twice replaces the previous opener.
func Register(name string, open Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = open
}

// Open constructs the named backend, failing with the list of registered
// names when the name is unknown.
func Open(ctx context.Context, name string) (Database, error) {
	registryMu.RLock()
	open, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, seqerrors.New(seqerrors.ErrCodeInvalidDatabase,
			"unknown database %q (registered: %s)", name, strings.Join(Names(), ", "))
	}
	return open(ctx)
}

// Names returns the registered backend names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
