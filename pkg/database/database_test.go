package database

import (
	"context"
	"testing"
	"time"

	"github.com/mhelland/seqheat/pkg/cache"
	seqerrors "github.com/mhelland/seqheat/pkg/errors"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := NewMemory("test")

	if !db.Annotatable() {
		t.Fatal("memory backend should be annotatable")
	}

	got, err := db.Annotations(ctx, "AACG")
	if err != nil {
		t.Fatalf("Annotations on empty store: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no annotations, got %d", len(got))
	}

	ann := Annotation{Description: "higher in feces", Type: "diffexp"}
	if err := db.AddAnnotation(ctx, []string{"AACG", "GGTT"}, ann); err != nil {
		t.Fatalf("AddAnnotation: %v", err)
	}

	for _, feature := range []string{"AACG", "GGTT"} {
		got, err := db.Annotations(ctx, feature)
		if err != nil {
			t.Fatalf("Annotations(%q): %v", feature, err)
		}
		if len(got) != 1 {
			t.Fatalf("Annotations(%q) returned %d entries, want 1", feature, len(got))
		}
		if got[0].Description != "higher in feces" {
			t.Errorf("description = %q, want %q", got[0].Description, "higher in feces")
		}
		if got[0].ID == "" {
			t.Error("stored annotation has no generated id")
		}
	}
}

func TestMemoryAddValidation(t *testing.T) {
	ctx := context.Background()
	db := NewMemory("test")

	tests := []struct {
		name     string
		features []string
		ann      Annotation
	}{
		{name: "empty description", features: []string{"AACG"}, ann: Annotation{}},
		{name: "no features", features: nil, ann: Annotation{Description: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := db.AddAnnotation(ctx, tt.features, tt.ann)
			if !seqerrors.Is(err, seqerrors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestOpenUnknownName(t *testing.T) {
	_, err := Open(context.Background(), "no-such-backend")
	if !seqerrors.Is(err, seqerrors.ErrCodeInvalidDatabase) {
		t.Fatalf("error = %v, want INVALID_DATABASE", err)
	}
}

func TestOpenMemory(t *testing.T) {
	db, err := Open(context.Background(), "memory")
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	if db.DatabaseName() != "memory" {
		t.Errorf("name = %q, want %q", db.DatabaseName(), "memory")
	}
}

// countingDB wraps Memory and counts backend lookups so cache hits are
// observable.
type countingDB struct {
	*Memory
	lookups int
}

func (c *countingDB) Annotations(ctx context.Context, featureID string) ([]Annotation, error) {
	c.lookups++
	return c.Memory.Annotations(ctx, featureID)
}

func TestCachedAvoidsRepeatLookups(t *testing.T) {
	ctx := context.Background()
	inner := &countingDB{Memory: NewMemory("test")}
	if err := inner.AddAnnotation(ctx, []string{"AACG"}, Annotation{Description: "common"}); err != nil {
		t.Fatal(err)
	}

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	db := NewCached(inner, fc, time.Minute)

	for i := 0; i < 3; i++ {
		got, err := db.Annotations(ctx, "AACG")
		if err != nil {
			t.Fatalf("lookup %d: %v", i, err)
		}
		if len(got) != 1 || got[0].Description != "common" {
			t.Fatalf("lookup %d returned %+v", i, got)
		}
	}
	if inner.lookups != 1 {
		t.Errorf("backend lookups = %d, want 1", inner.lookups)
	}
}

func TestCachedInvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	inner := &countingDB{Memory: NewMemory("test")}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	db := NewCached(inner, fc, time.Minute)

	if _, err := db.Annotations(ctx, "AACG"); err != nil {
		t.Fatal(err)
	}
	if err := db.AddAnnotation(ctx, []string{"AACG"}, Annotation{Description: "new"}); err != nil {
		t.Fatal(err)
	}
	got, err := db.Annotations(ctx, "AACG")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Description != "new" {
		t.Errorf("post-write lookup = %+v, want the new annotation", got)
	}
}
