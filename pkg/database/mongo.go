package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	seqerrors "github.com/mhelland/seqheat/pkg/errors"
	"github.com/mhelland/seqheat/pkg/observability"
)

// MongoConfig configures a MongoDB annotation backend.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string
	// Database is the database name, defaulting to "seqheat".
	Database string
	// Collection is the annotation collection, defaulting to "annotations".
	Collection string
	// ReadOnly disables AddAnnotation.
	ReadOnly bool
	// Timeout bounds individual operations, defaulting to 10s.
	Timeout time.Duration
}

// Mongo looks up annotations in a MongoDB collection. Documents hold one
// annotation per feature:
//
//	{_id, feature, description, type, details}
type Mongo struct {
	name       string
	client     *mongo.Client
	collection *mongo.Collection
	readOnly   bool
	timeout    time.Duration
}

type mongoDoc struct {
	ID          string            `bson:"_id"`
	Feature     string            `bson:"feature"`
	Description string            `bson:"description"`
	Type        string            `bson:"type,omitempty"`
	Details     map[string]string `bson:"details,omitempty"`
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, name string, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, seqerrors.New(seqerrors.ErrCodeInvalidInput, "mongodb uri is empty")
	}
	if cfg.Database == "" {
		cfg.Database = "seqheat"
	}
	if cfg.Collection == "" {
		cfg.Collection = "annotations"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, seqerrors.Wrap(seqerrors.ErrCodeInternal, err, "connecting to mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, seqerrors.Wrap(seqerrors.ErrCodeInternal, err, "pinging mongodb")
	}

	return &Mongo{
		name:       name,
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		readOnly:   cfg.ReadOnly,
		timeout:    cfg.Timeout,
	}, nil
}

func (m *Mongo) DatabaseName() string { return m.name }

func (m *Mongo) Annotatable() bool { return !m.readOnly }

func (m *Mongo) Annotations(ctx context.Context, featureID string) ([]Annotation, error) {
	start := time.Now()
	observability.Database().OnLookupStart(ctx, m.name, featureID)

	opCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	cursor, err := m.collection.Find(opCtx, bson.M{"feature": featureID})
	if err != nil {
		wrapped := seqerrors.Wrap(seqerrors.ErrCodeInternal, err, "querying annotations for %q", featureID)
		observability.Database().OnLookupComplete(ctx, m.name, featureID, 0, time.Since(start), wrapped)
		return nil, wrapped
	}
	defer cursor.Close(opCtx)

	var out []Annotation
	for cursor.Next(opCtx) {
		var doc mongoDoc
		if err := cursor.Decode(&doc); err != nil {
			wrapped := seqerrors.Wrap(seqerrors.ErrCodeParse, err, "decoding annotation for %q", featureID)
			observability.Database().OnLookupComplete(ctx, m.name, featureID, len(out), time.Since(start), wrapped)
			return nil, wrapped
		}
		out = append(out, Annotation{
			ID:          doc.ID,
			Description: doc.Description,
			Type:        doc.Type,
			Details:     doc.Details,
		})
	}
	if err := cursor.Err(); err != nil {
		wrapped := seqerrors.Wrap(seqerrors.ErrCodeInternal, err, "iterating annotations for %q", featureID)
		observability.Database().OnLookupComplete(ctx, m.name, featureID, len(out), time.Since(start), wrapped)
		return nil, wrapped
	}
	if out == nil {
		out = []Annotation{}
	}
	observability.Database().OnLookupComplete(ctx, m.name, featureID, len(out), time.Since(start), nil)
	return out, nil
}

func (m *Mongo) AddAnnotation(ctx context.Context, featureIDs []string, ann Annotation) error {
	if m.readOnly {
		return seqerrors.New(seqerrors.ErrCodeUnsupported, "database %q is read-only", m.name)
	}
	if ann.Description == "" {
		return seqerrors.New(seqerrors.ErrCodeInvalidInput, "annotation description is empty")
	}
	if len(featureIDs) == 0 {
		return seqerrors.New(seqerrors.ErrCodeInvalidInput, "no features to annotate")
	}

	docs := make([]any, 0, len(featureIDs))
	for _, id := range featureIDs {
		docs = append(docs, mongoDoc{
			ID:          uuid.NewString(),
			Feature:     id,
			Description: ann.Description,
			Type:        ann.Type,
			Details:     ann.Details,
		})
	}

	opCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if _, err := m.collection.InsertMany(opCtx, docs); err != nil {
		return seqerrors.Wrap(seqerrors.ErrCodeInternal, err, "inserting annotations")
	}
	return nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
