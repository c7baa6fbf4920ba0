// Package qdrant provides a VectorIndex adapter backed by a Qdrant
// collection. Points are keyed by content ID so the index mirrors the
// embeddings table one-to-one per model.
package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultHost       = "localhost"
	DefaultPort       = 6334 // gRPC port
	DefaultCollection = "casechain_content"
)

// Config holds configuration for the Qdrant index.
type Config struct {
	// Host is the Qdrant gRPC host (default: localhost).
	Host string

	// Port is the Qdrant gRPC port (default: 6334).
	Port int

	// Collection is the collection name (default: casechain_content).
	Collection string

	// Dimensions is the vector size used when the collection has to be
	// created. Required for EnsureCollection.
	Dimensions int
}

// Index stores and searches content vectors in Qdrant.
type Index struct {
	client     *qdrant.Client
	collection string
	dimensions int
}

// NewIndex creates a new Qdrant-backed vector index.
func NewIndex(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("creating qdrant client: %w", err)
	}

	return &Index{
		client:     client,
		collection: cfg.Collection,
		dimensions: cfg.Dimensions,
	}, nil
}

// EnsureCollection creates the collection if it does not exist yet.
func (i *Index) EnsureCollection(ctx context.Context) error {
	exists, err := i.client.CollectionExists(ctx, i.collection)
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}
	if exists {
		return nil
	}

	err = i.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: i.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(i.dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

// Add inserts or replaces the vector for the given content ID.
func (i *Index) Add(ctx context.Context, contentID string, vector []float32, payload map[string]string) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(contentID),
		Vectors: qdrant.NewVectors(vector...),
	}
	if len(payload) > 0 {
		meta := make(map[string]any, len(payload))
		for k, v := range payload {
			meta[k] = v
		}
		point.Payload = qdrant.NewValueMap(meta)
	}

	_, err := i.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: i.collection,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("upserting point: %w", err)
	}
	return nil
}

// Delete removes a vector from the index.
func (i *Index) Delete(ctx context.Context, contentID string) error {
	_, err := i.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: i.collection,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(contentID)),
	})
	if err != nil {
		return fmt.Errorf("deleting point: %w", err)
	}
	return nil
}

// Search finds the k nearest neighbours to the query vector.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	limit := uint64(k)
	scored, err := i.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.collection,
		Query:          qdrant.NewQuery(query...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}

	hits := make([]driven.VectorHit, 0, len(scored))
	for _, point := range scored {
		hit := driven.VectorHit{
			Score: float64(point.Score),
		}
		if point.Id != nil {
			hit.ContentID = point.Id.GetUuid()
		}
		if point.Payload != nil {
			hit.Payload = make(map[string]string, len(point.Payload))
			for k, v := range point.Payload {
				hit.Payload[k] = v.GetStringValue()
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Close releases the underlying gRPC connection.
func (i *Index) Close() error {
	return i.client.Close()
}
