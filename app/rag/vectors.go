package rag

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

func NewQdrantStore(collection string) (vectorStore, error) {
	url := os.Getenv("QDRANT_URL")
	port, _ := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if url == "" {
		url = "localhost"
	}
	if port == 0 {
		port = 6334
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: url,
		Port: port,
	})
	if err != nil {
		return nil, err
	}
	return &QdrantStore{
		client:     client,
		collection: collection,
	}, nil
}

func (s *QdrantStore) Init(ctx context.Context, vectorSize int) (bool, error) {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return false, err
	}
	if !exists {
		if err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: &qdrant.VectorsConfig{
				Config: &qdrant.VectorsConfig_Params{
					Params: &qdrant.VectorParams{
						Size:     uint64(vectorSize),
						Distance: qdrant.Distance_Cosine,
					},
				},
			},
		}); err != nil {
			return exists, fmt.Errorf("create collection: %w", err)
		}
	}
	return exists, nil
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

func (s *QdrantStore) Upsert(ctx context.Context, c Case, vector []float32) error {
	id := c.ID
	if id == "" {
		id = uuid.New().String()
	}

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDUUID(id),
		Vectors: qdrant.NewVectors(vector...),
		Payload: qdrant.NewValueMap(map[string]any{
			"problem":   c.Problem,
			"diagnosis": c.Diagnosis,
		}),
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         []*qdrant.PointStruct{point},
	})

	return err
}

func (s *QdrantStore) Query(ctx context.Context, vector []float32, k int) ([]Case, error) {
	limit := uint64(k)
	resp, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Limit:          &limit,
		Query:          qdrant.NewQuery(vector...),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, err
	}

	var out []Case
	for _, r := range resp {
		c := Case{}
		if v, ok := r.Payload["problem"]; ok {
			c.Problem = v.GetStringValue()
		}
		if v, ok := r.Payload["diagnosis"]; ok {
			c.Diagnosis = v.GetStringValue()
		}
		if r.Id != nil {
			switch x := r.Id.PointIdOptions.(type) {
			case *qdrant.PointId_Uuid:
				c.ID = x.Uuid
			case *qdrant.PointId_Num:
				c.ID = fmt.Sprintf("%d", x.Num)
			}
		}
		out = append(out, c)
	}

	return out, nil
}
