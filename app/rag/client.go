package rag

import (
	"context"

	"github.com/google/uuid"

	"GoAdvisorAI/app/models"
)

const (
	// all-MiniLM-L6-v2 sized; override via NewClientWithSize for other
	// embedding models.
	defaultVectorSize = 384

	defaultCollection = "cases"
)

type Client struct {
	vectors    vectorStore
	model      models.Interface
	vectorSize int
}

func NewClient(model models.Interface, collection string) (Interface, error) {
	return NewClientWithSize(model, collection, defaultVectorSize)
}

func NewClientWithSize(model models.Interface, collection string, vectorSize int) (Interface, error) {
	if collection == "" {
		collection = defaultCollection
	}
	if vectorSize <= 0 {
		vectorSize = defaultVectorSize
	}
	vectors, err := NewQdrantStore(collection)
	if err != nil {
		return nil, err
	}
	return &Client{
		model:      model,
		vectors:    vectors,
		vectorSize: vectorSize,
	}, nil
}

func (c *Client) Init(ctx context.Context) error {
	_, err := c.vectors.Init(ctx, c.vectorSize)
	return err
}

func (c *Client) Search(ctx context.Context, problem string, k int) ([]Case, error) {
	vec, err := c.model.EmbedText(ctx, problem)
	if err != nil {
		return nil, err
	}
	return c.vectors.Query(ctx, vec, k)
}

func (c *Client) SaveCase(ctx context.Context, cs Case) error {
	if cs.ID == "" {
		cs.ID = uuid.New().String()
	}
	vec, err := c.model.EmbedText(ctx, cs.Problem)
	if err != nil {
		return err
	}
	return c.vectors.Upsert(ctx, cs, vec)
}

func (c *Client) Close() error {
	return c.vectors.Close()
}
