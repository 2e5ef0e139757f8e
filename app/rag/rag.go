package rag

import "context"

// Case is one resolved interview: the problem as the user stated it and the
// diagnosis the assistant produced for it.
type Case struct {
	ID        string
	Problem   string
	Diagnosis string
}

type Interface interface {
	Search(ctx context.Context, problem string, k int) ([]Case, error)
	SaveCase(ctx context.Context, c Case) error
	Init(ctx context.Context) error
	Close() error
}

type vectorStore interface {
	Upsert(ctx context.Context, c Case, vector []float32) error
	Query(ctx context.Context, vector []float32, k int) ([]Case, error)
	Init(ctx context.Context, vectorSize int) (bool, error)
	Close() error
}
