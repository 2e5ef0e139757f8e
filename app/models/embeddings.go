package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

const embeddingRetries = 3

// EmbedText runs the feature-extraction pipeline for one input and returns
// its vector. Vectors are cached per input text for the client's lifetime.
func (mc *HFClient) EmbedText(ctx context.Context, input string) ([]float32, error) {
	if v, ok := mc.cache.Load(input); ok {
		if emb, ok2 := v.([]float32); ok2 {
			return emb, nil
		}
	}

	if mc.embeddingsModel == "" {
		return nil, errors.New("embeddings model is empty; configure HFClient.embeddingsModel")
	}

	vectors, err := mc.sendEmbeddings(ctx, embeddingRequest{Inputs: []string{input}}, embeddingRetries)
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	emb := vectors[0]
	mc.cache.Store(input, emb)
	return emb, nil
}

func (mc *HFClient) sendEmbeddings(ctx context.Context, payload embeddingRequest, maxRetries int) ([][]float32, error) {
	var (
		lastErr error
		body    []byte
		status  int
		out     [][]float32
	)

	for i := 0; i < maxRetries; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if i > 0 {
			sleep := time.Duration(100*(1<<uint(i))) * time.Millisecond
			sleep += time.Duration(time.Now().UnixNano() % int64(100*time.Millisecond))
			time.Sleep(sleep)
		}

		b, s, err := mc.restClient.Post(ctx, featureExtractionEndpoint+mc.embeddingsModel, payload, nil)
		body, status, lastErr = b, s, err
		if err != nil {
			log.Printf("⚠️ embed attempt %d failed: http=%d err=%v", i+1, status, err)
			continue
		}
		if status != 200 {
			lastErr = fmt.Errorf("embeddings endpoint HTTP %d: %s", status, endpointError(body))
			log.Printf("⚠️ %v", lastErr)
			continue
		}
		if err := json.Unmarshal(body, &out); err != nil {
			lastErr = fmt.Errorf("parse embeddings json: %w", err)
			log.Printf("⚠️ %v", lastErr)
			continue
		}

		return out, nil
	}
	return nil, fmt.Errorf("embeddings request failed after %d retries: %w", maxRetries, lastErr)
}
