package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"GoAdvisorAI/app/utils/restclient"
)

const (
	modelsEndpoint            = "/models/"
	featureExtractionEndpoint = "/pipeline/feature-extraction/"

	defaultBaseURL = "https://api-inference.huggingface.co"
	defaultTimeout = 180 * time.Second
)

var _ Interface = &HFClient{}

// WarmupRetry bounds the recovery from the endpoint's "model is loading"
// answer: wait Delay once per allowed attempt, never indefinitely. The zero
// value disables retrying.
type WarmupRetry struct {
	Delay       time.Duration
	MaxAttempts int
}

type HFClient struct {
	restClient      *restclient.RestClient
	cache           sync.Map
	model           string
	embeddingsModel string
	warmup          WarmupRetry
	timeout         time.Duration
}

func NewHFClient(model, embeddingsModel, token string, warmup WarmupRetry, timeout time.Duration) *HFClient {
	baseURL := os.Getenv("HF_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"Authorization": "Bearer " + token}
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HFClient{
		restClient:      restclient.NewRestClient(baseURL, headers),
		model:           model,
		embeddingsModel: embeddingsModel,
		warmup:          warmup,
		timeout:         timeout,
	}
}

// Generate sends one flat prompt to the hosted text-generation endpoint and
// returns only the newly generated text, with the echoed prompt stripped.
func (mc *HFClient) Generate(ctx context.Context, prompt string, opts GenerationOptions) (string, error) {
	opts = opts.withDefaults()
	payload := generateRequest{
		Inputs: prompt,
		Parameters: generationParameters{
			MaxNewTokens:      opts.MaxNewTokens,
			Temperature:       opts.Temperature,
			TopP:              opts.TopP,
			RepetitionPenalty: opts.RepetitionPenalty,
			DoSample:          true,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, mc.timeout)
	defer cancel()

	attempts := 1 + mc.warmup.MaxAttempts
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			log.Printf("⏳ Model is loading on the inference server, retrying in %s", mc.warmup.Delay)
			select {
			case <-ctx.Done():
				return "", contextFailure(ctx)
			case <-time.After(mc.warmup.Delay):
			}
		}

		body, status, err := mc.restClient.Post(ctx, modelsEndpoint+mc.model, payload, nil)
		if err != nil {
			if ctxErr := contextFailure(ctx); ctxErr != nil {
				return "", ctxErr
			}
			return "", fmt.Errorf("%w: %v", ErrNetwork, err)
		}

		switch {
		case status == http.StatusServiceUnavailable:
			lastErr = fmt.Errorf("%w: %s", ErrServiceUnavailable, endpointError(body))
			continue
		case status >= http.StatusBadRequest:
			return "", fmt.Errorf("%w: HTTP %d: %s", ErrService, status, endpointError(body))
		}

		var outputs []generatedText
		if err = json.Unmarshal(body, &outputs); err != nil {
			return "", fmt.Errorf("%w: malformed completion payload: %v", ErrService, err)
		}
		if len(outputs) == 0 {
			return "", fmt.Errorf("%w: endpoint returned no generations", ErrService)
		}
		return stripPromptEcho(outputs[0].GeneratedText, prompt), nil
	}

	return "", lastErr
}

func contextFailure(ctx context.Context) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrCompletionTimeout, ctx.Err())
	case errors.Is(ctx.Err(), context.Canceled):
		return ctx.Err()
	}
	return nil
}

func endpointError(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		return er.Error
	}
	return string(body)
}

// The endpoint echoes the prompt at the head of generated_text.
func stripPromptEcho(full, prompt string) string {
	return strings.TrimLeft(strings.TrimPrefix(full, prompt), " \t\r\n")
}
