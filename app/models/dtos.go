package models

type generationParameters struct {
	MaxNewTokens      int     `json:"max_new_tokens"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	DoSample          bool    `json:"do_sample"`
}

type generateRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters generationParameters `json:"parameters"`
}

type generatedText struct {
	GeneratedText string `json:"generated_text"`
}

// errorResponse is the endpoint's JSON error envelope; EstimatedTime is only
// present on the 503 "model is loading" answer.
type errorResponse struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

type embeddingRequest struct {
	Inputs []string `json:"inputs"`
}
