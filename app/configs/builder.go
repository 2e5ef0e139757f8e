package configs

import (
	"os"
	"time"

	"GoAdvisorAI/app/dialogue"
	"GoAdvisorAI/app/models"
	"GoAdvisorAI/app/rag"
)

const defaultWarmupDelay = 10 * time.Second

func (c *Config) BuildModel() *models.HFClient {
	name := c.Model.Name
	if envModel := os.Getenv("HF_MODEL"); envModel != "" {
		name = envModel
	}
	token := c.Model.Token
	if token == "" {
		token = os.Getenv("HUGGINGFACEHUB_API_TOKEN")
	}

	warmup := models.WarmupRetry{Delay: defaultWarmupDelay, MaxAttempts: 1}
	if c.Model.WarmupDelaySeconds > 0 {
		warmup.Delay = time.Duration(c.Model.WarmupDelaySeconds) * time.Second
	}

	return models.NewHFClient(name, c.Cases.EmbeddingsModel, token, warmup,
		time.Duration(c.Model.TimeoutSeconds)*time.Second)
}

func (c *Config) GenerationOptions() models.GenerationOptions {
	return models.GenerationOptions{
		MaxNewTokens:      c.Model.MaxNewTokens,
		Temperature:       c.Model.Temperature,
		TopP:              c.Model.TopP,
		RepetitionPenalty: c.Model.RepetitionPenalty,
	}
}

func (c *Config) BuildFlow() dialogue.Flow {
	flow := dialogue.Flow{
		Persona:                  c.Flow.Persona,
		Encoding:                 models.Encoding(c.Flow.Encoding),
		PersistHiddenInstruction: c.Flow.PersistHiddenInstruction,
	}
	for _, st := range c.Flow.Stages {
		flow.Stages = append(flow.Stages, dialogue.StageSpec{
			Name:         st.Name,
			Instruction:  st.Instruction,
			MaxNewTokens: st.MaxNewTokens,
		})
	}
	return flow
}

func (c *Config) BuildController(model models.Interface, cases rag.Interface) (*dialogue.Controller, error) {
	controller, err := dialogue.NewController(c.BuildFlow(), model, c.GenerationOptions())
	if err != nil {
		return nil, err
	}
	if c.Cases.Enabled && cases != nil {
		controller = controller.WithCaseLibrary(cases, c.Cases.TopK)
	}
	return controller, nil
}

// Default is the built-in quality-management interview used when no
// config.yaml is present: collect the problem, clarify it with 5W1H
// questions, then diagnose root causes and corrective actions.
func Default() *Config {
	return &Config{
		AppName: "GoAdvisorAI Assistant",
		Model: ModelConfig{
			Name: "HuggingFaceH4/zephyr-7b-beta",
		},
		Flow: FlowConfig{
			Encoding: string(models.EncodingInterleave),
			Persona: "You are an experienced quality manager of 30 years. " +
				"Guide me using 4M and the 8D problem solving process to address the issue, " +
				"and assist me in developing interim containment actions. " +
				"Follow subsequent instructions carefully.",
			Stages: []StageConfig{
				{
					Name: "awaiting_problem",
					Instruction: "Ask focused clarifying questions about the problem using the 5W1H method " +
						"(who, what, when, where, why, how). Ask only the questions needed to narrow the problem down. " +
						"Do not propose root causes or solutions yet.",
					MaxNewTokens: 256,
				},
				{
					Name: "awaiting_clarification",
					Instruction: "Analyse the conversation so far.\n" +
						"1. List the most plausible root causes of the user's problem (bulleted).\n" +
						"2. For each cause, suggest practical solutions or next steps.\n" +
						"3. Keep the tone professional and concise.",
					MaxNewTokens: 512,
				},
			},
		},
	}
}
