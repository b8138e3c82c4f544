package gemini

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/johanvictor/FinDocAPI/internal/analysis/llm"
	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/internal/metrics"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

// GetGeminiClient is the alternate analysis provider, selected with
// config.AnalysisProvider = "gemini".
func GetGeminiClient(ctx context.Context, modelName string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, modelName string) {
	apikey := os.Getenv("GEMINI_API_KEY")
	if apikey == "" {
		logger.Error("GEMINI_API_KEY not found in the environment")
		return
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName}
		logger.Info("Gemini client created", "model", modelName)
		go closeClient(ctx, geminiClient)
	}
}

func (c *llmClient) Analyze(ctx context.Context, systemPrompt string, corpus string) (string, llm.Usage, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("analysis_model", time.Since(start)) }()

	systemInstruction := &genai.Content{
		Parts: []*genai.Part{
			{Text: systemPrompt},
		},
	}
	temperature := float32(config.ModelTemperature)
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       &temperature,
	}

	userPrompt := llm.UserPromptPrefix + corpus + llm.UserPromptSuffix
	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(userPrompt), contentConfig)
	if err != nil {
		logger.Error("analysis call failed", "error", err)
		return "", llm.Usage{}, err
	}
	if result == nil {
		return "", llm.Usage{}, errors.New("empty gemini response")
	}

	var usage llm.Usage
	if result.UsageMetadata != nil {
		usage = llm.Usage{
			PromptTokens:     int64(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int64(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int64(result.UsageMetadata.TotalTokenCount),
		}
	}
	return result.Text(), usage, nil
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.modelName = ""
}
