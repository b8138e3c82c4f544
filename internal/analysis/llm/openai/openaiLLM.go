package openai

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/johanvictor/FinDocAPI/internal/analysis/llm"
	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/internal/customHttpClient"
	"github.com/johanvictor/FinDocAPI/internal/metrics"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

type llmClient struct {
	client      openai.Client
	model       string
	visionModel string
}

var logger *logger_i.Logger
var openAIClient *llmClient
var once sync.Once

// GetOpenAIClient builds the shared OpenAI client. It serves both collaborator
// roles: the text analysis model and the vision transcription model.
func GetOpenAIClient(ctx context.Context) *llmClient {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		newOpenAIClient(ctx)
	})

	if openAIClient == nil {
		return nil
	}
	return openAIClient
}

func newOpenAIClient(ctx context.Context) {
	apikey := os.Getenv("OPENAI_API_KEY")
	if apikey == "" {
		logger.Error("OPENAI_API_KEY not found in the environment")
		return
	}

	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithHTTPClient(customHttpClient.GetPooledClient()),
	)
	openAIClient = &llmClient{
		client:      c,
		model:       config.OpenAIAnalysisModel,
		visionModel: config.OpenAIVisionModel,
	}
	logger.Info("OpenAI client created", "model", config.OpenAIAnalysisModel)
	go closeClient(ctx, openAIClient)
}

func closeClient(ctx context.Context, c *llmClient) {
	<-ctx.Done()
	logger.Info("Closing OpenAI client")
	c.model = ""
	c.visionModel = ""
}

// Analyze submits the assembled corpus for the financial analysis call and
// returns the free-text report plus the provider's token counters.
func (c *llmClient) Analyze(ctx context.Context, systemPrompt string, corpus string) (string, llm.Usage, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("analysis_model", time.Since(start)) }()

	userPrompt := llm.UserPromptPrefix + corpus + llm.UserPromptSuffix

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       c.model,
		Temperature: openai.Float(config.ModelTemperature),
		MaxTokens:   openai.Int(config.AnalysisMaxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		logger.Error("analysis call failed", "error", err)
		return "", llm.Usage{}, fmt.Errorf("openai analysis: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", llm.Usage{}, errors.New("no choices in openai response")
	}

	usage := llm.Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	logger.Info("analysis finished", "prompt_tokens", usage.PromptTokens, "completion_tokens", usage.CompletionTokens)
	return resp.Choices[0].Message.Content, usage, nil
}

const visionSystemPrompt = "Você é um assistente especializado em extrair e formatar informações de documentos financeiros e empresariais. " +
	"Formate o conteúdo de maneira organizada e estruturada, similar a markdown, preservando todos os dados " +
	"e tabelas importantes. Mantenha a estrutura hierárquica do documento."

// Transcribe sends all page images of one document in a single vision call and
// treats the response as the document's extracted content.
func (c *llmClient) Transcribe(ctx context.Context, filename string, base64Images []string) (string, error) {
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(fmt.Sprintf(
			"Analise este documento '%s' e extraia todo o conteúdo textual, mantendo a estrutura e formatação. "+
				"Organize em formato estruturado similar a markdown, preservando tabelas e seções.", filename)),
	}
	for _, img := range base64Images {
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: "data:image/png;base64," + img,
		}))
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     c.visionModel,
		MaxTokens: openai.Int(config.VisionMaxTokens),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(visionSystemPrompt),
			openai.UserMessage(parts),
		},
	})
	if err != nil {
		logger.Error("vision call failed", "filename", filename, "error", err)
		return "", fmt.Errorf("openai vision: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in openai vision response")
	}
	return resp.Choices[0].Message.Content, nil
}
