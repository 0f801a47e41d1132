package openaiLLM

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/anveshk/workflowgen/internal/config"
	"github.com/anveshk/workflowgen/internal/customHttpClient"
	"github.com/anveshk/workflowgen/internal/rag/llm"
	"github.com/anveshk/workflowgen/internal/rag/ragerr"
	"github.com/anveshk/workflowgen/pkg/applog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

type llmClient struct {
	openAi    openai.Client
	modelName string
}

var logger *applog.Logger
var openAIClient *llmClient
var once sync.Once

var errNoChoices = errors.New("completion response carried no choices")

func GetOpenAIClient(modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = applog.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OpenAI API key is empty")
			return
		}
		openAIClient = &llmClient{
			openAi:    openai.NewClient(option.WithAPIKey(apikey), option.WithHTTPClient(customHttpClient.Client())),
			modelName: modelName,
		}
		logger.Info("OpenAI client created")
	})

	if openAIClient == nil {
		return nil
	}
	return &llmClient{openAi: openAIClient.openAi, modelName: openAIClient.modelName}
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	resp, err := c.openAi.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(c.modelName),
	})
	if err != nil {
		log.Error("OpenAI generation failed", "error", err)
		return "", ragerr.Upstream("openai", err)
	}
	if len(resp.Choices) == 0 {
		return "", ragerr.Upstream("openai", errNoChoices)
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateStructured asks for a JSON object response; the model is
// told the exact fields in the prompt. Parse failures are reported as
// ErrMalformedDecision so the router's fail-open default can absorb
// them.
func (c *llmClient) GenerateStructured(ctx context.Context, prompt string) (llm.Decision, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	resp, err := c.openAi.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt + "\nRespond with a JSON object of the form {\"category\": string, \"reasoning\": string}."),
		},
		Model: openai.ChatModel(c.modelName),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		log.Error("OpenAI structured generation failed", "error", err)
		return llm.Decision{}, ragerr.Upstream("openai", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Decision{}, ragerr.Upstream("openai", errNoChoices)
	}

	var decision llm.Decision
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &decision); err != nil {
		log.Warn("OpenAI returned unparsable decision", "error", err)
		return llm.Decision{}, fmt.Errorf("%w: %v", llm.ErrMalformedDecision, err)
	}
	return decision, nil
}
