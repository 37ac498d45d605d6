package commitmsg

import (
	"context"
	"strings"

	"github.com/billxc/git-file-vault/pkg/config"
	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const completionsSuffix = "/chat/completions"

// OpenAI generates messages with any OpenAI compatible chat-completion API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI builds a provider from the ai section of the configuration.
// The endpoint may be either the API base URL or the full
// .../chat/completions URL.
func NewOpenAI(cfg config.AI, opts ...option.RequestOption) (*OpenAI, error) {
	if !cfg.Enabled() {
		return nil, errors.New(errors.ErrInvalidInput, "ai.endpoint, ai.api_key and ai.model must all be set")
	}
	base := strings.TrimSuffix(strings.TrimRight(cfg.Endpoint, "/"), completionsSuffix)
	all := append([]option.RequestOption{
		option.WithBaseURL(base + "/"),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &OpenAI{client: openai.NewClient(all...), model: cfg.Model}, nil
}

// FromConfig returns a provider when AI is configured, nil otherwise.
func FromConfig(cfg config.AI) Provider {
	p, err := NewOpenAI(cfg)
	if err != nil {
		return nil
	}
	return p
}

// Generate implements Provider.
func (o *OpenAI) Generate(ctx context.Context, diff string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(Prompt(diff)),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(100),
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrNetwork, "chat completion request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.ErrParse, "chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
