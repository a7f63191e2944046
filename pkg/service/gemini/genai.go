package gemini

import (
	"context"
	"net/http"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// GenAIClient calls the Gemini API authenticated with an API key
type GenAIClient struct {
	client *genai.Client
	model  string
}

var _ interfaces.ContentGenerator = &GenAIClient{}

type genAIConfig struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// GenAIOption is a functional option for NewGenAI
type GenAIOption func(*genAIConfig)

// WithGenAIModel overrides DefaultModel
func WithGenAIModel(model string) GenAIOption {
	return func(c *genAIConfig) {
		c.model = model
	}
}

// WithGenAIBaseURL points the client to another endpoint
func WithGenAIBaseURL(baseURL string) GenAIOption {
	return func(c *genAIConfig) {
		c.baseURL = baseURL
	}
}

// WithGenAIHTTPClient sets the HTTP client used for API calls
func WithGenAIHTTPClient(client *http.Client) GenAIOption {
	return func(c *genAIConfig) {
		c.httpClient = client
	}
}

// NewGenAI creates a Gemini API client
func NewGenAI(ctx context.Context, apiKey string, opts ...GenAIOption) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, goerr.New("gemini API key is required")
	}

	cfg := &genAIConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(cfg)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.httpClient,
	}
	if cfg.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	return &GenAIClient{client: client, model: cfg.model}, nil
}

// GenerateJSON returns the text of the first part of the first candidate
func (c *GenAIClient) GenerateJSON(ctx context.Context, prompt string, cfg *model.GenerationConfig) (string, error) {
	genCfg := &genai.GenerateContentConfig{}
	if cfg != nil {
		genCfg.ResponseMIMEType = cfg.ResponseMIMEType
		genCfg.ResponseSchema = toGenAISchema(cfg.ResponseSchema)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content", goerr.V("model", c.model))
	}

	if len(resp.Candidates) == 0 {
		return "", goerr.New("model returned no candidate", goerr.V("model", c.model))
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", goerr.New("model candidate has no content",
			goerr.V("model", c.model),
			goerr.V("finishReason", resp.Candidates[0].FinishReason))
	}

	return content.Parts[0].Text, nil
}

func toGenAISchema(s *model.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	schema := &genai.Schema{
		Type:             genai.Type(s.Type),
		Description:      s.Description,
		PropertyOrdering: s.PropertyOrdering,
		Required:         s.Required,
		Items:            toGenAISchema(s.Items),
	}
	if len(s.Properties) > 0 {
		schema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			schema.Properties[name] = toGenAISchema(prop)
		}
	}
	return schema
}
