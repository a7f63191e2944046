package gemini

import (
	"context"

	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

// VertexClient calls Gemini on Vertex AI through a gollem LLM client
type VertexClient struct {
	llm gollem.LLMClient
}

var _ interfaces.ContentGenerator = &VertexClient{}

// NewVertex wraps llm, typically created by gollem's gemini.New
func NewVertex(llm gollem.LLMClient) *VertexClient {
	return &VertexClient{llm: llm}
}

func (c *VertexClient) GenerateJSON(ctx context.Context, prompt string, cfg *model.GenerationConfig) (string, error) {
	opts := []gollem.SessionOption{
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
	}
	if cfg != nil && cfg.ResponseSchema != nil {
		opts = append(opts, gollem.WithSessionResponseSchema(toParameter(cfg.ResponseSchema)))
	}

	session, err := c.llm.NewSession(ctx, opts...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.New("model returned no candidate")
	}

	return resp.Texts[0], nil
}

var parameterTypes = map[model.SchemaType]gollem.ParameterType{
	model.SchemaTypeObject:  gollem.TypeObject,
	model.SchemaTypeString:  gollem.TypeString,
	model.SchemaTypeNumber:  gollem.TypeNumber,
	model.SchemaTypeInteger: gollem.TypeInteger,
	model.SchemaTypeBoolean: gollem.TypeBoolean,
	model.SchemaTypeArray:   gollem.TypeArray,
}

// toParameter converts a response schema to gollem's notation. Property
// ordering has no equivalent there and is carried by the prompt instead.
func toParameter(s *model.Schema) *gollem.Parameter {
	if s == nil {
		return nil
	}

	p := &gollem.Parameter{
		Type:        parameterTypes[s.Type],
		Description: s.Description,
		Required:    s.Required,
		Items:       toParameter(s.Items),
	}
	if len(s.Properties) > 0 {
		p.Properties = make(map[string]*gollem.Parameter, len(s.Properties))
		for name, prop := range s.Properties {
			p.Properties[name] = toParameter(prop)
		}
	}
	return p
}
