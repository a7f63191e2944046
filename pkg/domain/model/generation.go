package model

import "github.com/m-mizutani/goerr/v2"

// SchemaType is a response schema node type in the generative API notation
type SchemaType string

const (
	SchemaTypeObject  SchemaType = "OBJECT"
	SchemaTypeString  SchemaType = "STRING"
	SchemaTypeNumber  SchemaType = "NUMBER"
	SchemaTypeInteger SchemaType = "INTEGER"
	SchemaTypeBoolean SchemaType = "BOOLEAN"
	SchemaTypeArray   SchemaType = "ARRAY"
)

// MIMETypeJSON is the only response MIME type the proxy accepts
const MIMETypeJSON = "application/json"

// Schema declares the shape of the model's structured output
type Schema struct {
	Type             SchemaType         `json:"type"`
	Description      string             `json:"description,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
	Required         []string           `json:"required,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
}

// GenerationConfig carries the output-shape constraint sent with a prompt
type GenerationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema"`
}

// GenerationRequest is the payload accepted by the recommendation proxy
type GenerationRequest struct {
	Prompt           string            `json:"prompt"`
	GenerationConfig *GenerationConfig `json:"generationConfig"`
}

// Validate checks that both the prompt and the output constraint are present
func (x *GenerationRequest) Validate() error {
	if x == nil {
		return goerr.New("request is missing")
	}
	if x.Prompt == "" {
		return goerr.New("prompt is required")
	}
	if x.GenerationConfig == nil {
		return goerr.New("generationConfig is required")
	}
	if x.GenerationConfig.ResponseSchema == nil {
		return goerr.New("generationConfig.responseSchema is required")
	}
	if mt := x.GenerationConfig.ResponseMIMEType; mt != "" && mt != MIMETypeJSON {
		return goerr.New("unsupported response MIME type", goerr.V("responseMimeType", mt))
	}
	return nil
}

// RecommendationConfig returns the output-shape constraint for recommendations:
// an object with the four string fields in their fixed order, all required.
func RecommendationConfig() *GenerationConfig {
	fields := RecommendationFields()
	props := make(map[string]*Schema, len(fields))
	for _, f := range fields {
		props[f] = &Schema{Type: SchemaTypeString}
	}

	return &GenerationConfig{
		ResponseMIMEType: MIMETypeJSON,
		ResponseSchema: &Schema{
			Type:             SchemaTypeObject,
			Properties:       props,
			PropertyOrdering: fields,
			Required:         fields,
		},
	}
}
