// Package gemini implements interfaces.ContentGenerator on top of Gemini,
// either with an API key (genai) or through Vertex AI (gollem).
package gemini

// DefaultModel is the model every recommendation request is sent to
const DefaultModel = "gemini-2.0-flash"
