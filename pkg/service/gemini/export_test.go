package gemini

// ToGenAISchema is exported for testing
var ToGenAISchema = toGenAISchema

// ToParameter is exported for testing
var ToParameter = toParameter
