package usecase

// BuildRecommendationPrompt is exported for testing
var BuildRecommendationPrompt = buildRecommendationPrompt
