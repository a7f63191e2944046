package cli

var (
	PrintRecommendation = printRecommendation
	GetIndexConfig      = getIndexConfig
)
