package cli

var (
	PrintEvaluation     = printEvaluation
	PrintEvaluationJSON = printEvaluationJSON
	PrintFactors        = printFactors
	GetIndexConfig      = getIndexConfig
)
