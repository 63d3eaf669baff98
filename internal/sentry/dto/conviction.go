package dto

// ConvictionResult is the outcome of scoring one candidate.
type ConvictionResult struct {
	Score      float64  `json:"score"`
	GatePassed bool     `json:"gate_passed"`
	Reasons    []string `json:"reasons"`
}

// AdjusterInput carries everything a score adjuster may inspect.
type AdjusterInput struct {
	Candidate CandidateEvent `json:"candidate"`
	Metrics   TokenMetrics   `json:"metrics"`
	BaseScore float64        `json:"base_score"`
}

// Adjustment is one adjuster's contribution to the final score.
type Adjustment struct {
	Delta   float64  `json:"delta"`
	Reasons []string `json:"reasons"`
}

// AIReview is the structured verdict returned by the AI reviewer.
type AIReview struct {
	ConfidenceAdjustment float64 `json:"confidence_adjustment"`
	RiskLevel            string  `json:"risk_level"`
	Reasoning            string  `json:"reasoning"`
}

// ContractRiskReport summarizes an on-chain safety scan of a token.
type ContractRiskReport struct {
	Score int                `json:"score"`
	Risks []ContractRiskItem `json:"risks"`
}

// ContractRiskItem is a single flagged risk from the scan.
type ContractRiskItem struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}
