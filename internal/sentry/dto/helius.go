package dto

// HeliusTransaction is one enhanced transaction from a Helius webhook
// delivery. Deliveries may arrive as a JSON array or a single object.
type HeliusTransaction struct {
	Signature      string              `json:"signature"`
	Type           string              `json:"type"`
	Source         string              `json:"source"`
	Timestamp      int64               `json:"timestamp"`
	FeePayer       string              `json:"feePayer"`
	Description    string              `json:"description"`
	AccountData    []HeliusAccountData `json:"accountData"`
	Instructions   []HeliusInstruction `json:"instructions"`
	TokenTransfers []TokenTransfer     `json:"tokenTransfers"`
}

// WebhookAck tells the webhook sender how many transactions were handed
// to the pipeline.
type WebhookAck struct {
	Accepted int `json:"accepted"`
}

// HeliusAccountData is one account touched by the transaction.
type HeliusAccountData struct {
	Account string `json:"account"`
}

// HeliusInstruction carries the program a transaction instruction ran.
type HeliusInstruction struct {
	ProgramID string `json:"programId"`
}

// TokenTransfer is a token movement within a Helius transaction.
type TokenTransfer struct {
	FromUserAccount string  `json:"fromUserAccount"`
	ToUserAccount   string  `json:"toUserAccount"`
	Mint            string  `json:"mint"`
	TokenAmount     float64 `json:"tokenAmount"`
}
