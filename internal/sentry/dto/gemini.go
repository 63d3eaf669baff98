package dto

// GeminiAPIRequest is the generateContent request payload.
type GeminiAPIRequest struct {
	Contents []Content `json:"contents"`
}

// Content is a Gemini content block.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is a text part of a Gemini content block.
type Part struct {
	Text string `json:"text"`
}

// GeminiAPIResponse is the generateContent response payload.
type GeminiAPIResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated answer.
type Candidate struct {
	Content Content `json:"content"`
}
