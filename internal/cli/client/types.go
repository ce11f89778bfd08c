package client

// Knowledge represents a knowledge item from the API.
type Knowledge struct {
	ID            string   `json:"id"`
	Keywords      []string `json:"keywords"`
	Answer        string   `json:"answer"`
	ReferenceLink string   `json:"referenceLink"`
}

// CreateKnowledgeRequest represents the create knowledge API request.
type CreateKnowledgeRequest struct {
	Keywords      []string `json:"keywords" yaml:"keywords"`
	Answer        string   `json:"answer" yaml:"answer"`
	ReferenceLink string   `json:"referenceLink,omitempty" yaml:"referenceLink"`
}

// UpdateKnowledgeRequest carries only the fields to change.
type UpdateKnowledgeRequest struct {
	Keywords      []string `json:"keywords,omitempty"`
	Answer        *string  `json:"answer,omitempty"`
	ReferenceLink *string  `json:"referenceLink,omitempty"`
}

// Unanswered represents an unanswered question from the API.
type Unanswered struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	CreatedAt string `json:"createdAt"`
}

// Source is one retrieved document grounding a generated answer.
type Source struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
}

// ChatResponse represents the chat API response.
type ChatResponse struct {
	Answer         string   `json:"answer"`
	Type           string   `json:"type"`
	Sources        []Source `json:"sources"`
	MatchedKeyword string   `json:"matchedKeyword,omitempty"`
	ReferenceLink  string   `json:"referenceLink,omitempty"`
}

// DeleteResponse represents the delete API response.
type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
