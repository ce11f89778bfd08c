package domain

import (
	"strconv"
	"strings"
)

// VectorDocumentPrefix prefixes the vector index document id of a knowledge item.
const VectorDocumentPrefix = "knowledge_"

// KnowledgeItem is a curated answer matched by keyword containment.
type KnowledgeItem struct {
	ID            string
	Keywords      []string
	Answer        string
	ReferenceLink string
}

// VectorDocumentID returns the derived id of the item's vector index document.
func (k *KnowledgeItem) VectorDocumentID() string {
	return VectorDocumentID(k.ID)
}

// VectorDocumentID returns "knowledge_" + id.
func VectorDocumentID(knowledgeID string) string {
	return VectorDocumentPrefix + knowledgeID
}

// KnowledgeIDFromDocumentID reverses VectorDocumentID. ok is false for documents
// that were not derived from a knowledge item.
func KnowledgeIDFromDocumentID(documentID string) (string, bool) {
	if !strings.HasPrefix(documentID, VectorDocumentPrefix) {
		return "", false
	}
	return strings.TrimPrefix(documentID, VectorDocumentPrefix), true
}

// NormalizeKeywords trims every keyword and drops blank entries, keeping order.
func NormalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		out = append(out, kw)
	}
	return out
}

// ValidateKnowledgeItem validates a KnowledgeItem instance
func ValidateKnowledgeItem(k *KnowledgeItem) error {
	if k == nil {
		return ErrMissingRequiredField
	}

	if k.ID == "" {
		return NewDomainError(ErrCodeValidation, "knowledge ID is required")
	}

	if len(NormalizeKeywords(k.Keywords)) == 0 {
		return ErrInvalidKeywords
	}

	if strings.TrimSpace(k.Answer) == "" {
		return ErrInvalidAnswer
	}

	return nil
}

// NextKnowledgeID returns 1 + the largest numeric id among items, or "1" when
// there is none. Non-numeric ids are ignored.
func NextKnowledgeID(items []*KnowledgeItem) string {
	var max int64
	for _, item := range items {
		n, err := strconv.ParseInt(item.ID, 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.FormatInt(max+1, 10)
}

// VectorDocument is the projection of a knowledge item written to the vector index.
type VectorDocument struct {
	ID       string
	Text     string
	Metadata map[string]any
}

// ToVectorDocument builds the projection of the item.
func (k *KnowledgeItem) ToVectorDocument() VectorDocument {
	return VectorDocument{
		ID:   k.VectorDocumentID(),
		Text: k.Answer,
		Metadata: map[string]any{
			"knowledgeId":   k.ID,
			"keywords":      strings.Join(k.Keywords, ", "),
			"referenceLink": k.ReferenceLink,
			"source":        "knowledge",
		},
	}
}

// RetrievedDocument is one nearest-neighbor result returned by the vector index.
type RetrievedDocument struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}
