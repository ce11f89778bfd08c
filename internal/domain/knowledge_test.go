package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeywords(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"trims and keeps order", []string{" printer ", "toner"}, []string{"printer", "toner"}},
		{"drops blanks", []string{"", "  ", "wifi"}, []string{"wifi"}},
		{"all blank", []string{" ", ""}, []string{}},
		{"nil", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeKeywords(tt.input))
		})
	}
}

func TestValidateKnowledgeItem(t *testing.T) {
	tests := []struct {
		name    string
		item    *KnowledgeItem
		wantErr error
	}{
		{
			name: "valid item",
			item: &KnowledgeItem{ID: "1", Keywords: []string{"printer"}, Answer: "Printer is on floor 2."},
		},
		{
			name: "valid without reference link",
			item: &KnowledgeItem{ID: "2", Keywords: []string{"a", "b"}, Answer: "x", ReferenceLink: ""},
		},
		{
			name:    "nil item",
			item:    nil,
			wantErr: ErrMissingRequiredField,
		},
		{
			name:    "empty keywords",
			item:    &KnowledgeItem{ID: "1", Keywords: []string{}, Answer: "x"},
			wantErr: ErrInvalidKeywords,
		},
		{
			name:    "only blank keywords",
			item:    &KnowledgeItem{ID: "1", Keywords: []string{"  "}, Answer: "x"},
			wantErr: ErrInvalidKeywords,
		},
		{
			name:    "blank answer",
			item:    &KnowledgeItem{ID: "1", Keywords: []string{"a"}, Answer: "   "},
			wantErr: ErrInvalidAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKnowledgeItem(tt.item)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, ErrCodeValidation, ErrorCode(err))
		})
	}

	t.Run("missing id", func(t *testing.T) {
		err := ValidateKnowledgeItem(&KnowledgeItem{Keywords: []string{"a"}, Answer: "x"})
		require.Error(t, err)
		assert.Equal(t, ErrCodeValidation, ErrorCode(err))
	})
}

func TestNextKnowledgeID(t *testing.T) {
	t.Run("empty store starts at 1", func(t *testing.T) {
		assert.Equal(t, "1", NextKnowledgeID(nil))
	})

	t.Run("one more than max, not count", func(t *testing.T) {
		items := []*KnowledgeItem{{ID: "3"}, {ID: "10"}, {ID: "7"}}
		assert.Equal(t, "11", NextKnowledgeID(items))
	})

	t.Run("ignores non-numeric ids", func(t *testing.T) {
		items := []*KnowledgeItem{{ID: "legacy"}, {ID: "2"}}
		assert.Equal(t, "3", NextKnowledgeID(items))
	})
}

func TestVectorDocumentID(t *testing.T) {
	item := &KnowledgeItem{ID: "42"}
	assert.Equal(t, "knowledge_42", item.VectorDocumentID())

	id, ok := KnowledgeIDFromDocumentID("knowledge_42")
	assert.True(t, ok)
	assert.Equal(t, "42", id)

	_, ok = KnowledgeIDFromDocumentID("id1")
	assert.False(t, ok)
}

func TestKnowledgeItem_ToVectorDocument(t *testing.T) {
	item := &KnowledgeItem{
		ID:            "5",
		Keywords:      []string{"battery", "건전지"},
		Answer:        "건전지는 탕비실 세 번째 서랍에 있습니다.",
		ReferenceLink: "https://wiki.example.com/office",
	}

	doc := item.ToVectorDocument()

	assert.Equal(t, "knowledge_5", doc.ID)
	assert.Equal(t, item.Answer, doc.Text)
	assert.Equal(t, "5", doc.Metadata["knowledgeId"])
	assert.Equal(t, "battery, 건전지", doc.Metadata["keywords"])
	assert.Equal(t, "https://wiki.example.com/office", doc.Metadata["referenceLink"])
	assert.Equal(t, "knowledge", doc.Metadata["source"])
}

func TestNewUnansweredQuestion(t *testing.T) {
	now := time.Now()
	q := NewUnansweredQuestion("u1", "  vacation policy  ", now)

	assert.Equal(t, "u1", q.ID)
	assert.Equal(t, "vacation policy", q.Question)
	assert.Equal(t, now, q.CreatedAt)
	assert.NoError(t, ValidateUnansweredQuestion(q))

	q.Question = " "
	assert.ErrorIs(t, ValidateUnansweredQuestion(q), ErrEmptyQuestion)
}

func TestDomainError_IsMatchesWrappedSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("chat: %w", GenerationFailed(cause))

	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrKnowledgeNotFound)
	assert.Equal(t, ErrCodeGenerationFailure, ErrorCode(err))
	assert.Equal(t, "", ErrorCode(cause))
}

func TestDomainError_Error(t *testing.T) {
	assert.Equal(t, "[NOT_FOUND] knowledge item not found", ErrKnowledgeNotFound.Error())

	wrapped := ProjectionSyncFailed("add", "knowledge_1", errors.New("timeout"))
	assert.Equal(t, "[PROJECTION_SYNC_FAILURE] vector index add failed for knowledge_1: timeout", wrapped.Error())
}

func TestDomainError_ClientError(t *testing.T) {
	assert.True(t, ErrInvalidAnswer.ClientError())
	assert.True(t, ErrKnowledgeNotFound.ClientError())
	assert.False(t, GenerationFailed(errors.New("timeout")).ClientError())
	assert.False(t, ProjectionSyncFailed("add", "knowledge_1", errors.New("x")).ClientError())
}
