package domain

// DefaultRefusalMessage is returned when no registered knowledge covers a question.
// The generation prompt instructs the model to reply with the same sentence.
const DefaultRefusalMessage = "해당 정보는 등록되어 있지 않습니다. 인사/총무에 문의해 주세요."

// AnswerType identifies which cascade stage produced an answer.
type AnswerType string

const (
	AnswerTypeExactMatch AnswerType = "exact_match"
	AnswerTypeRAG        AnswerType = "rag"
	AnswerTypeNoMatch    AnswerType = "no_match"
)

// Answer is the uniform result of the answering cascade.
type Answer struct {
	Type           AnswerType
	Text           string
	Sources        []RetrievedDocument
	MatchedKeyword string
	ReferenceLink  string
}
