package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// SessionStatus is the lifecycle stage of a study session.
type SessionStatus string

const (
	StatusIdle       SessionStatus = "idle"
	StatusSummarized SessionStatus = "summarized"
	StatusQuizReady  SessionStatus = "quiz_ready"
	StatusSubmitted  SessionStatus = "submitted"
	StatusScored     SessionStatus = "scored"
)

// MinExtractedTextLength is the default number of characters a document must yield.
const MinExtractedTextLength = 100

// SessionState is everything one user's session holds.
//
// Transitions are value methods: they return the next state and leave the
// receiver untouched, so a failed action never leaves a half-applied change.
// Invariants:
//   - Quiz is non-nil iff Status is quiz_ready, submitted or scored.
//   - Answers holds one record per playable question iff Status is submitted or scored.
type SessionState struct {
	ID            string               `json:"id"`
	Version       int64                `json:"version"`
	Status        SessionStatus        `json:"status"`
	DocumentName  string               `json:"document_name,omitempty"`
	ExtractedText string               `json:"extracted_text,omitempty"`
	Summary       string               `json:"summary,omitempty"`
	Quiz          *Quiz                `json:"quiz,omitempty"`
	Answers       map[int]AnswerRecord `json:"answers,omitempty"`
	Submitted     bool                 `json:"submitted"`
	Result        *ScoreResult         `json:"result,omitempty"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// NewSession returns an idle session.
func NewSession(id string) SessionState {
	return SessionState{ID: id, Status: StatusIdle, UpdatedAt: time.Now()}
}

func (s SessionState) next() SessionState {
	s.Version++
	s.UpdatedAt = time.Now()
	return s
}

// Reset wipes everything except the session identity. Valid from any state.
func (s SessionState) Reset() SessionState {
	n := s.next()
	return SessionState{
		ID:        n.ID,
		Version:   n.Version,
		Status:    StatusIdle,
		UpdatedAt: n.UpdatedAt,
	}
}

// CheckExtractedText rejects text with fewer than minLength characters.
// A non-positive minLength falls back to MinExtractedTextLength.
func CheckExtractedText(text string, minLength int) error {
	if minLength <= 0 {
		minLength = MinExtractedTextLength
	}
	if n := utf8.RuneCountInString(text); n < minLength {
		return NewDocumentTooShortError(n, minLength)
	}
	return nil
}

// AcceptDocument moves an idle session to summarized. The session must have
// been reset for the new document first; text shorter than minLength or an
// empty summary is rejected and nothing is retained.
func (s SessionState) AcceptDocument(name, text, summary string, minLength int) (SessionState, error) {
	if s.Status != StatusIdle {
		return s, NewInvalidTransitionError(s.Status, "accept a document")
	}
	if err := CheckExtractedText(text, minLength); err != nil {
		return s, err
	}
	if strings.TrimSpace(summary) == "" {
		return s, NewEmptyGenerationError("summary")
	}

	n := s.next()
	n.Status = StatusSummarized
	n.DocumentName = name
	n.ExtractedText = text
	n.Summary = summary
	return n, nil
}

// ReplaceSummary installs a regenerated summary. Any quiz is dropped so the
// session returns to summarized.
func (s SessionState) ReplaceSummary(summary string) (SessionState, error) {
	if s.Status == StatusIdle || s.ExtractedText == "" {
		return s, NewInvalidTransitionError(s.Status, "regenerate the summary")
	}
	if strings.TrimSpace(summary) == "" {
		return s, NewEmptyGenerationError("summary")
	}

	n := s.next()
	n.Status = StatusSummarized
	n.Summary = summary
	n.clearQuiz()
	return n, nil
}

// AttachQuiz installs a freshly parsed quiz, replacing any previous one.
func (s SessionState) AttachQuiz(quiz *Quiz) (SessionState, error) {
	if s.Status == StatusIdle || s.ExtractedText == "" {
		return s, NewInvalidTransitionError(s.Status, "create a quiz")
	}
	if quiz == nil {
		return s, NewInternalError("cannot attach an empty quiz", nil)
	}

	n := s.next()
	n.clearQuiz()
	n.Status = StatusQuizReady
	n.Quiz = quiz
	return n, nil
}

// DiscardQuiz returns the session to summarized after a quiz response could
// not be used. The summary stays so quiz generation can be retried.
func (s SessionState) DiscardQuiz() (SessionState, error) {
	if s.Status == StatusIdle || s.ExtractedText == "" {
		return s, NewInvalidTransitionError(s.Status, "discard the quiz")
	}
	n := s.next()
	n.Status = StatusSummarized
	n.clearQuiz()
	return n, nil
}

// Submit freezes the user's selections. Every playable question gets exactly
// one record; questions without a selection are stored as Not Answered and
// selections for unknown question numbers are ignored.
func (s SessionState) Submit(selections map[int]string) (SessionState, error) {
	if s.Status != StatusQuizReady {
		return s, NewInvalidTransitionError(s.Status, "submit answers")
	}

	answers := make(map[int]AnswerRecord, s.Quiz.Len())
	for _, q := range s.Quiz.PlayableQuestions() {
		raw, present := selections[q.Number]
		answers[q.Number] = NewAnswerRecord(q, raw, present)
	}

	n := s.next()
	n.Status = StatusSubmitted
	n.Answers = answers
	n.Submitted = true
	return n, nil
}

// Score grades a submitted session.
func (s SessionState) Score() (SessionState, error) {
	if s.Status != StatusSubmitted {
		return s, NewInvalidTransitionError(s.Status, "score answers")
	}
	result := ScoreQuiz(s.Quiz, s.Answers)

	n := s.next()
	n.Status = StatusScored
	n.Result = &result
	return n, nil
}

func (s *SessionState) clearQuiz() {
	s.Quiz = nil
	s.Answers = nil
	s.Submitted = false
	s.Result = nil
}
