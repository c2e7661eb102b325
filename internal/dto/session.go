package dto

import (
	"strconv"
	"time"

	"pdf-study-agent/internal/domain"
)

// CreateSessionResponse is returned when a new study session starts
// @Description Session handle and the bearer token that authorizes it
type CreateSessionResponse struct {
	SessionID string          `json:"session_id"`
	Token     string          `json:"token"`
	State     SessionResponse `json:"state"`
}

// QuestionView is a question as shown to the user. The canonical answer is never exposed before scoring.
type QuestionView struct {
	Number  int      `json:"question_number"`
	Type    string   `json:"type"`
	Prompt  string   `json:"question"`
	Options []string `json:"options,omitempty"` // "A) text" labels in presentation order
}

// QuizView is the playable part of a quiz
type QuizView struct {
	Questions []QuestionView `json:"questions"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// SessionResponse represents a study session in the API response
// @Description Current session state
type SessionResponse struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Version      int64             `json:"version"`
	DocumentName string            `json:"document_name,omitempty"`
	Summary      string            `json:"summary,omitempty"`
	Quiz         *QuizView         `json:"quiz,omitempty"`
	Submitted    bool              `json:"submitted"`
	Answers      map[string]string `json:"answers,omitempty"` // question number to the frozen display answer
	Result       *ResultResponse   `json:"result,omitempty"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// SubmitAnswersRequest carries the user's selections keyed by question number
// @Description Request body for submitting quiz answers
type SubmitAnswersRequest struct {
	Answers map[string]string `json:"answers"`
}

// QuestionResultResponse is one graded question
type QuestionResultResponse struct {
	Number        int    `json:"question_number"`
	Type          string `json:"type"`
	Prompt        string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
}

// ResultResponse represents the graded quiz in the API response
// @Description Score and per-question feedback
type ResultResponse struct {
	Score     int                      `json:"score"`
	Total     int                      `json:"total"`
	Questions []QuestionResultResponse `json:"questions"`
}

// HealthResponse reports dependency health
type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
	Model  string `json:"model"`
}

// NewSessionResponse maps a session state to its public view.
func NewSessionResponse(s domain.SessionState) SessionResponse {
	resp := SessionResponse{
		ID:           s.ID,
		Status:       string(s.Status),
		Version:      s.Version,
		DocumentName: s.DocumentName,
		Summary:      s.Summary,
		Submitted:    s.Submitted,
		UpdatedAt:    s.UpdatedAt,
	}

	if s.Quiz != nil {
		view := &QuizView{Warnings: s.Quiz.Warnings}
		for _, q := range s.Quiz.PlayableQuestions() {
			qv := QuestionView{
				Number: q.Number,
				Type:   string(q.Kind),
				Prompt: q.Prompt,
			}
			if q.Kind == domain.KindMultipleChoice {
				qv.Options = q.OptionLabels()
			}
			view.Questions = append(view.Questions, qv)
		}
		resp.Quiz = view
	}

	if len(s.Answers) > 0 {
		resp.Answers = make(map[string]string, len(s.Answers))
		for number, a := range s.Answers {
			resp.Answers[strconv.Itoa(number)] = a.Display
		}
	}

	if s.Result != nil {
		r := NewResultResponse(*s.Result)
		resp.Result = &r
	}
	return resp
}

// NewResultResponse maps a score result to its public view.
func NewResultResponse(r domain.ScoreResult) ResultResponse {
	resp := ResultResponse{
		Score:     r.Score,
		Total:     r.Total,
		Questions: make([]QuestionResultResponse, 0, len(r.Questions)),
	}
	for _, q := range r.Questions {
		resp.Questions = append(resp.Questions, QuestionResultResponse{
			Number:        q.Number,
			Type:          string(q.Kind),
			Prompt:        q.Prompt,
			UserAnswer:    q.UserAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     q.IsCorrect,
		})
	}
	return resp
}
