package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"pdf-study-agent/internal/domain"
	"pdf-study-agent/internal/logger"

	"go.uber.org/zap"
)

const fence = "```"

// ParseQuiz decodes a raw model response into a quiz.
//
// The response must be a JSON object whose "quiz" field is an array of at
// least domain.MinQuizQuestions entries. Individual entries that cannot be
// decoded or fail per-question checks are skipped and reported as warnings;
// a quiz left with no usable question at all is rejected.
func ParseQuiz(raw string) (*domain.Quiz, error) {
	l := logger.Get()
	cleaned := StripFences(raw)

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		var value interface{}
		if json.Unmarshal([]byte(cleaned), &value) == nil {
			// Valid JSON, just not an object.
			return nil, domain.NewUnexpectedShapeError(shapeMessage)
		}
		l.Warn("Failed to decode quiz response", zap.Error(err), zap.String("raw", cleaned))
		return nil, domain.NewMalformedResponseError(cleaned, err)
	}

	field, ok := envelope["quiz"]
	if !ok {
		return nil, domain.NewUnexpectedShapeError(shapeMessage)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(field, &items); err != nil || items == nil {
		return nil, domain.NewUnexpectedShapeError(shapeMessage)
	}

	if len(items) < domain.MinQuizQuestions {
		return nil, domain.NewInsufficientQuestionsError(len(items), domain.MinQuizQuestions)
	}

	questions := make([]domain.QuizQuestion, 0, len(items))
	var decodeWarnings []string
	for i, item := range items {
		var q domain.QuizQuestion
		if err := json.Unmarshal(item, &q); err != nil {
			decodeWarnings = append(decodeWarnings, fmt.Sprintf("Entry %d of the quiz could not be read (%v). Skipping.", i+1, err))
			continue
		}
		questions = append(questions, q)
	}

	quiz := domain.NewQuiz(questions)
	quiz.Warnings = append(decodeWarnings, quiz.Warnings...)
	if quiz.Len() == 0 {
		l.Warn("Quiz response has no usable questions", zap.Strings("warnings", quiz.Warnings))
		return nil, domain.NewUnexpectedShapeError("The model's quiz contained no usable questions. Please try again.").
			WithContext("warnings", quiz.Warnings)
	}
	if len(quiz.Warnings) > 0 {
		l.Info("Quiz parsed with warnings",
			zap.Int("questions", len(items)),
			zap.Int("playable", quiz.Len()),
			zap.Strings("warnings", quiz.Warnings))
	}
	return quiz, nil
}

const shapeMessage = "The model did not return valid quiz data in the expected format (JSON with a 'quiz' list). Please try again."

// StripFences trims whitespace and removes a surrounding markdown code fence.
// The opening fence may carry a language tag such as "json".
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, fence) {
		s = strings.TrimLeftFunc(s[len(fence):], unicode.IsLetter)
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, fence) {
		s = strings.TrimSpace(s[:len(s)-len(fence)])
	}
	return s
}
