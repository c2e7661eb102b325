package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// NotAnswered is stored for every question the user left blank.
const NotAnswered = "Not Answered"

// AnswerRecord is a frozen user answer.
// Display keeps what the user saw ("C) Paris"), Value is the comparison form
// (the option letter for multiple choice) and Normalized is Value trimmed and
// case-folded.
type AnswerRecord struct {
	Display    string `json:"display"`
	Value      string `json:"value"`
	Normalized string `json:"normalized"`
}

// Normalize trims surrounding whitespace and case-folds s.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// NewAnswerRecord freezes a raw selection for question q.
// present is false when the form carried no value for the question.
func NewAnswerRecord(q QuizQuestion, raw string, present bool) AnswerRecord {
	if !present || strings.TrimSpace(raw) == "" {
		return notAnsweredRecord()
	}

	if q.Kind == KindMultipleChoice {
		letter, ok := SelectedOption(q, raw)
		if !ok {
			return notAnsweredRecord()
		}
		return AnswerRecord{
			Display:    RehydrateOption(q, letter),
			Value:      letter,
			Normalized: Normalize(letter),
		}
	}

	return AnswerRecord{
		Display:    raw,
		Value:      raw,
		Normalized: Normalize(raw),
	}
}

func notAnsweredRecord() AnswerRecord {
	return AnswerRecord{Display: NotAnswered, Value: NotAnswered, Normalized: Normalize(NotAnswered)}
}

// IsAnswered reports whether the record holds a real selection.
func (a AnswerRecord) IsAnswered() bool {
	return a.Value != NotAnswered
}

// SelectedOption reduces a multiple choice selection to its option letter.
// Both the display form "C) Paris" and a bare letter "C" are accepted; the
// letter must name one of the question's options.
func SelectedOption(q QuizQuestion, raw string) (string, bool) {
	candidate := leadingLetter(raw)
	for key := range q.Options {
		if strings.EqualFold(key, candidate) {
			return key, true
		}
	}
	return "", false
}

// leadingLetter returns the part before ")" in "C) Paris", or the whole
// trimmed string when there is no such prefix.
func leadingLetter(raw string) string {
	raw = strings.TrimSpace(raw)
	if idx := strings.Index(raw, ")"); idx > 0 {
		return strings.TrimSpace(raw[:idx])
	}
	return raw
}

// RehydrateOption turns an option letter back into its display form.
// Unknown letters are returned unchanged.
func RehydrateOption(q QuizQuestion, letter string) string {
	if text, ok := q.Options[letter]; ok {
		return OptionLabel(letter, text)
	}
	return letter
}

// CanonicalValue is the comparison form of the question's canonical answer.
// For multiple choice an answer given as "C) Paris" is reduced to "C".
func CanonicalValue(q QuizQuestion) string {
	answer := strings.TrimSpace(string(q.Answer))
	if q.Kind == KindMultipleChoice {
		return leadingLetter(answer)
	}
	return answer
}
