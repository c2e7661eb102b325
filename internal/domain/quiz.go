package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// QuestionKind is the answer format of a quiz question.
type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindTrueFalse      QuestionKind = "true_false"
	KindFillInTheBlank QuestionKind = "fill_in_the_blank"
)

// Valid reports whether k is one of the known question kinds.
func (k QuestionKind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindTrueFalse, KindFillInTheBlank:
		return true
	}
	return false
}

const (
	// MinQuizQuestions is the smallest batch accepted from the model.
	MinQuizQuestions = 15
	// MinMultipleChoice is the multiple choice share requested in every batch.
	MinMultipleChoice = 10
	// OptionsPerMultipleChoice is the option count requested per multiple choice question.
	OptionsPerMultipleChoice = 4
)

// CanonicalAnswer is the answer the model supplied as ground truth.
// Models sometimes emit true_false answers as JSON booleans, so any scalar
// is accepted and kept in its textual form.
type CanonicalAnswer string

func (a *CanonicalAnswer) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*a = ""
	case string:
		*a = CanonicalAnswer(v)
	case bool:
		if v {
			*a = "True"
		} else {
			*a = "False"
		}
	case float64:
		*a = CanonicalAnswer(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return fmt.Errorf("answer must be a scalar, got %T", raw)
	}
	return nil
}

// OptionSet maps option letters to option text.
// Anything other than a JSON object decodes to an empty set, which marks a
// multiple choice question as unplayable rather than failing the whole batch.
type OptionSet map[string]string

func (o *OptionSet) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		*o = nil
		return nil
	}
	set := make(OptionSet, len(m))
	for k, v := range m {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		set[key] = fmt.Sprint(v)
	}
	*o = set
	return nil
}

// QuizQuestion is one question as delivered by the model.
type QuizQuestion struct {
	Number  int             `json:"question_number"`
	Kind    QuestionKind    `json:"type"`
	Prompt  string          `json:"question"`
	Options OptionSet       `json:"options,omitempty"`
	Answer  CanonicalAnswer `json:"answer"`
}

// OptionKeys returns the option letters in presentation order.
func (q QuizQuestion) OptionKeys() []string {
	keys := make([]string, 0, len(q.Options))
	for k := range q.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OptionLabels returns the option strings shown to the user, e.g. "A) Berlin".
func (q QuizQuestion) OptionLabels() []string {
	keys := q.OptionKeys()
	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		labels = append(labels, OptionLabel(k, q.Options[k]))
	}
	return labels
}

// OptionLabel formats a multiple choice option for display.
func OptionLabel(letter, text string) string {
	return fmt.Sprintf("%s) %s", letter, text)
}

// Quiz is an immutable batch of questions produced from one model response.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
	// Playable holds the indexes into Questions that passed per-question checks.
	Playable []int    `json:"playable"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewQuiz validates each question and records which ones can be shown and scored.
// Malformed questions are skipped with a warning instead of rejecting the batch.
func NewQuiz(questions []QuizQuestion) *Quiz {
	q := &Quiz{Questions: questions}
	seen := make(map[int]bool, len(questions))
	multipleChoice := 0

	for i, item := range questions {
		if problem := checkQuestion(item, seen); problem != "" {
			q.Warnings = append(q.Warnings, problem)
			continue
		}
		seen[item.Number] = true
		q.Playable = append(q.Playable, i)

		if item.Kind == KindMultipleChoice {
			multipleChoice++
			if len(item.Options) != OptionsPerMultipleChoice {
				q.Warnings = append(q.Warnings, fmt.Sprintf(
					"Question %d (MCQ) has %d options instead of %d.", item.Number, len(item.Options), OptionsPerMultipleChoice))
			}
		}
	}

	if multipleChoice < MinMultipleChoice {
		q.Warnings = append(q.Warnings, fmt.Sprintf(
			"The quiz contains %d multiple choice questions, %d were requested.", multipleChoice, MinMultipleChoice))
	}
	return q
}

func checkQuestion(item QuizQuestion, seen map[int]bool) string {
	switch {
	case item.Number <= 0:
		return fmt.Sprintf("A question has an invalid number (%d). Skipping.", item.Number)
	case seen[item.Number]:
		return fmt.Sprintf("Question %d appears more than once. Skipping the duplicate.", item.Number)
	case !item.Kind.Valid():
		return fmt.Sprintf("Question %d has an unknown type %q. Skipping.", item.Number, item.Kind)
	case strings.TrimSpace(item.Prompt) == "":
		return fmt.Sprintf("Question %d has no question text. Skipping.", item.Number)
	case item.Kind == KindMultipleChoice && len(item.Options) == 0:
		return fmt.Sprintf("Question %d (MCQ) has an invalid or empty options format. Skipping.", item.Number)
	}
	return ""
}

// PlayableQuestions returns the questions to render and score, in order.
func (q *Quiz) PlayableQuestions() []QuizQuestion {
	if q == nil {
		return nil
	}
	out := make([]QuizQuestion, 0, len(q.Playable))
	for _, i := range q.Playable {
		out = append(out, q.Questions[i])
	}
	return out
}

// Len returns the number of playable questions.
func (q *Quiz) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Playable)
}
