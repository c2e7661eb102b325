package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuiz(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func([]QuizQuestion) []QuizQuestion
		wantPlayable int
		wantWarning  string
	}{
		{
			name:         "all questions playable",
			mutate:       func(q []QuizQuestion) []QuizQuestion { return q },
			wantPlayable: 15,
		},
		{
			name: "multiple choice without options is skipped",
			mutate: func(q []QuizQuestion) []QuizQuestion {
				q[2].Options = nil
				return q
			},
			wantPlayable: 14,
			wantWarning:  "Question 3 (MCQ) has an invalid or empty options format. Skipping.",
		},
		{
			name: "duplicate number is skipped",
			mutate: func(q []QuizQuestion) []QuizQuestion {
				q[5].Number = 5
				return q
			},
			wantPlayable: 14,
			wantWarning:  "Question 5 appears more than once. Skipping the duplicate.",
		},
		{
			name: "unknown kind is skipped",
			mutate: func(q []QuizQuestion) []QuizQuestion {
				q[12].Kind = "essay"
				return q
			},
			wantPlayable: 14,
			wantWarning:  `Question 13 has an unknown type "essay". Skipping.`,
		},
		{
			name: "blank prompt is skipped",
			mutate: func(q []QuizQuestion) []QuizQuestion {
				q[14].Prompt = "  "
				return q
			},
			wantPlayable: 14,
			wantWarning:  "Question 15 has no question text. Skipping.",
		},
		{
			name: "wrong option count only warns",
			mutate: func(q []QuizQuestion) []QuizQuestion {
				delete(q[0].Options, "D")
				return q
			},
			wantPlayable: 15,
			wantWarning:  "Question 1 (MCQ) has 3 options instead of 4.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := NewQuiz(tt.mutate(sampleQuestions(15)))
			assert.Len(t, quiz.Questions, 15, "all questions are kept for diagnostics")
			assert.Equal(t, tt.wantPlayable, quiz.Len())
			if tt.wantWarning != "" {
				assert.Contains(t, quiz.Warnings, tt.wantWarning)
			} else {
				assert.Empty(t, quiz.Warnings)
			}
		})
	}
}

func TestNewQuiz_FewMultipleChoiceWarns(t *testing.T) {
	questions := sampleQuestions(15)
	for i := 0; i < 3; i++ {
		questions[i].Kind = KindTrueFalse
		questions[i].Options = nil
		questions[i].Answer = "False"
	}
	quiz := NewQuiz(questions)
	assert.Equal(t, 15, quiz.Len())
	assert.Contains(t, quiz.Warnings, "The quiz contains 7 multiple choice questions, 10 were requested.")
}

func TestQuiz_NilSafe(t *testing.T) {
	var quiz *Quiz
	assert.Equal(t, 0, quiz.Len())
	assert.Nil(t, quiz.PlayableQuestions())
}

func TestQuizQuestion_Decode(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantAnswer  CanonicalAnswer
		wantOptions OptionSet
	}{
		{
			name:        "multiple choice",
			input:       `{"question_number":1,"type":"multiple_choice","question":"Capital?","options":{"A":"Berlin","C":"Paris"},"answer":"C"}`,
			wantAnswer:  "C",
			wantOptions: OptionSet{"A": "Berlin", "C": "Paris"},
		},
		{
			name:       "boolean answer",
			input:      `{"question_number":2,"type":"true_false","question":"Sky is blue.","answer":true}`,
			wantAnswer: "True",
		},
		{
			name:       "numeric answer",
			input:      `{"question_number":3,"type":"fill_in_the_blank","question":"2+2=__","answer":4}`,
			wantAnswer: "4",
		},
		{
			name:        "options as a list decode to an empty set",
			input:       `{"question_number":4,"type":"multiple_choice","question":"Pick","options":["A","B"],"answer":"A"}`,
			wantAnswer:  "A",
			wantOptions: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q QuizQuestion
			require.NoError(t, json.Unmarshal([]byte(tt.input), &q))
			assert.Equal(t, tt.wantAnswer, q.Answer)
			assert.Equal(t, tt.wantOptions, q.Options)
		})
	}
}

func TestQuizQuestion_OptionLabels(t *testing.T) {
	q := QuizQuestion{Options: OptionSet{"C": "Paris", "A": "Berlin", "B": "Madrid"}}
	assert.Equal(t, []string{"A) Berlin", "B) Madrid", "C) Paris"}, q.OptionLabels())
}
