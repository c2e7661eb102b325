package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"pdf-study-agent/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quizJSON(t *testing.T, n int) string {
	t.Helper()
	items := make([]map[string]interface{}, 0, n)
	for i := 1; i <= n; i++ {
		if i <= 10 {
			items = append(items, map[string]interface{}{
				"question_number": i,
				"type":            "multiple_choice",
				"question":        fmt.Sprintf("Question %d?", i),
				"options":         map[string]string{"A": "Berlin", "B": "Madrid", "C": "Paris", "D": "Rome"},
				"answer":          "C",
			})
			continue
		}
		items = append(items, map[string]interface{}{
			"question_number": i,
			"type":            "true_false",
			"question":        "The sky is blue.",
			"answer":          "True",
		})
	}
	data, err := json.Marshal(map[string]interface{}{"quiz": items})
	require.NoError(t, err)
	return string(data)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `  {"quiz": []}  `, `{"quiz": []}`},
		{"tagged fence", "```json\n{\"quiz\": []}\n```", `{"quiz": []}`},
		{"untagged fence", "```\n{\"quiz\": []}\n```", `{"quiz": []}`},
		{"single line", "```json{\"quiz\": []}```", `{"quiz": []}`},
		{"closing fence only", "{\"quiz\": []}\n```", `{"quiz": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.input))
		})
	}
}

func TestParseQuiz(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCode  domain.ErrorCode
		wantCount int
	}{
		{name: "exactly fifteen", input: quizJSON(t, 15), wantCount: 15},
		{name: "more than fifteen", input: quizJSON(t, 18), wantCount: 18},
		{name: "fenced", input: "```json\n" + quizJSON(t, 15) + "\n```", wantCount: 15},
		{name: "fourteen", input: quizJSON(t, 14), wantCode: domain.CodeInsufficientQuestions},
		{name: "quiz is a string", input: `{"quiz": "fifteen questions"}`, wantCode: domain.CodeUnexpectedShape},
		{name: "quiz is missing", input: `{"questions": []}`, wantCode: domain.CodeUnexpectedShape},
		{name: "quiz is null", input: `{"quiz": null}`, wantCode: domain.CodeUnexpectedShape},
		{name: "top level array", input: `[1, 2, 3]`, wantCode: domain.CodeUnexpectedShape},
		{name: "not json", input: "Sure! Here is your quiz:", wantCode: domain.CodeMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz, err := ParseQuiz(tt.input)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Nil(t, quiz)
				assert.True(t, domain.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, quiz.Len())
			assert.Empty(t, quiz.Warnings)
		})
	}
}

func TestParseQuiz_InsufficientCarriesCount(t *testing.T) {
	_, err := ParseQuiz(quizJSON(t, 14))
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 14, domainErr.Context["count"])
	assert.Equal(t, domain.MinQuizQuestions, domainErr.Context["minimum"])
}

func TestParseQuiz_MalformedCarriesRawText(t *testing.T) {
	raw := "```json\n{\"quiz\": [ {\"question_number\": 1,\n```"
	_, err := ParseQuiz(raw)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeMalformedResponse, domainErr.Code)
	assert.Equal(t, `{"quiz": [ {"question_number": 1,`, domainErr.Context["raw"])
}

func TestParseQuiz_SkipsBrokenQuestions(t *testing.T) {
	raw := quizJSON(t, 15)
	var envelope struct {
		Quiz []map[string]interface{} `json:"quiz"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope))
	envelope.Quiz[0]["options"] = map[string]string{}
	envelope.Quiz[1]["question_number"] = "two"
	data, err := json.Marshal(envelope)
	require.NoError(t, err)

	quiz, err := ParseQuiz(string(data))
	require.NoError(t, err)
	assert.Equal(t, 13, quiz.Len())
	assert.Len(t, quiz.Questions, 14, "undecodable entry is dropped")
	assert.Contains(t, quiz.Warnings, "Question 1 (MCQ) has an invalid or empty options format. Skipping.")
	assert.True(t, strings.HasPrefix(quiz.Warnings[0], "Entry 2 of the quiz could not be read"))
}

func TestParseQuiz_RejectsQuizWithoutUsableQuestions(t *testing.T) {
	raw := quizJSON(t, 15)
	var envelope struct {
		Quiz []map[string]interface{} `json:"quiz"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &envelope))
	for _, item := range envelope.Quiz {
		item["type"] = "multiple_choice"
		item["options"] = map[string]string{}
	}
	data, err := json.Marshal(envelope)
	require.NoError(t, err)

	quiz, err := ParseQuiz(string(data))
	assert.Nil(t, quiz)
	assert.True(t, domain.HasCode(err, domain.CodeUnexpectedShape), "got %v", err)
}

func TestQuizPrompt(t *testing.T) {
	prompt := QuizPrompt("Photosynthesis converts light into chemical energy.")
	assert.Contains(t, prompt, "Create exactly 10 multiple-choice questions (MCQs).")
	assert.Contains(t, prompt, `"quiz": [`)
	assert.True(t, strings.HasSuffix(prompt, "---\nPhotosynthesis converts light into chemical energy.\n---\n"))
	assert.NotContains(t, prompt, "%!")
}

func TestSummaryPrompt(t *testing.T) {
	prompt := SummaryPrompt("Some text")
	assert.True(t, strings.HasPrefix(prompt, "Provide a clear, concise, and well-structured summary"))
	assert.True(t, strings.HasSuffix(prompt, "\n\nSome text"))
}
