package domain

// QuestionResult is the graded outcome of one question.
type QuestionResult struct {
	Number        int          `json:"question_number"`
	Kind          QuestionKind `json:"type"`
	Prompt        string       `json:"question"`
	UserAnswer    string       `json:"user_answer"`
	CorrectAnswer string       `json:"correct_answer"`
	IsCorrect     bool         `json:"is_correct"`
}

// ScoreResult is the graded quiz.
type ScoreResult struct {
	Score     int              `json:"score"`
	Total     int              `json:"total"`
	Questions []QuestionResult `json:"questions"`
}

// ScoreQuiz grades the frozen answers against the quiz's canonical answers.
// Comparison is an exact match after trimming and case folding; there is no
// partial credit. Total counts only the playable questions.
func ScoreQuiz(quiz *Quiz, answers map[int]AnswerRecord) ScoreResult {
	questions := quiz.PlayableQuestions()
	result := ScoreResult{
		Total:     len(questions),
		Questions: make([]QuestionResult, 0, len(questions)),
	}

	for _, q := range questions {
		answer, ok := answers[q.Number]
		if !ok {
			answer = notAnsweredRecord()
		}

		isCorrect := answer.Normalized == Normalize(CanonicalValue(q))
		if isCorrect {
			result.Score++
		}

		result.Questions = append(result.Questions, QuestionResult{
			Number:        q.Number,
			Kind:          q.Kind,
			Prompt:        q.Prompt,
			UserAnswer:    displayUserAnswer(q, answer),
			CorrectAnswer: displayCorrectAnswer(q),
			IsCorrect:     isCorrect,
		})
	}
	return result
}

func displayUserAnswer(q QuizQuestion, answer AnswerRecord) string {
	if q.Kind == KindMultipleChoice && answer.IsAnswered() {
		return RehydrateOption(q, answer.Value)
	}
	return answer.Display
}

func displayCorrectAnswer(q QuizQuestion) string {
	if q.Kind != KindMultipleChoice {
		return string(q.Answer)
	}
	letter := CanonicalValue(q)
	for key, text := range q.Options {
		if Normalize(key) == Normalize(letter) {
			return OptionLabel(key, text)
		}
	}
	return OptionLabel(letter, "N/A")
}
