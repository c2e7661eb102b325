package domain

import "fmt"

// sampleQuestions returns n well-formed questions: the first ten are
// multiple choice with four options, the rest alternate true_false and
// fill_in_the_blank.
func sampleQuestions(n int) []QuizQuestion {
	questions := make([]QuizQuestion, 0, n)
	for i := 1; i <= n; i++ {
		switch {
		case i <= 10:
			questions = append(questions, QuizQuestion{
				Number: i,
				Kind:   KindMultipleChoice,
				Prompt: fmt.Sprintf("Question %d?", i),
				Options: OptionSet{
					"A": "Berlin", "B": "Madrid", "C": "Paris", "D": "Rome",
				},
				Answer: "C",
			})
		case i%2 == 1:
			questions = append(questions, QuizQuestion{
				Number: i,
				Kind:   KindTrueFalse,
				Prompt: "The sky is blue.",
				Answer: "True",
			})
		default:
			questions = append(questions, QuizQuestion{
				Number: i,
				Kind:   KindFillInTheBlank,
				Prompt: "The sun rises in the ____.",
				Answer: "East",
			})
		}
	}
	return questions
}

func summarizedSession() SessionState {
	text := "Paris is the capital of France. " +
		"The sun rises in the east and sets in the west. " +
		"The sky appears blue because of Rayleigh scattering."
	s, err := NewSession("01HGZ8VNRYXS8QKNJV5GRWPWDQ").AcceptDocument("notes.pdf", text, "A short summary.", MinExtractedTextLength)
	if err != nil {
		panic(err)
	}
	return s
}
