// Package quizgen builds the model prompts for summaries and quizzes and
// turns the model's quiz response into a domain.Quiz.
package quizgen

import "fmt"

// SummaryPrompt asks the model for a summary of the extracted text.
func SummaryPrompt(text string) string {
	return fmt.Sprintf("Provide a clear, concise, and well-structured summary of the following text. "+
		"Cover all main ideas and relevant details:\n\n%s", text)
}

// QuizPrompt asks the model for a JSON quiz built from the extracted text.
func QuizPrompt(text string) string {
	return fmt.Sprintf(quizPromptTemplate, text)
}

const quizPromptTemplate = "Based on the following text, generate a quiz.\n\n" +
	"**Instructions:**\n" +
	"1.  Create exactly 10 multiple-choice questions (MCQs).\n" +
	"2.  Each MCQ must have exactly 4 answer choices (A, B, C, D).\n" +
	"3.  Create 5 additional questions of mixed types (True/False or Fill-in-the-Blank).\n" +
	"4.  The total number of questions should be 15.\n" +
	"5.  Store the correct answer for each question.\n" +
	"6.  Output the entire quiz as a single, valid JSON object. Do not include any text or formatting outside of the JSON.\n\n" +
	"**JSON Format:**\n" +
	"```json\n" +
	`{
  "quiz": [
    {
      "question_number": 1,
      "type": "multiple_choice",
      "question": "What is the capital of France?",
      "options": {"A": "Berlin", "B": "Madrid", "C": "Paris", "D": "Rome"},
      "answer": "C"
    },
    {
      "question_number": 11,
      "type": "true_false",
      "question": "The sky is blue.",
      "answer": "True"
    },
    {
      "question_number": 12,
      "type": "fill_in_the_blank",
      "question": "The sun rises in the ____.",
      "answer": "East"
    }
  ]
}` + "\n```\n\n" +
	"**Source Text:**\n" +
	"---\n" +
	"%s\n" +
	"---\n"
