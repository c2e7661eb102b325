// Command studycli runs one study session in the terminal: it summarizes a
// document, asks the generated quiz questions on stdin and prints the score.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"pdf-study-agent/internal/adapter/extractor"
	"pdf-study-agent/internal/adapter/llm"
	"pdf-study-agent/internal/config"
	"pdf-study-agent/internal/domain"
	"pdf-study-agent/internal/logger"
	"pdf-study-agent/internal/service"

	"go.uber.org/zap"
)

func main() {
	filePath := flag.String("file", "", "path to a PDF, text or markdown document")
	flag.Parse()
	if *filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *filePath, os.Stdin, os.Stdout); err != nil {
		logger.Get().Error("Study session failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, filePath string, in io.Reader, out io.Writer) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}

	generator, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	defer generator.Close()

	study := service.NewStudyService(
		service.NewMemorySessionStore(),
		extractor.NewDocumentExtractor(cfg.Document.MaxUploadBytes),
		generator,
		cfg.Document.MinTextLength,
	)
	return studySession(ctx, study, filepath.Base(filePath), data, bufio.NewScanner(in), out)
}

func studySession(ctx context.Context, study service.StudyService, fileName string, data []byte, in *bufio.Scanner, out io.Writer) error {
	state, err := study.StartSession(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Summarizing %s...\n", fileName)
	state, err = study.UploadDocument(ctx, state.ID, fileName, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n== Summary ==\n%s\n\n", state.Summary)

	fmt.Fprintln(out, "Generating quiz...")
	state, err = study.GenerateQuiz(ctx, state.ID)
	if err != nil {
		return err
	}
	for _, w := range state.Quiz.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	selections := askQuestions(state.Quiz, in, out)

	state, err = study.SubmitAnswers(ctx, state.ID, selections)
	if err != nil {
		return err
	}
	printResult(out, state.Result)
	return nil
}

// askQuestions prompts for every playable question. An empty line leaves the question unanswered.
func askQuestions(quiz *domain.Quiz, in *bufio.Scanner, out io.Writer) map[int]string {
	selections := make(map[int]string, quiz.Len())
	for _, q := range quiz.PlayableQuestions() {
		fmt.Fprintf(out, "\nQ%d. %s\n", q.Number, q.Prompt)
		switch q.Kind {
		case domain.KindMultipleChoice:
			for _, label := range q.OptionLabels() {
				fmt.Fprintf(out, "   %s\n", label)
			}
			fmt.Fprint(out, "Your choice (letter): ")
		case domain.KindTrueFalse:
			fmt.Fprint(out, "True or False: ")
		default:
			fmt.Fprint(out, "Your answer: ")
		}

		if !in.Scan() {
			break
		}
		if answer := strings.TrimSpace(in.Text()); answer != "" {
			selections[q.Number] = answer
		}
	}
	return selections
}

func printResult(out io.Writer, result *domain.ScoreResult) {
	if result == nil {
		return
	}
	fmt.Fprintf(out, "\n== Results: %d / %d ==\n", result.Score, result.Total)
	for _, r := range result.Questions {
		mark := "✗"
		if r.IsCorrect {
			mark = "✓"
		}
		fmt.Fprintf(out, "%s Q%d. %s\n   your answer: %s\n", mark, r.Number, r.Prompt, r.UserAnswer)
		if !r.IsCorrect {
			fmt.Fprintf(out, "   correct answer: %s\n", r.CorrectAnswer)
		}
	}
}
