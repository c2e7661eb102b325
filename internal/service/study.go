package service

import (
	"context"

	"pdf-study-agent/internal/domain"
	"pdf-study-agent/internal/logger"
	"pdf-study-agent/internal/quizgen"
	"pdf-study-agent/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// StudyService runs the study workflow. Every method performs at most one
// state transition and saves the session only when that transition commits.
type StudyService interface {
	StartSession(ctx context.Context) (domain.SessionState, error)
	GetSession(ctx context.Context, sessionID string) (domain.SessionState, error)
	// UploadDocument resets the session, extracts the document and summarizes it.
	UploadDocument(ctx context.Context, sessionID, fileName string, data []byte) (domain.SessionState, error)
	RegenerateSummary(ctx context.Context, sessionID string) (domain.SessionState, error)
	GenerateQuiz(ctx context.Context, sessionID string) (domain.SessionState, error)
	// SubmitAnswers freezes the selections (question number to raw selection) and scores them.
	SubmitAnswers(ctx context.Context, sessionID string, selections map[int]string) (domain.SessionState, error)
	Results(ctx context.Context, sessionID string) (*domain.ScoreResult, error)
	Reset(ctx context.Context, sessionID string) (domain.SessionState, error)
	// EndSession discards the session entirely.
	EndSession(ctx context.Context, sessionID string) error
}

type studyService struct {
	store         SessionStore
	extractor     domain.TextExtractor
	generator     domain.TextGenerator
	minTextLength int
	sfGroup       singleflight.Group
}

// NewStudyService wires the workflow to its collaborators.
func NewStudyService(store SessionStore, extractor domain.TextExtractor, generator domain.TextGenerator, minTextLength int) StudyService {
	if minTextLength <= 0 {
		minTextLength = domain.MinExtractedTextLength
	}
	return &studyService{
		store:         store,
		extractor:     extractor,
		generator:     generator,
		minTextLength: minTextLength,
	}
}

func (s *studyService) StartSession(ctx context.Context) (domain.SessionState, error) {
	state := domain.NewSession(util.NewULID())
	if err := s.store.Save(ctx, state); err != nil {
		return domain.SessionState{}, err
	}
	logger.Get().Info("Started study session", zap.String("session_id", state.ID))
	return state, nil
}

func (s *studyService) GetSession(ctx context.Context, sessionID string) (domain.SessionState, error) {
	return s.store.Load(ctx, sessionID)
}

func (s *studyService) UploadDocument(ctx context.Context, sessionID, fileName string, data []byte) (domain.SessionState, error) {
	l := logger.Get().With(zap.String("session_id", sessionID), zap.String("file", fileName))

	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return state, err
	}

	// A new document always starts from a clean session, even if it later fails.
	idle := state.Reset()
	if err := s.store.Save(ctx, idle); err != nil {
		return state, err
	}

	text, err := s.extractor.Extract(ctx, fileName, data)
	if err != nil {
		l.Warn("Document extraction failed", zap.Error(err))
		return idle, err
	}

	// Check the length before spending a model call on it.
	if err := domain.CheckExtractedText(text, s.minTextLength); err != nil {
		l.Info("Rejected document", zap.Error(err))
		return idle, err
	}

	summary, err := s.generator.Generate(ctx, quizgen.SummaryPrompt(text))
	if err != nil {
		l.Warn("Summary generation failed", zap.String("model", s.generator.Name()), zap.Error(err))
		return idle, err
	}

	next, err := idle.AcceptDocument(fileName, text, summary, s.minTextLength)
	if err != nil {
		return idle, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return idle, err
	}
	l.Info("Document summarized", zap.Int("summary_length", len(summary)))
	return next, nil
}

func (s *studyService) RegenerateSummary(ctx context.Context, sessionID string) (domain.SessionState, error) {
	v, err, _ := s.sfGroup.Do(flightKey("summary", sessionID), func() (interface{}, error) {
		ctx := detach(ctx)
		state, err := s.store.Load(ctx, sessionID)
		if err != nil {
			return state, err
		}
		if state.Status == domain.StatusIdle || state.ExtractedText == "" {
			return state, domain.NewInvalidTransitionError(state.Status, "regenerate the summary")
		}

		summary, err := s.generator.Generate(ctx, quizgen.SummaryPrompt(state.ExtractedText))
		if err != nil {
			logger.Get().Warn("Summary regeneration failed", zap.String("session_id", sessionID), zap.Error(err))
			return state, err
		}
		return s.commit(ctx, state, func(st domain.SessionState) (domain.SessionState, error) {
			return st.ReplaceSummary(summary)
		})
	})
	return v.(domain.SessionState), err
}

func (s *studyService) GenerateQuiz(ctx context.Context, sessionID string) (domain.SessionState, error) {
	v, err, shared := s.sfGroup.Do(flightKey("quiz", sessionID), func() (interface{}, error) {
		return s.generateQuiz(detach(ctx), sessionID)
	})
	if shared {
		logger.Get().Debug("Quiz generation shared with a concurrent request", zap.String("session_id", sessionID))
	}
	return v.(domain.SessionState), err
}

func (s *studyService) generateQuiz(ctx context.Context, sessionID string) (domain.SessionState, error) {
	l := logger.Get().With(zap.String("session_id", sessionID))

	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return state, err
	}
	if state.Status == domain.StatusIdle || state.ExtractedText == "" {
		return state, domain.NewInvalidTransitionError(state.Status, "create a quiz")
	}

	raw, err := s.generator.Generate(ctx, quizgen.QuizPrompt(state.ExtractedText))
	if err != nil {
		// Transport, safety and empty responses leave the session as it was.
		l.Warn("Quiz generation failed", zap.String("model", s.generator.Name()), zap.Error(err))
		return state, err
	}

	quiz, parseErr := quizgen.ParseQuiz(raw)
	if parseErr != nil {
		l.Warn("Quiz response rejected", zap.Error(parseErr))
		discarded, err := s.commit(ctx, state, domain.SessionState.DiscardQuiz)
		if err != nil {
			return state, err
		}
		return discarded, parseErr
	}

	next, err := s.commit(ctx, state, func(st domain.SessionState) (domain.SessionState, error) {
		return st.AttachQuiz(quiz)
	})
	if err != nil {
		return state, err
	}
	l.Info("Quiz ready",
		zap.Int("questions", len(quiz.Questions)),
		zap.Int("playable", quiz.Len()),
		zap.Int("warnings", len(quiz.Warnings)))
	return next, nil
}

func (s *studyService) SubmitAnswers(ctx context.Context, sessionID string, selections map[int]string) (domain.SessionState, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return state, err
	}
	next, err := s.commit(ctx, state, func(st domain.SessionState) (domain.SessionState, error) {
		submitted, err := st.Submit(selections)
		if err != nil {
			return st, err
		}
		return submitted.Score()
	})
	if err != nil {
		return state, err
	}
	logger.Get().Info("Quiz scored",
		zap.String("session_id", sessionID),
		zap.Int("score", next.Result.Score),
		zap.Int("total", next.Result.Total))
	return next, nil
}

func (s *studyService) Results(ctx context.Context, sessionID string) (*domain.ScoreResult, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Status != domain.StatusScored || state.Result == nil {
		return nil, domain.NewInvalidTransitionError(state.Status, "view results")
	}
	return state.Result, nil
}

func (s *studyService) Reset(ctx context.Context, sessionID string) (domain.SessionState, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return state, err
	}
	return s.commit(ctx, state, func(st domain.SessionState) (domain.SessionState, error) {
		return st.Reset(), nil
	})
}

func (s *studyService) EndSession(ctx context.Context, sessionID string) error {
	if _, err := s.store.Load(ctx, sessionID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	logger.Get().Info("Ended study session", zap.String("session_id", sessionID))
	return nil
}

// commit applies a transition and saves the result. On any failure the
// loaded state is returned and nothing is written.
func (s *studyService) commit(ctx context.Context, state domain.SessionState, transition func(domain.SessionState) (domain.SessionState, error)) (domain.SessionState, error) {
	next, err := transition(state)
	if err != nil {
		return state, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return state, err
	}
	return next, nil
}

// detach keeps a shared generation running when the caller that started it
// goes away; the generators apply their own timeout.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func flightKey(action, sessionID string) string {
	return action + ":" + sessionID
}
