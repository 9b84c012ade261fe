// Package quizsession walks one learner through a question set fetched from the quiz API.
package quizsession

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"detran-quiz/internal/client"
	"detran-quiz/internal/dto"
	"detran-quiz/internal/logger"

	"go.uber.org/zap"
)

type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateReady    State = "ready"
	StateAnswered State = "answered"
	StateFinished State = "finished"
	StateEmpty    State = "empty"
	StateError    State = "error"
)

type Mode string

const (
	ModeAll      Mode = "all"
	ModeTopic    Mode = "topic"
	ModeSubtopic Mode = "subtopic"
)

var (
	ErrInvalidTransition = errors.New("quizsession: invalid transition")
	ErrInvalidOption     = errors.New("quizsession: option out of range")
)

// API is the part of the quiz client a session uses. *client.Client satisfies it.
type API interface {
	Questions(ctx context.Context, userID string, f client.Filter) ([]dto.QuestionResponse, error)
	Stats(ctx context.Context, userID string, f client.Filter) (*dto.StatsResponse, error)
	Submit(ctx context.Context, userID, questionID string, isCorrect bool) error
}

// SubmitResult reports the outcome of one asynchronous answer submission.
type SubmitResult struct {
	QuestionID string
	IsCorrect  bool
	Err        error
}

// View is a copy of the session state for rendering.
type View struct {
	State    State
	Question *dto.QuestionResponse
	Index    int
	Total    int
	// Selected is -1 until an option is chosen for the current question.
	Selected  int
	IsCorrect bool
	Stats     dto.StatsResponse
	Err       error
}

// Session is safe for concurrent use; submissions complete on their own goroutine.
type Session struct {
	api    API
	userID string

	mu        sync.Mutex
	state     State
	questions []dto.QuestionResponse
	index     int
	selected  int
	stats     dto.StatsResponse
	err       error
	// generation invalidates submissions that finish after a restart.
	generation int
	// saved counts successful submissions in the current generation.
	saved int
}

// statsAttempts bounds how often Start re-reads stats when answers land during the read.
const statsAttempts = 3

func New(api API, userID string) *Session {
	return &Session{api: api, userID: userID, state: StateIdle, selected: -1}
}

// Start loads a question set and can be called from any state. Stats are fetched only
// after the questions load, and a stats failure leaves the session usable.
func (s *Session) Start(ctx context.Context, mode Mode, id int64) error {
	filter, err := filterFor(mode, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.state = StateLoading
	s.questions = nil
	s.index = 0
	s.selected = -1
	s.stats = dto.StatsResponse{}
	s.saved = 0
	s.err = nil
	s.mu.Unlock()

	questions, err := s.api.Questions(ctx, s.userID, filter)

	s.mu.Lock()
	if gen != s.generation {
		// A later Start superseded this one.
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	if err != nil {
		s.state = StateError
		s.err = err
		s.mu.Unlock()
		return err
	}
	s.questions = questions
	if len(questions) == 0 {
		s.state = StateEmpty
		s.mu.Unlock()
		return nil
	}
	s.state = StateReady
	seen := s.saved
	s.mu.Unlock()

	// Server stats replace the local count. An answer saved while the read was in flight may or
	// may not be in the result, so the read is repeated until a window passes without one.
	for attempt := 1; ; attempt++ {
		stats, err := s.api.Stats(ctx, s.userID, filter)
		if err != nil {
			logger.Get().Warn("Failed to load stats", zap.String("user_id", s.userID), zap.Error(err))
			return nil
		}

		s.mu.Lock()
		if gen != s.generation {
			s.mu.Unlock()
			return nil
		}
		if s.saved == seen || attempt == statsAttempts {
			s.stats = *stats
			s.mu.Unlock()
			return nil
		}
		seen = s.saved
		s.mu.Unlock()
	}
}

// Select answers the current question and submits it in the background. The returned
// channel yields exactly one result and is then closed. Local stats change only when the
// submission succeeds; the session stays answered either way.
func (s *Session) Select(ctx context.Context, option int) (<-chan SubmitResult, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: select in state %s", ErrInvalidTransition, s.state)
	}
	q := s.questions[s.index]
	if option < 0 || option >= len(q.Options) {
		s.mu.Unlock()
		return nil, ErrInvalidOption
	}
	s.selected = option
	s.state = StateAnswered
	gen := s.generation
	s.mu.Unlock()

	result := SubmitResult{QuestionID: q.ID, IsCorrect: option == q.CorrectOption}
	ch := make(chan SubmitResult, 1)
	go func() {
		defer close(ch)
		result.Err = s.api.Submit(ctx, s.userID, result.QuestionID, result.IsCorrect)
		if result.Err != nil {
			logger.Get().Error("Failed to save progress",
				zap.String("question_id", result.QuestionID), zap.Error(result.Err))
		} else {
			s.mu.Lock()
			if gen == s.generation {
				s.saved++
				if result.IsCorrect {
					s.stats.Correct++
				} else {
					s.stats.Wrong++
				}
			}
			s.mu.Unlock()
		}
		ch <- result
	}()
	return ch, nil
}

// Next leaves the answered state, either to the next question or to finished.
func (s *Session) Next() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAnswered {
		return s.state, fmt.Errorf("%w: next in state %s", ErrInvalidTransition, s.state)
	}
	s.selected = -1
	if s.index < len(s.questions)-1 {
		s.index++
		s.state = StateReady
	} else {
		s.state = StateFinished
	}
	return s.state, nil
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		State:    s.state,
		Index:    s.index,
		Total:    len(s.questions),
		Selected: s.selected,
		Stats:    s.stats,
		Err:      s.err,
	}
	if s.index < len(s.questions) {
		q := s.questions[s.index]
		v.Question = &q
		v.IsCorrect = s.selected >= 0 && s.selected == q.CorrectOption
	}
	return v
}

func filterFor(mode Mode, id int64) (client.Filter, error) {
	switch mode {
	case ModeAll:
		return client.Filter{}, nil
	case ModeTopic:
		return client.Filter{TopicID: &id}, nil
	case ModeSubtopic:
		return client.Filter{SubtopicID: &id}, nil
	default:
		return client.Filter{}, fmt.Errorf("quizsession: unknown mode %q", mode)
	}
}
