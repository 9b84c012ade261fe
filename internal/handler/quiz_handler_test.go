package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"detran-quiz/internal/config"
	"detran-quiz/internal/domain"
	"detran-quiz/internal/dto"
	"detran-quiz/internal/handler"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockQuizService struct {
	ListTopicsFunc    func(ctx context.Context) ([]dto.TopicResponse, error)
	ListSubtopicsFunc func(ctx context.Context, topicID int64) ([]dto.SubtopicResponse, error)
	ListQuestionsFunc func(ctx context.Context, query dto.QuestionQuery) ([]dto.QuestionResponse, error)
	GetStatsFunc      func(ctx context.Context, query dto.QuestionQuery) (*dto.StatsResponse, error)
	SubmitAnswerFunc  func(ctx context.Context, req *dto.SubmitRequest) (*dto.SubmitResponse, error)
}

func (m *MockQuizService) ListTopics(ctx context.Context) ([]dto.TopicResponse, error) {
	if m.ListTopicsFunc != nil {
		return m.ListTopicsFunc(ctx)
	}
	panic("MockQuizService.ListTopicsFunc not implemented")
}

func (m *MockQuizService) ListSubtopics(ctx context.Context, topicID int64) ([]dto.SubtopicResponse, error) {
	if m.ListSubtopicsFunc != nil {
		return m.ListSubtopicsFunc(ctx, topicID)
	}
	panic("MockQuizService.ListSubtopicsFunc not implemented")
}

func (m *MockQuizService) ListQuestions(ctx context.Context, query dto.QuestionQuery) ([]dto.QuestionResponse, error) {
	if m.ListQuestionsFunc != nil {
		return m.ListQuestionsFunc(ctx, query)
	}
	panic("MockQuizService.ListQuestionsFunc not implemented")
}

func (m *MockQuizService) GetStats(ctx context.Context, query dto.QuestionQuery) (*dto.StatsResponse, error) {
	if m.GetStatsFunc != nil {
		return m.GetStatsFunc(ctx, query)
	}
	panic("MockQuizService.GetStatsFunc not implemented")
}

func (m *MockQuizService) SubmitAnswer(ctx context.Context, req *dto.SubmitRequest) (*dto.SubmitResponse, error) {
	if m.SubmitAnswerFunc != nil {
		return m.SubmitAnswerFunc(ctx, req)
	}
	panic("MockQuizService.SubmitAnswerFunc not implemented")
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type stubCache struct {
	domain.Cache
	pingErr error
}

func (s stubCache) Ping(context.Context) error { return s.pingErr }

func newTestApp(svc *MockQuizService, db handler.Pinger, cache domain.Cache) *fiber.App {
	app := handler.NewApp(config.ServerConfig{})
	handler.RegisterRoutes(app, handler.NewQuizHandler(svc), handler.NewHealthHandler(db, cache))
	return app
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, v), string(body))
}

func int64Ptr(v int64) *int64 { return &v }

func TestQuizHandler_ListTopics(t *testing.T) {
	svc := &MockQuizService{
		ListTopicsFunc: func(ctx context.Context) ([]dto.TopicResponse, error) {
			return []dto.TopicResponse{{ID: 1, Name: "Legislação de Trânsito"}}, nil
		},
	}
	app := newTestApp(svc, stubPinger{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/topics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var topics []dto.TopicResponse
	decodeBody(t, resp, &topics)
	assert.Equal(t, "Legislação de Trânsito", topics[0].Name)
}

func TestQuizHandler_ListSubtopics(t *testing.T) {
	t.Run("valid id", func(t *testing.T) {
		var gotID int64
		svc := &MockQuizService{
			ListSubtopicsFunc: func(ctx context.Context, topicID int64) ([]dto.SubtopicResponse, error) {
				gotID = topicID
				return []dto.SubtopicResponse{}, nil
			},
		}
		resp, err := newTestApp(svc, stubPinger{}, nil).Test(httptest.NewRequest("GET", "/topics/2/subtopics", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, int64(2), gotID)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "[]", string(body))
	})

	t.Run("non numeric id", func(t *testing.T) {
		resp, err := newTestApp(&MockQuizService{}, stubPinger{}, nil).Test(httptest.NewRequest("GET", "/topics/abc/subtopics", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, string(domain.CodeInvalidInput), body.Code)
	})
}

func TestQuizHandler_ListQuestions(t *testing.T) {
	t.Run("passes filters", func(t *testing.T) {
		var got dto.QuestionQuery
		svc := &MockQuizService{
			ListQuestionsFunc: func(ctx context.Context, query dto.QuestionQuery) ([]dto.QuestionResponse, error) {
				got = query
				return []dto.QuestionResponse{{ID: "01J", QuestionText: "Q", Options: []string{"a", "b", "-", "-"}}}, nil
			},
		}
		req := httptest.NewRequest("GET", "/questions?user_id=aluno-1&topic_id=1&subtopic_id=101", nil)
		resp, err := newTestApp(svc, stubPinger{}, nil).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, dto.QuestionQuery{UserID: "aluno-1", TopicID: int64Ptr(1), SubtopicID: int64Ptr(101)}, got)

		var raw []map[string]interface{}
		decodeBody(t, resp, &raw)
		require.Len(t, raw, 1)
		for _, key := range []string{"id", "topic_id", "subtopic_id", "question_text", "options", "correct_option", "explanation", "trick_tip", "image_url"} {
			assert.Contains(t, raw[0], key)
		}
	})

	t.Run("missing user is 400", func(t *testing.T) {
		svc := &MockQuizService{
			ListQuestionsFunc: func(ctx context.Context, query dto.QuestionQuery) ([]dto.QuestionResponse, error) {
				return nil, domain.NewMissingInputError("user_id")
			},
		}
		resp, err := newTestApp(svc, stubPinger{}, nil).Test(httptest.NewRequest("GET", "/questions", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "user_id obrigatório", body.Error)
	})

	t.Run("storage message is returned verbatim", func(t *testing.T) {
		svc := &MockQuizService{
			ListQuestionsFunc: func(ctx context.Context, query dto.QuestionQuery) ([]dto.QuestionResponse, error) {
				return nil, domain.NewStorageError(errors.New(`relation "questions" does not exist`))
			},
		}
		resp, err := newTestApp(svc, stubPinger{}, nil).Test(httptest.NewRequest("GET", "/questions?user_id=u", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, `relation "questions" does not exist`, body.Error)
	})

	t.Run("bad topic id", func(t *testing.T) {
		resp, err := newTestApp(&MockQuizService{}, stubPinger{}, nil).Test(httptest.NewRequest("GET", "/questions?user_id=u&topic_id=x", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestQuizHandler_GetStats(t *testing.T) {
	svc := &MockQuizService{
		GetStatsFunc: func(ctx context.Context, query dto.QuestionQuery) (*dto.StatsResponse, error) {
			assert.Equal(t, "aluno-1", query.UserID)
			return &dto.StatsResponse{Correct: 2, Wrong: 1}, nil
		},
	}
	resp, err := newTestApp(svc, stubPinger{}, nil).Test(httptest.NewRequest("GET", "/stats?user_id=aluno-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stats dto.StatsResponse
	decodeBody(t, resp, &stats)
	assert.Equal(t, dto.StatsResponse{Correct: 2, Wrong: 1}, stats)
}

func TestQuizHandler_SubmitAnswer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &MockQuizService{
			SubmitAnswerFunc: func(ctx context.Context, req *dto.SubmitRequest) (*dto.SubmitResponse, error) {
				assert.Equal(t, "u", req.UserID)
				assert.Equal(t, "q", req.QuestionID)
				require.NotNil(t, req.IsCorrect)
				assert.False(t, *req.IsCorrect)
				return &dto.SubmitResponse{Status: "success"}, nil
			},
		}
		body, _ := json.Marshal(map[string]interface{}{"user_id": "u", "question_id": "q", "is_correct": false})
		req := httptest.NewRequest("POST", "/submit", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newTestApp(svc, stubPinger{}, nil).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var out dto.SubmitResponse
		decodeBody(t, resp, &out)
		assert.Equal(t, "success", out.Status)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/submit", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newTestApp(&MockQuizService{}, stubPinger{}, nil).Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("ok with degraded cache", func(t *testing.T) {
		app := newTestApp(&MockQuizService{}, stubPinger{}, stubCache{pingErr: errors.New("redis down")})
		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body dto.HealthResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, dto.HealthResponse{Status: "ok", Cache: "unavailable"}, body)
	})

	t.Run("database down", func(t *testing.T) {
		app := newTestApp(&MockQuizService{}, stubPinger{err: errors.New("connection refused")}, nil)
		resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		var body dto.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "connection refused", body.Error)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	resp, err := newTestApp(&MockQuizService{}, stubPinger{}, nil).Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCORSHeader(t *testing.T) {
	svc := &MockQuizService{
		ListTopicsFunc: func(ctx context.Context) ([]dto.TopicResponse, error) { return []dto.TopicResponse{}, nil },
	}
	req := httptest.NewRequest("GET", "/topics", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := newTestApp(svc, stubPinger{}, nil).Test(req)
	require.NoError(t, err)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
