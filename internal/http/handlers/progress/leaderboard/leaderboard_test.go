package leaderboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/naluwan/wsa-backend/internal/models"
)

// MockService реализует интерфейс leaderboard.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	var entries []*models.LeaderboardEntry
	if v := args.Get(0); v != nil {
		entries = v.([]*models.LeaderboardEntry)
	}
	return entries, args.Error(1)
}

func TestLeaderboardHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	entries := []*models.LeaderboardEntry{
		{Username: "alice", WeeklyXP: 120, Level: 3},
		{Username: "bob", WeeklyXP: 80, Level: 2},
	}

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "рейтинг без параметра limit",
			url:  "/leaderboard",
			setupMock: func(m *MockService) {
				m.On("Leaderboard", mock.Anything, 0).Return(entries, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"username":"alice"`,
		},
		{
			name: "рейтинг с явным limit",
			url:  "/leaderboard?limit=5",
			setupMock: func(m *MockService) {
				m.On("Leaderboard", mock.Anything, 5).Return(entries[:1], nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"weekly_xp":120`,
		},
		{
			name:           "некорректный limit",
			url:            "/leaderboard?limit=abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid limit"`,
		},
		{
			name:           "отрицательный limit",
			url:            "/leaderboard?limit=-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid limit"`,
		},
		{
			name: "ошибка сервиса",
			url:  "/leaderboard",
			setupMock: func(m *MockService) {
				m.On("Leaderboard", mock.Anything, 0).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to get leaderboard"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
