package entryresolve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/naluwan/wsa-backend/internal/http/middlewarectx"
	"github.com/naluwan/wsa-backend/internal/models"
)

// MockService реализует интерфейс entryresolve.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Resolve(ctx context.Context, userUID, courseCode string, now time.Time) (*models.Destination, error) {
	args := m.Called(ctx, userUID, courseCode, now)
	var dest *models.Destination
	if v := args.Get(0); v != nil {
		dest = v.(*models.Destination)
	}
	return dest, args.Error(1)
}

func TestResolveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		courseCode     string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:       "владелец курса направляется к уроку",
			courseCode: "go-basics",
			userUID:    "user-1",
			setupMock: func(m *MockService) {
				m.On("Resolve", mock.Anything, "user-1", "go-basics", mock.Anything).
					Return(&models.Destination{Kind: models.DestinationResumeLesson, UnitID: 42}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"kind":"resume_lesson"`,
		},
		{
			name:       "незакрытый заказ направляется к оплате",
			courseCode: "go-basics",
			userUID:    "user-1",
			setupMock: func(m *MockService) {
				m.On("Resolve", mock.Anything, "user-1", "go-basics", mock.Anything).
					Return(&models.Destination{Kind: models.DestinationPaymentStep, OrderNo: "order-1"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"order_no":"order-1"`,
		},
		{
			name:           "без аутентификации",
			courseCode:     "go-basics",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"user identification missing"`,
		},
		{
			name:       "курс не найден",
			courseCode: "no-such",
			userUID:    "user-1",
			setupMock: func(m *MockService) {
				m.On("Resolve", mock.Anything, "user-1", "no-such", mock.Anything).
					Return(nil, models.ErrCourseNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"course not found"`,
		},
		{
			name:       "ошибка сервиса",
			courseCode: "go-basics",
			userUID:    "user-1",
			setupMock: func(m *MockService) {
				m.On("Resolve", mock.Anything, "user-1", "go-basics", mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to resolve entry"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/courses/"+tt.courseCode+"/entry", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("courseCode", tt.courseCode)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
