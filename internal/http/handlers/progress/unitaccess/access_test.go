package unitaccess

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/naluwan/wsa-backend/internal/http/middlewarectx"
	"github.com/naluwan/wsa-backend/internal/models"
)

// MockService реализует интерфейс unitaccess.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Access(ctx context.Context, userUID string, unitID int) (bool, error) {
	args := m.Called(ctx, userUID, unitID)
	return args.Bool(0), args.Error(1)
}

func TestAccessHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		unitID         string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "владелец курса имеет доступ",
			unitID:  "42",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Access", mock.Anything, "user-1", 42).Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"can_view":true`,
		},
		{
			name:    "аноним видит бесплатное превью",
			unitID:  "42",
			userUID: "",
			setupMock: func(m *MockService) {
				m.On("Access", mock.Anything, "", 42).Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"can_view":true`,
		},
		{
			name:    "аноним не видит платный урок",
			unitID:  "43",
			userUID: "",
			setupMock: func(m *MockService) {
				m.On("Access", mock.Anything, "", 43).Return(false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"can_view":false`,
		},
		{
			name:           "некорректный идентификатор урока",
			unitID:         "abc",
			userUID:        "user-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid unit id"`,
		},
		{
			name:    "урок не найден",
			unitID:  "99",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Access", mock.Anything, "user-1", 99).Return(false, models.ErrUnitNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"unit not found"`,
		},
		{
			name:    "ошибка сервиса",
			unitID:  "42",
			userUID: "user-1",
			setupMock: func(m *MockService) {
				m.On("Access", mock.Anything, "user-1", 42).Return(false, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to check access"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/units/"+tt.unitID+"/access", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("unitID", tt.unitID)
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
