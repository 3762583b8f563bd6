package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/naluwan/wsa-backend/internal/migrations"
	"github.com/naluwan/wsa-backend/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, userUID, username, email string, totalXP, weeklyXP int) {
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, username, email, total_xp, weekly_xp)
		VALUES ($1, $2, $3, $4, $5)`,
		userUID, username, email, totalXP, weeklyXP)
	require.NoError(t, err)
}

// CreateCourse создает тестовый курс
func (f *TestDataFactory) CreateCourse(t *testing.T, code, title string, price int, isPublished bool) {
	_, err := f.storage.DB.Exec(`INSERT INTO courses (code, title, description, price, is_published)
		VALUES ($1, $2, '', $3, $4)`,
		code, title, price, isPublished)
	require.NoError(t, err)
}

// CreateSection создает тестовый раздел курса
func (f *TestDataFactory) CreateSection(t *testing.T, courseCode, title string, orderIndex int) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO sections (course_code, title, order_index)
		VALUES ($1, $2, $3) RETURNING id`,
		courseCode, title, orderIndex).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateUnit создает тестовый урок
func (f *TestDataFactory) CreateUnit(t *testing.T, courseCode string, sectionID int, title string,
	isFreePreview bool, xpReward, orderIndex int) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO units
		(course_code, section_id, title, is_free_preview, xp_reward, order_index)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		courseCode, sectionID, title, isFreePreview, xpReward, orderIndex).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateOrder создает тестовый заказ
func (f *TestDataFactory) CreateOrder(t *testing.T, orderNo, userUID, courseCode string,
	amount int, status string, payDeadline, createdAt time.Time) {
	_, err := f.storage.DB.Exec(`INSERT INTO orders
		(order_no, user_uid, course_code, amount, status, pay_deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		orderNo, userUID, courseCode, amount, status, payDeadline, createdAt)
	require.NoError(t, err)
}

// CreateOwnership выдает тестовое владение курсом
func (f *TestDataFactory) CreateOwnership(t *testing.T, userUID, courseCode string) {
	_, err := f.storage.DB.Exec(`INSERT INTO ownerships (user_uid, course_code)
		VALUES ($1, $2)`,
		userUID, courseCode)
	require.NoError(t, err)
}

// CourseWithUnit создает курс с одним разделом и одним уроком,
// возвращает идентификатор урока.
func (f *TestDataFactory) CourseWithUnit(t *testing.T, courseCode string, isFreePreview bool, xpReward int) int {
	f.CreateCourse(t, courseCode, "Course "+courseCode, 9900, true)
	sectionID := f.CreateSection(t, courseCode, "Intro", 1)
	return f.CreateUnit(t, courseCode, sectionID, "Lesson 1", isFreePreview, xpReward, 1)
}

// VerifyOrderStatus проверяет статус заказа в БД
func VerifyOrderStatus(t *testing.T, storage *Storage, orderNo, expectedStatus string) {
	var status string
	err := storage.DB.QueryRow("SELECT status FROM orders WHERE order_no = $1", orderNo).Scan(&status)
	require.NoError(t, err)
	require.Equal(t, expectedStatus, status)
}

// VerifyXP проверяет счётчики опыта пользователя в БД
func VerifyXP(t *testing.T, storage *Storage, userUID string, expectedTotal, expectedWeekly int) {
	var total, weekly int
	err := storage.DB.QueryRow("SELECT total_xp, weekly_xp FROM users WHERE uid = $1", userUID).
		Scan(&total, &weekly)
	require.NoError(t, err)
	require.Equal(t, expectedTotal, total)
	require.Equal(t, expectedWeekly, weekly)
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
// и применяет миграции проекта.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			if err = storage.DB.Ping(); err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	err = migrations.Run(storage.DB, "../../../migrations")
	require.NoError(t, err, "Failed to run migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}

// pendingOrder собирает pending-заказ для вставки в тестах.
func pendingOrder(orderNo, userUID, courseCode string, amount int, createdAt time.Time, payWindow time.Duration) models.Order {
	return models.Order{
		OrderNo:     orderNo,
		UserUID:     userUID,
		CourseCode:  courseCode,
		Amount:      amount,
		Status:      models.OrderStatusPending,
		PayDeadline: createdAt.Add(payWindow),
		CreatedAt:   createdAt,
	}
}
