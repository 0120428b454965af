package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/course-hub/internal/migrations"
	"github.com/magabrotheeeer/course-hub/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB))

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// testDataFactory создаёт тестовые данные напрямую через Storage.
type testDataFactory struct {
	storage *Storage
}

func (f *testDataFactory) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.storage.CreateUser(context.Background(), models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: "hashedpassword",
	})
	require.NoError(t, err)
	return u
}

func (f *testDataFactory) createCourse(t *testing.T, title string, price float64, active bool) *models.Course {
	t.Helper()
	c, err := f.storage.CreateCourse(context.Background(), models.Course{
		Title:       title,
		Description: "description",
		Price:       price,
		Thumbnail:   "https://example.com/thumb.png",
		Duration:    "1 hour",
		Instructor:  "Instructor",
		Level:       models.LevelBeginner,
		Modules:     1,
		IsActive:    active,
	})
	require.NoError(t, err)
	return c
}
