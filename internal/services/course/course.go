// Package course отдаёт каталог курсов с кэшированием в Redis.
package course

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/storage/repository"
)

// Сообщения об ошибках для клиента.
const (
	MsgCourseNotFound     = "Course not found"
	MsgCourseNotAvailable = "Course is not available"
)

const (
	activeCoursesKey = "courses:active"
	courseKeyPrefix  = "course:"
)

// Repository источник данных о курсах.
type Repository interface {
	ListActiveCourses(ctx context.Context) ([]*models.Course, error)
	GetCourse(ctx context.Context, courseID string) (*models.Course, error)
}

// Cache кэш значений в JSON.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service читает курсы через кэш. Ошибки кэша не прерывают запрос: данные читаются из хранилища.
type Service struct {
	log   *slog.Logger
	repo  Repository
	cache Cache
	ttl   time.Duration
}

// NewService создаёт Service. cache может быть nil, тогда кэширование отключено.
func NewService(log *slog.Logger, repo Repository, cache Cache, ttl time.Duration) *Service {
	return &Service{log: log, repo: repo, cache: cache, ttl: ttl}
}

// List возвращает активные курсы, новые первыми.
func (s *Service) List(ctx context.Context) ([]*models.Course, error) {
	const op = "course.List"

	var courses []*models.Course
	if s.fromCache(ctx, activeCoursesKey, &courses) {
		return courses, nil
	}

	courses, err := s.repo.ListActiveCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, activeCoursesKey, courses)
	return courses, nil
}

// Get возвращает курс по ID независимо от активности.
// Неизвестный или некорректный ID даёт NotFound.
func (s *Service) Get(ctx context.Context, courseID string) (*models.Course, error) {
	const op = "course.Get"

	if _, err := uuid.Parse(courseID); err != nil {
		return nil, apperr.Wrap(apperr.NotFound, MsgCourseNotFound, err)
	}

	key := courseKeyPrefix + courseID
	var cached models.Course
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	c, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Wrap(apperr.NotFound, MsgCourseNotFound, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, key, c)
	return c, nil
}

// GetActive возвращает курс, доступный в каталоге.
func (s *Service) GetActive(ctx context.Context, courseID string) (*models.Course, error) {
	c, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, apperr.New(apperr.NotFound, MsgCourseNotAvailable)
	}
	return c, nil
}

func (s *Service) fromCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn("course cache read failed", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("course cache write failed", slog.String("key", key), sl.Err(err))
	}
}
