package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/course-hub/internal/models"
)

const courseColumns = `c.id, c.title, c.description, c.price, c.thumbnail, c.duration,
			      c.instructor, c.level, c.modules, c.video_url, c.preview_video_id,
			      c.is_active, c.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner, c *models.Course) error {
	var videoURL, previewID sql.NullString
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Price, &c.Thumbnail, &c.Duration,
		&c.Instructor, &c.Level, &c.Modules, &videoURL, &previewID, &c.IsActive, &c.CreatedAt); err != nil {
		return err
	}
	if videoURL.Valid {
		c.VideoURL = &videoURL.String
	}
	if previewID.Valid {
		c.PreviewVideoID = &previewID.String
	}
	c.IsFree = c.Free()
	return nil
}

// ListActiveCourses возвращает активные курсы, новые первыми.
func (s *Storage) ListActiveCourses(ctx context.Context) ([]*models.Course, error) {
	const op = "storage.ListActiveCourses"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + courseColumns + `
			  FROM courses c
			  WHERE c.is_active
			  ORDER BY c.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Course, 0)
	for rows.Next() {
		var c models.Course
		if err = scanCourse(rows, &c); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetCourse возвращает курс по ID независимо от его активности.
func (s *Storage) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	const op = "storage.GetCourse"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + courseColumns + `
			  FROM courses c
			  WHERE c.id = $1`
	var c models.Course
	if err := scanCourse(s.DB.QueryRowContext(ctx, query, courseID), &c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &c, nil
}

// CreateCourse добавляет курс в каталог.
func (s *Storage) CreateCourse(ctx context.Context, c models.Course) (*models.Course, error) {
	const op = "storage.CreateCourse"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO courses (title, description, price, thumbnail, duration,
			      instructor, level, modules, video_url, preview_video_id, is_active)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id, created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		c.Title, c.Description, c.Price, c.Thumbnail, c.Duration, c.Instructor,
		c.Level, c.Modules, c.VideoURL, c.PreviewVideoID, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	c.IsFree = c.Free()
	return &c, nil
}
