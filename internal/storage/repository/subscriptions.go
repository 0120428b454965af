package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/course-hub/internal/models"
)

// SubscriptionExists проверяет наличие подписки пользователя на курс.
// Это предварительная проверка, окончательно дубликаты отсекает уникальный индекс.
func (s *Storage) SubscriptionExists(ctx context.Context, userUID, courseID string) (bool, error) {
	const op = "storage.SubscriptionExists"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM subscriptions WHERE user_uid = $1 AND course_id = $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, courseID).Scan(&exists); err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateSubscription вставляет подписку. Нарушение уникальности (user_uid, course_id)
// возвращается как ErrAlreadyExists.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO subscriptions (user_uid, course_id, price_paid, original_price,
			      promo_code_used, discount_applied)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, subscribed_at`
	if err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.CourseID, sub.PricePaid, sub.OriginalPrice,
		sub.PromoCodeUsed, sub.DiscountApplied,
	).Scan(&sub.ID, &sub.SubscribedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &sub, nil
}

func scanSubscription(row rowScanner, sub *models.Subscription) error {
	var promo sql.NullString
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.CourseID, &sub.PricePaid, &sub.OriginalPrice,
		&promo, &sub.DiscountApplied, &sub.SubscribedAt); err != nil {
		return err
	}
	if promo.Valid {
		sub.PromoCodeUsed = &promo.String
	}
	return nil
}

// ListSubscriptionsByUser возвращает подписки пользователя вместе с курсами, новые первыми.
func (s *Storage) ListSubscriptionsByUser(ctx context.Context, userUID string) ([]*models.SubscriptionWithCourse, error) {
	const op = "storage.ListSubscriptionsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT s.id, s.user_uid, s.course_id, s.price_paid, s.original_price,
			      s.promo_code_used, s.discount_applied, s.subscribed_at,
			      ` + courseColumns + `
			  FROM subscriptions s
			  JOIN courses c ON c.id = s.course_id
			  WHERE s.user_uid = $1
			  ORDER BY s.subscribed_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return []*models.SubscriptionWithCourse{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.SubscriptionWithCourse, 0)
	for rows.Next() {
		var item models.SubscriptionWithCourse
		if err = scanJoined(rows, &item); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanJoined(row rowScanner, item *models.SubscriptionWithCourse) error {
	var promo, videoURL, previewID sql.NullString
	c := &item.Course
	sub := &item.Subscription
	if err := row.Scan(
		&sub.ID, &sub.UserUID, &sub.CourseID, &sub.PricePaid, &sub.OriginalPrice,
		&promo, &sub.DiscountApplied, &sub.SubscribedAt,
		&c.ID, &c.Title, &c.Description, &c.Price, &c.Thumbnail, &c.Duration,
		&c.Instructor, &c.Level, &c.Modules, &videoURL, &previewID, &c.IsActive, &c.CreatedAt,
	); err != nil {
		return err
	}
	if promo.Valid {
		sub.PromoCodeUsed = &promo.String
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

// GetSubscription возвращает подписку пользователя на курс или ErrNotFound.
func (s *Storage) GetSubscription(ctx context.Context, userUID, courseID string) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_uid, course_id, price_paid, original_price,
			      promo_code_used, discount_applied, subscribed_at
			  FROM subscriptions
			  WHERE user_uid = $1 AND course_id = $2`
	var sub models.Subscription
	if err := scanSubscription(s.DB.QueryRowContext(ctx, query, userUID, courseID), &sub); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translate(err))
	}
	return &sub, nil
}
