// Package enrollment оформляет подписки пользователей на курсы.
//
// Подписка создаётся один раз на пару (пользователь, курс). Проверка
// существующей подписки перед вставкой лишь сокращает число обращений к базе:
// при гонке двух запросов решает уникальный индекс хранилища, и проигравший
// запрос получает тот же Conflict, что и при предварительной проверке.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/lib/promo"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/storage/repository"
)

// Сообщения об ошибках для клиента.
const (
	MsgCourseIDRequired     = "Course ID is required"
	MsgCourseNotFound       = "Course not found"
	MsgCourseNotAvailable   = "This course is not available for subscription"
	MsgAlreadySubscribed    = "You are already subscribed to this course"
	MsgPromoRequiredForPaid = "Promo code is required for paid courses"
	MsgInvalidPromo         = "Invalid promo code"
	MsgPromoRequired        = "Promo code is required"
)

const publishTimeout = 3 * time.Second

// CourseProvider источник курсов. Неизвестный курс возвращается как apperr.NotFound.
type CourseProvider interface {
	Get(ctx context.Context, courseID string) (*models.Course, error)
}

// SubscriptionRepository хранилище подписок.
type SubscriptionRepository interface {
	SubscriptionExists(ctx context.Context, userUID, courseID string) (bool, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	ListSubscriptionsByUser(ctx context.Context, userUID string) ([]*models.SubscriptionWithCourse, error)
	GetSubscription(ctx context.Context, userUID, courseID string) (*models.Subscription, error)
}

// EventPublisher публикует события о зачислении.
type EventPublisher interface {
	PublishEnrollment(ctx context.Context, event models.EnrollmentEvent) error
}

// Metrics учёт подписок и проверок промокода.
type Metrics interface {
	SubscriptionCreated(free bool)
	SubscribeRejected(reason string)
	PromoChecked(valid bool)
}

// PromoResult результат проверки промокода.
type PromoResult struct {
	IsValid         bool
	Message         string
	Discount        float64
	OriginalPrice   *float64
	DiscountedPrice *float64
}

// Service оркестрирует оформление подписки.
type Service struct {
	log       *slog.Logger
	courses   CourseProvider
	subs      SubscriptionRepository
	promo     promo.Evaluator
	publisher EventPublisher
	metrics   Metrics
}

// NewService создаёт Service. publisher может быть nil, тогда события не публикуются.
func NewService(log *slog.Logger, courses CourseProvider, subs SubscriptionRepository,
	evaluator promo.Evaluator, publisher EventPublisher, metrics Metrics) *Service {
	return &Service{
		log:       log,
		courses:   courses,
		subs:      subs,
		promo:     evaluator,
		publisher: publisher,
		metrics:   metrics,
	}
}

// Subscribe оформляет подписку пользователя на курс.
func (s *Service) Subscribe(ctx context.Context, user *models.User, courseID, promoCode string) (*models.SubscriptionWithCourse, error) {
	const op = "enrollment.Subscribe"

	result, err := s.subscribe(ctx, user, courseID, promoCode)
	if err != nil {
		s.metrics.SubscribeRejected(apperr.KindOf(err).String())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.SubscriptionCreated(result.PricePaid == 0)
	s.publish(ctx, user, result)
	return result, nil
}

func (s *Service) subscribe(ctx context.Context, user *models.User, courseID, promoCode string) (*models.SubscriptionWithCourse, error) {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return nil, apperr.New(apperr.Invalid, MsgCourseIDRequired)
	}

	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, apperr.Wrap(apperr.NotFound, MsgCourseNotFound, err)
		}
		return nil, err
	}
	if !course.IsActive {
		return nil, apperr.New(apperr.Invalid, MsgCourseNotAvailable)
	}

	exists, err := s.subs.SubscriptionExists(ctx, user.UUID, course.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.New(apperr.Conflict, MsgAlreadySubscribed)
	}

	sub, err := s.price(course, promoCode)
	if err != nil {
		return nil, err
	}
	sub.UserUID = user.UUID
	sub.CourseID = course.ID

	created, err := s.subs.CreateSubscription(ctx, sub)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, apperr.Wrap(apperr.Conflict, MsgAlreadySubscribed, err)
		}
		return nil, err
	}
	return &models.SubscriptionWithCourse{Subscription: *created, Course: *course}, nil
}

// price рассчитывает стоимость подписки. Для платного курса промокод обязателен.
func (s *Service) price(course *models.Course, promoCode string) (models.Subscription, error) {
	sub := models.Subscription{OriginalPrice: course.Price}
	if course.Free() {
		return sub, nil
	}

	if strings.TrimSpace(promoCode) == "" {
		return sub, apperr.New(apperr.Invalid, MsgPromoRequiredForPaid)
	}
	if !s.promo.Validate(promoCode) {
		return sub, apperr.New(apperr.Invalid, MsgInvalidPromo)
	}

	code := promo.Normalize(promoCode)
	sub.PricePaid = s.promo.DiscountedPrice(course.Price)
	sub.DiscountApplied = s.promo.DiscountPercent()
	sub.PromoCodeUsed = &code
	return sub, nil
}

func (s *Service) publish(ctx context.Context, user *models.User, sub *models.SubscriptionWithCourse) {
	if s.publisher == nil {
		return
	}
	event := models.EnrollmentEvent{
		SubscriptionID: sub.ID,
		UserUID:        user.UUID,
		Email:          user.Email,
		Name:           user.Name,
		CourseID:       sub.Course.ID,
		CourseTitle:    sub.Course.Title,
		PricePaid:      sub.PricePaid,
		SubscribedAt:   sub.SubscribedAt,
	}
	if sub.PromoCodeUsed != nil {
		event.PromoCodeUsed = *sub.PromoCodeUsed
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishEnrollment(pubCtx, event); err != nil {
		s.log.Error("failed to publish enrollment event",
			slog.String("subscription_id", sub.ID), sl.Err(err))
	}
}

// MyCourses возвращает подписки пользователя, новые первыми. Без подписок возвращается пустой срез.
func (s *Service) MyCourses(ctx context.Context, userUID string) ([]*models.SubscriptionWithCourse, error) {
	const op = "enrollment.MyCourses"

	subs, err := s.subs.ListSubscriptionsByUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subs == nil {
		subs = []*models.SubscriptionWithCourse{}
	}
	return subs, nil
}

// Status возвращает подписку пользователя на курс или nil, если её нет.
func (s *Service) Status(ctx context.Context, userUID, courseID string) (*models.Subscription, error) {
	const op = "enrollment.Status"

	sub, err := s.subs.GetSubscription(ctx, userUID, strings.TrimSpace(courseID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// ValidatePromo проверяет промокод и, если указан курс, считает цену со скидкой.
// Неизвестный курс не является ошибкой: цены в ответе остаются пустыми.
func (s *Service) ValidatePromo(ctx context.Context, promoCode, courseID string) (*PromoResult, error) {
	const op = "enrollment.ValidatePromo"

	if strings.TrimSpace(promoCode) == "" {
		return nil, apperr.New(apperr.Invalid, MsgPromoRequired)
	}

	valid := s.promo.Validate(promoCode)
	s.metrics.PromoChecked(valid)
	if !valid {
		return &PromoResult{IsValid: false, Message: MsgInvalidPromo}, nil
	}

	discount := s.promo.DiscountPercent()
	result := &PromoResult{
		IsValid:  true,
		Discount: discount,
		Message:  fmt.Sprintf("%g%% discount applied!", discount),
	}

	if courseID = strings.TrimSpace(courseID); courseID != "" {
		course, err := s.courses.Get(ctx, courseID)
		switch {
		case err == nil:
			original := course.Price
			discounted := s.promo.DiscountedPrice(course.Price)
			result.OriginalPrice = &original
			result.DiscountedPrice = &discounted
		case apperr.Is(err, apperr.NotFound):
		default:
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return result, nil
}
