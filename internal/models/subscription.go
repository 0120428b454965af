package models

import "time"

// Subscription запись о праве пользователя на курс.
// Пара (UserUID, CourseID) уникальна, запись не изменяется после создания.
type Subscription struct {
	ID              string
	UserUID         string
	CourseID        string
	PricePaid       float64 // Фактически уплаченная сумма
	OriginalPrice   float64 // Цена курса на момент подписки
	PromoCodeUsed   *string // Промокод в верхнем регистре, nil если не применялся
	DiscountApplied float64 // Процент скидки 0..100
	SubscribedAt    time.Time
}

// SubscriptionWithCourse подписка вместе с данными курса.
type SubscriptionWithCourse struct {
	Subscription
	Course Course
}

// EnrollmentEvent событие о новой подписке, публикуется в очередь для рассылки писем.
type EnrollmentEvent struct {
	SubscriptionID string    `json:"subscription_id"`
	UserUID        string    `json:"user_uid"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	CourseID       string    `json:"course_id"`
	CourseTitle    string    `json:"course_title"`
	PricePaid      float64   `json:"price_paid"`
	PromoCodeUsed  string    `json:"promo_code_used,omitempty"`
	SubscribedAt   time.Time `json:"subscribed_at"`
}
