// Package promo реализует проверку глобального промокода и расчёт цены со скидкой.
//
// В системе ровно один промокод и один процент скидки. Evaluator не хранит
// изменяемого состояния и безопасен для конкурентного использования.
package promo

import (
	"fmt"
	"math"
	"strings"
)

// Evaluator проверяет промокоды относительно настроенного значения.
type Evaluator struct {
	code            string
	discountPercent float64
}

// NewEvaluator создаёт Evaluator. Процент скидки должен лежать в диапазоне 0..100.
func NewEvaluator(code string, discountPercent float64) (Evaluator, error) {
	const op = "promo.NewEvaluator"
	code = strings.TrimSpace(code)
	if code == "" {
		return Evaluator{}, fmt.Errorf("%s: empty promo code", op)
	}
	if discountPercent < 0 || discountPercent > 100 || math.IsNaN(discountPercent) {
		return Evaluator{}, fmt.Errorf("%s: discount %v out of range 0..100", op, discountPercent)
	}
	return Evaluator{
		code:            strings.ToUpper(code),
		discountPercent: discountPercent,
	}, nil
}

// Validate сравнивает код с настроенным без учёта регистра и пробелов по краям.
func (e Evaluator) Validate(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" || e.code == "" {
		return false
	}
	return strings.EqualFold(code, e.code)
}

// DiscountPercent возвращает глобальный процент скидки.
func (e Evaluator) DiscountPercent() float64 {
	return e.discountPercent
}

// Normalize приводит код к виду, в котором он сохраняется в подписке.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DiscountedPrice применяет глобальную скидку к цене.
func (e Evaluator) DiscountedPrice(originalPrice float64) float64 {
	return ComputeDiscountedPrice(originalPrice, e.discountPercent)
}

// ComputeDiscountedPrice возвращает originalPrice * (1 - discountPercent/100),
// округлённую до целых центов (половина округляется от нуля).
//
// Цена переводится в центы до применения скидки, поэтому 199.99 при 50% даёт 100.00.
func ComputeDiscountedPrice(originalPrice, discountPercent float64) float64 {
	if originalPrice <= 0 {
		return 0
	}
	cents := math.Round(originalPrice * 100)
	discounted := math.Round(cents * (100 - discountPercent) / 100)
	return discounted / 100
}
