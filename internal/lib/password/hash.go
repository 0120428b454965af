// Package password реализует функции для безопасного хеширования, проверки
// и контроля сложности паролей.
//
// GetHash создает bcrypt-хеш пароля для безопасного хранения.
// CompareHash сравнивает bcrypt-хеш с введённым паролем.
// CheckStrength проверяет минимальные требования к сложности пароля.
package password

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MinLength минимальная длина пароля.
const MinLength = 8

// MaxBytes предел bcrypt на длину пароля в байтах.
const MaxBytes = 72

var (
	// ErrTooShort пароль короче MinLength символов.
	ErrTooShort = errors.New("Password must be at least 8 characters long")
	// ErrTooWeak пароль не содержит заглавных, строчных букв или цифр.
	ErrTooWeak = errors.New("Password must contain uppercase, lowercase, and numbers")
	// ErrTooLong пароль длиннее MaxBytes байт.
	ErrTooLong = errors.New("Password must be at most 72 bytes long")
)

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CheckStrength проверяет длину пароля и наличие заглавной буквы, строчной буквы и цифры.
func CheckStrength(password string) error {
	if len([]rune(password)) < MinLength {
		return ErrTooShort
	}
	if len(password) > MaxBytes {
		return ErrTooLong
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrTooWeak
	}
	return nil
}
