// Package models содержит доменные структуры сервиса: пользователя, курс и подписку на курс.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя.
type User struct {
	UUID         string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта в нижнем регистре
	Name         string    // Отображаемое имя
	PasswordHash string    // Хэш пароля, клиенту не отдаётся
	CreatedAt    time.Time // Дата регистрации
}

// PublicUser представление пользователя, которое отдаётся клиенту.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public возвращает представление пользователя без хэша пароля.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.UUID, Name: u.Name, Email: u.Email}
}
