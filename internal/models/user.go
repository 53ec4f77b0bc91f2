// Package models содержит доменную модель пользователя сервиса:
// учётные данные, демографию, ответы на вопросы анкеты и геопозицию.
// Структуры используются в бизнес‑логике, при работе с хранилищем
// и при сериализации HTTP‑ответов.
package models

import "time"

// HobbyKeys — семь фиксированных слотов анкеты. Ответы пользователя
// хранятся строго под этими ключами.
var HobbyKeys = []string{"hobby1", "hobby2", "hobby3", "hobby4", "hobby5", "hobby6", "hobby7"}

// Hobbies хранит ответы пользователя на вопросы анкеты: ключ слота -> вариант ответа.
type Hobbies map[string]string

// Location представляет геопозицию пользователя. Долгота и широта
// устанавливаются только парой, частичное заполнение недопустимо.
type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// User представляет зарегистрированного пользователя сервиса.
// PasswordHash никогда не попадает в JSON‑ответы.
type User struct {
	UID          string    `json:"uid"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`
	Gender       string    `json:"gender"`
	Hobbies      Hobbies   `json:"hobbies,omitempty"`
	Location     *Location `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
