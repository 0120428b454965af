package models

import "time"

// Уровни сложности курса.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// Course описывает курс каталога. Для подписки важны только Price и IsActive.
type Course struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          float64   `json:"price"`
	Thumbnail      string    `json:"thumbnail"`
	Duration       string    `json:"duration"`
	Instructor     string    `json:"instructor"`
	Level          string    `json:"level"`
	Modules        int       `json:"modules"`
	VideoURL       *string   `json:"videoUrl"`
	PreviewVideoID *string   `json:"previewVideoId"`
	IsActive       bool      `json:"isActive"`
	IsFree         bool      `json:"isFree"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Free сообщает, бесплатен ли курс.
func (c *Course) Free() bool {
	return c.Price == 0
}
