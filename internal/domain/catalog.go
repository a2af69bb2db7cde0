package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewID возвращает новый сортируемый по времени идентификатор (UUIDv7).
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// Game соответствует таблице games.
// AssetCount это денормализованное число одобренных ассетов игры.
type Game struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Slug       string    `json:"slug" db:"slug" gorm:"uniqueIndex;not null"`
	Name       string    `json:"name" db:"name" gorm:"not null"`
	AssetCount int       `json:"assetCount" db:"asset_count" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"lastUpdated" db:"updated_at"`
}

func (Game) TableName() string {
	return "games"
}

func (g *Game) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = NewID()
	}
	return nil
}

// Category соответствует таблице categories.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Slug      string    `json:"slug" db:"slug" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name" db:"name" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = NewID()
	}
	return nil
}

// GameCategory связывает игру и категорию (many-to-many).
type GameCategory struct {
	GameID     uuid.UUID `json:"gameId" db:"game_id" gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `json:"categoryId" db:"category_id" gorm:"type:uuid;primaryKey"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

func (GameCategory) TableName() string {
	return "game_categories"
}

// Tag соответствует таблице tags. Color хранится как "#rrggbb".
type Tag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey"`
	Slug      string    `json:"slug" db:"slug" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name" db:"name" gorm:"not null"`
	Color     *string   `json:"color" db:"color"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = NewID()
	}
	return nil
}
