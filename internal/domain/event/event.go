package event

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"not null;column:name" json:"name"`
	Slug     string    `gorm:"uniqueIndex;column:slug" json:"slug"`
	Status   string    `gorm:"not null;default:'draft';column:status" json:"status"`
	StartsAt *time.Time `gorm:"column:starts_at" json:"starts_at,omitempty"`
	EndsAt   *time.Time `gorm:"column:ends_at" json:"ends_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Event) TableName() string { return "event" }
