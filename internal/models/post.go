package models

import (
	"time"

	"gorm.io/gorm"
)

// PosterDetails is the denormalized author snapshot stored with each post.
// It is free text, not a foreign key to User.
type PosterDetails struct {
	Author string `json:"author"`
	Email  string `json:"email"`
}

// Post represents a blog post. The sponsored (isSpecial) and featured flags
// are independent; both may be set or unset on any post.
type Post struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Category      string         `gorm:"not null;index" json:"category"`
	Content       string         `gorm:"type:text;not null" json:"content"`
	ImageURL      string         `json:"imageUrl"`
	DatePosted    time.Time      `gorm:"index" json:"datePosted"`
	PosterDetails PosterDetails  `gorm:"embedded;embeddedPrefix:poster_" json:"posterDetails"`
	Tags          []string       `gorm:"serializer:json" json:"tags"`
	IsSpecial     bool           `gorm:"index;default:false" json:"isSpecial"`
	Featured      bool           `gorm:"index;default:false" json:"featured"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate defaults the publish timestamp to the moment of creation.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.DatePosted.IsZero() {
		p.DatePosted = time.Now().UTC()
	}
	return nil
}
