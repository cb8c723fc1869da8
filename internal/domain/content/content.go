package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

type Sponsor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	LogoURL     string    `gorm:"column:logo_url" json:"logoUrl"`
	Website     string    `gorm:"column:website" json:"website,omitempty"`
	Tier        string    `gorm:"column:tier;index" json:"tier,omitempty"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Order       int       `gorm:"column:sort_order" json:"order"`
	CreatedAt   time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (Sponsor) TableName() string { return "sponsor" }

func (s *Sponsor) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

type Partner struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	URL         string    `gorm:"column:url" json:"url"`
	LogoURL     string    `gorm:"column:logo_url" json:"logoUrl"`
	Active      bool      `gorm:"column:active;not null;index" json:"active"`
	Order       int       `gorm:"column:sort_order" json:"order"`
	CreatedAt   time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (Partner) TableName() string { return "partner" }

func (p *Partner) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

const (
	VideoCategoryPresentation = "presentation"
	VideoCategoryInterview    = "interview"
	VideoCategoryConference   = "conference"
	VideoCategoryWorkshop     = "workshop"
	VideoCategoryOther        = "other"
)

func ValidVideoCategory(c string) bool {
	switch c {
	case VideoCategoryPresentation, VideoCategoryInterview, VideoCategoryConference, VideoCategoryWorkshop, VideoCategoryOther:
		return true
	}
	return false
}

type Video struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"_id"`
	Title        string     `gorm:"column:title;not null" json:"title"`
	Description  string     `gorm:"column:description;type:text" json:"description"`
	URL          string     `gorm:"column:url;not null" json:"url"`
	SessionID    *uuid.UUID `gorm:"type:uuid;column:session_id;index" json:"sessionId,omitempty"`
	ThumbnailURL string     `gorm:"column:thumbnail_url" json:"thumbnailUrl"`
	Category     string     `gorm:"column:category;not null;index" json:"category"`
	Duration     string     `gorm:"column:duration" json:"duration"`
	Speaker      string     `gorm:"column:speaker" json:"speaker"`
	Date         time.Time  `gorm:"column:date;index" json:"date"`
	Featured     bool       `gorm:"column:featured;not null" json:"featured"`
	Active       bool       `gorm:"column:active;not null;index" json:"active"`
	Order        int        `gorm:"column:sort_order" json:"order"`
	CreatedAt    time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updatedAt"`
}

func (Video) TableName() string { return "video" }

func (v *Video) BeforeCreate(*gorm.DB) error {
	ensureID(&v.ID)
	if v.Category == "" {
		v.Category = VideoCategoryOther
	}
	if v.Date.IsZero() {
		v.Date = time.Now().UTC()
	}
	return nil
}

type Author struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type Message struct {
	ID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"_id"`
	Title     string                      `gorm:"column:title" json:"title"`
	Content   string                      `gorm:"column:content;type:text;not null" json:"content"`
	Authors   datatypes.JSONSlice[Author] `gorm:"column:authors" json:"authors"`
	Date      time.Time                   `gorm:"column:date" json:"date"`
	IsActive  bool                        `gorm:"column:is_active;not null;index" json:"isActive"`
	CreatedAt time.Time                   `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (Message) TableName() string { return "message" }

func (m *Message) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	if m.Date.IsZero() {
		m.Date = time.Now().UTC()
	}
	if m.Authors == nil {
		m.Authors = datatypes.JSONSlice[Author]{}
	}
	return nil
}

// Logo is the congress banner; at most one row has IsActive set.
type Logo struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	LogoURL   string    `gorm:"column:logo_url;not null" json:"logoUrl"`
	IsActive  bool      `gorm:"column:is_active;not null;index" json:"isActive"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Logo) TableName() string { return "logo" }

func (l *Logo) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
