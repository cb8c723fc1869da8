package congress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Day struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Number    int       `gorm:"column:number;not null;uniqueIndex" json:"number"`
	Date      time.Time `gorm:"column:date" json:"date"`
	DayName   string    `gorm:"column:day_name" json:"dayName,omitempty"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Day) TableName() string { return "day" }

func (d *Day) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	if d.Date.IsZero() {
		d.Date = time.Now().UTC()
	}
	return nil
}

type Room struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Capacity  int       `gorm:"column:capacity" json:"capacity,omitempty"`
	Location  string    `gorm:"column:location" json:"location,omitempty"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Room) TableName() string { return "room" }

func (r *Room) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

type Chairperson struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Chairperson) TableName() string { return "chairperson" }

func (c *Chairperson) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

type Speaker struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	Name              string    `gorm:"column:name;not null;index" json:"name"`
	Country           string    `gorm:"column:country" json:"country"`
	Bio               string    `gorm:"column:bio;type:text" json:"bio"`
	FlagURL           string    `gorm:"column:flag_url" json:"flagUrl"`
	ExternalImageFlag string    `gorm:"column:external_image_flag" json:"externalImageFlag"`
	SpeakerImageURL   string    `gorm:"column:speaker_image_url" json:"speakerImageUrl"`
	CreatedAt         time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt         time.Time `gorm:"not null" json:"updatedAt"`
}

func (Speaker) TableName() string { return "speaker" }

func (s *Speaker) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
