package congress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Subsession struct {
	ID             uuid.UUID                          `gorm:"type:uuid;primaryKey" json:"_id"`
	SessionID      *uuid.UUID                         `gorm:"type:uuid;column:session_id;index" json:"sessionId,omitempty"`
	Title          string                             `gorm:"column:title;not null" json:"title"`
	StartTime      string                             `gorm:"column:start_time" json:"startTime"`
	EndTime        string                             `gorm:"column:end_time" json:"endTime"`
	Description    string                             `gorm:"column:description;type:text" json:"description"`
	Speakers       datatypes.JSONSlice[uuid.UUID]     `gorm:"column:speakers" json:"speakers"`
	Subsubsessions datatypes.JSONSlice[Subsubsession] `gorm:"column:subsubsessions" json:"subsubsessions"`

	// Free-text speaker fields kept from older spreadsheets.
	SpeakerName    string `gorm:"column:speaker_name" json:"speakerName,omitempty"`
	SpeakerCountry string `gorm:"column:speaker_country" json:"speakerCountry,omitempty"`
	SpeakerBio     string `gorm:"column:speaker_bio;type:text" json:"speakerBio,omitempty"`
	SpeakerFlag    string `gorm:"column:speaker_flag" json:"speakerFlag,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Subsession) TableName() string { return "subsession" }

func (s *Subsession) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	s.normalizeLists()
	return nil
}

func (s *Subsession) BeforeSave(*gorm.DB) error {
	s.normalizeLists()
	return nil
}

func (s *Subsession) normalizeLists() {
	if s.Speakers == nil {
		s.Speakers = datatypes.JSONSlice[uuid.UUID]{}
	}
	if s.Subsubsessions == nil {
		s.Subsubsessions = datatypes.JSONSlice[Subsubsession]{}
	}
	for i := range s.Subsubsessions {
		if s.Subsubsessions[i].Speakers == nil {
			s.Subsubsessions[i].Speakers = []uuid.UUID{}
		}
	}
}

// Subsubsession is embedded in its Subsession row.
type Subsubsession struct {
	Title       string      `json:"title"`
	StartTime   string      `json:"startTime"`
	EndTime     string      `json:"endTime"`
	Duration    string      `json:"duration,omitempty"`
	Description string      `json:"description"`
	Speakers    []uuid.UUID `json:"speakers"`
}
