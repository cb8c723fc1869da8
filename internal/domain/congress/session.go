package congress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SessionTypeRegular        = "Regular"
	SessionTypeLunchSymposium = "Lunch Symposium"
)

// Session is the top-level scheduled block. Speakers, Subsessions and
// ChairpersonRefs are ordered reference lists; SubsessionTexts is the
// denormalized copy of the subsession tree used for display.
type Session struct {
	ID              uuid.UUID                           `gorm:"type:uuid;primaryKey" json:"_id"`
	Title           string                              `gorm:"column:title;not null" json:"title"`
	Room            string                              `gorm:"column:room" json:"room"`
	RoomID          *uuid.UUID                          `gorm:"type:uuid;column:room_id;index" json:"roomId,omitempty"`
	Day             *int                                `gorm:"column:day;index" json:"day,omitempty"`
	DayID           *uuid.UUID                          `gorm:"type:uuid;column:day_id;index" json:"dayId,omitempty"`
	StartTime       string                              `gorm:"column:start_time;not null" json:"startTime"`
	EndTime         string                              `gorm:"column:end_time;not null" json:"endTime"`
	Description     string                              `gorm:"column:description;type:text" json:"description"`
	Type            string                              `gorm:"column:type;not null;index" json:"type"`
	LabLogoURL      string                              `gorm:"column:lab_logo_url" json:"labLogoUrl"`
	Chairpersons    string                              `gorm:"column:chairpersons" json:"chairpersons"`
	ChairpersonRefs datatypes.JSONSlice[uuid.UUID]      `gorm:"column:chairperson_refs" json:"chairpersonRefs"`
	Speakers        datatypes.JSONSlice[uuid.UUID]      `gorm:"column:speakers" json:"speakers"`
	Subsessions     datatypes.JSONSlice[uuid.UUID]      `gorm:"column:subsessions" json:"subsessions"`
	SubsessionTexts datatypes.JSONSlice[SubsessionText] `gorm:"column:subsession_texts" json:"subsessionTexts"`
	CreatedAt       time.Time                           `gorm:"not null;index" json:"createdAt"`
	UpdatedAt       time.Time                           `gorm:"not null" json:"updatedAt"`
}

func (Session) TableName() string { return "session" }

func (s *Session) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	if s.Type == "" {
		s.Type = SessionTypeRegular
	}
	s.normalizeLists()
	return nil
}

func (s *Session) BeforeSave(*gorm.DB) error {
	s.normalizeLists()
	return nil
}

// normalizeLists keeps the JSON columns as [] rather than null.
func (s *Session) normalizeLists() {
	if s.ChairpersonRefs == nil {
		s.ChairpersonRefs = datatypes.JSONSlice[uuid.UUID]{}
	}
	if s.Speakers == nil {
		s.Speakers = datatypes.JSONSlice[uuid.UUID]{}
	}
	if s.Subsessions == nil {
		s.Subsessions = datatypes.JSONSlice[uuid.UUID]{}
	}
	if s.SubsessionTexts == nil {
		s.SubsessionTexts = datatypes.JSONSlice[SubsessionText]{}
	}
	for i := range s.SubsessionTexts {
		if s.SubsessionTexts[i].Subsubsessions == nil {
			s.SubsessionTexts[i].Subsubsessions = []SubsubsessionText{}
		}
		if s.SubsessionTexts[i].SpeakerIDs == nil {
			s.SubsessionTexts[i].SpeakerIDs = []string{}
		}
	}
}

// SubsessionText mirrors a Subsession for display. SpeakerIDs are strings
// because the text representation predates typed references.
type SubsessionText struct {
	Title          string              `json:"title"`
	StartTime      string              `json:"startTime"`
	EndTime        string              `json:"endTime"`
	Duration       string              `json:"duration"`
	SpeakerIDs     []string            `json:"speakerIds"`
	Description    string              `json:"description"`
	Subsubsessions []SubsubsessionText `json:"subsubsessions"`
}

type SubsubsessionText struct {
	Title       string   `json:"title"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Duration    string   `json:"duration"`
	SpeakerIDs  []string `json:"speakerIds"`
	Description string   `json:"description"`
}
