package repos

import (
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos/congress"
	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos/content"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

type SessionRepo = congress.SessionRepo
type SessionFilter = congress.SessionFilter
type SubsessionRepo = congress.SubsessionRepo
type SpeakerRepo = congress.SpeakerRepo
type ChairpersonRepo = congress.ChairpersonRepo
type RoomRepo = congress.RoomRepo
type DayRepo = congress.DayRepo

type SponsorRepo = content.SponsorRepo
type PartnerRepo = content.PartnerRepo
type VideoRepo = content.VideoRepo
type MessageRepo = content.MessageRepo
type LogoRepo = content.LogoRepo

func NewSessionRepo(db *gorm.DB, log *logger.Logger) SessionRepo {
	return congress.NewSessionRepo(db, log)
}

func NewSubsessionRepo(db *gorm.DB, log *logger.Logger) SubsessionRepo {
	return congress.NewSubsessionRepo(db, log)
}

func NewSpeakerRepo(db *gorm.DB, log *logger.Logger) SpeakerRepo {
	return congress.NewSpeakerRepo(db, log)
}

func NewChairpersonRepo(db *gorm.DB, log *logger.Logger) ChairpersonRepo {
	return congress.NewChairpersonRepo(db, log)
}

func NewRoomRepo(db *gorm.DB, log *logger.Logger) RoomRepo {
	return congress.NewRoomRepo(db, log)
}

func NewDayRepo(db *gorm.DB, log *logger.Logger) DayRepo {
	return congress.NewDayRepo(db, log)
}

func NewSponsorRepo(db *gorm.DB, log *logger.Logger) SponsorRepo {
	return content.NewSponsorRepo(db, log)
}

func NewPartnerRepo(db *gorm.DB, log *logger.Logger) PartnerRepo {
	return content.NewPartnerRepo(db, log)
}

func NewVideoRepo(db *gorm.DB, log *logger.Logger) VideoRepo {
	return content.NewVideoRepo(db, log)
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return content.NewMessageRepo(db, log)
}

func NewLogoRepo(db *gorm.DB, log *logger.Logger) LogoRepo {
	return content.NewLogoRepo(db, log)
}

// Set bundles every repo so services and tools can be wired from one value.
type Set struct {
	Session     SessionRepo
	Subsession  SubsessionRepo
	Speaker     SpeakerRepo
	Chairperson ChairpersonRepo
	Room        RoomRepo
	Day         DayRepo

	Sponsor SponsorRepo
	Partner PartnerRepo
	Video   VideoRepo
	Message MessageRepo
	Logo    LogoRepo
}

func NewSet(db *gorm.DB, log *logger.Logger) Set {
	return Set{
		Session:     NewSessionRepo(db, log),
		Subsession:  NewSubsessionRepo(db, log),
		Speaker:     NewSpeakerRepo(db, log),
		Chairperson: NewChairpersonRepo(db, log),
		Room:        NewRoomRepo(db, log),
		Day:         NewDayRepo(db, log),

		Sponsor: NewSponsorRepo(db, log),
		Partner: NewPartnerRepo(db, log),
		Video:   NewVideoRepo(db, log),
		Message: NewMessageRepo(db, log),
		Logo:    NewLogoRepo(db, log),
	}
}
