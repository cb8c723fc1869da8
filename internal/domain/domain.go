package domain

import (
	"github.com/Hi-chem22/AFRAN-2025/internal/domain/congress"
	"github.com/Hi-chem22/AFRAN-2025/internal/domain/content"
)

const (
	SessionTypeRegular        = congress.SessionTypeRegular
	SessionTypeLunchSymposium = congress.SessionTypeLunchSymposium

	VideoCategoryOther = content.VideoCategoryOther
)

type (
	Day               = congress.Day
	Room              = congress.Room
	Chairperson       = congress.Chairperson
	Speaker           = congress.Speaker
	Session           = congress.Session
	SubsessionText    = congress.SubsessionText
	SubsubsessionText = congress.SubsubsessionText
	Subsession        = congress.Subsession
	Subsubsession     = congress.Subsubsession

	Sponsor = content.Sponsor
	Partner = content.Partner
	Video   = content.Video
	Author  = content.Author
	Message = content.Message
	Logo    = content.Logo
)

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&Day{},
		&Room{},
		&Chairperson{},
		&Speaker{},
		&Session{},
		&Subsession{},

		&Sponsor{},
		&Partner{},
		&Video{},
		&Message{},
		&Logo{},
	}
}
