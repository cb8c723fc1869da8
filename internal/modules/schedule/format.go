package schedule

import (
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/domain/congress"
)

// PopulatedSession is a stored session with its references dereferenced.
// Dangling references are simply absent from the slices.
type PopulatedSession struct {
	Session      *types.Session
	Room         *types.Room
	Day          *types.Day
	Speakers     []*types.Speaker
	Chairpersons []*types.Chairperson
	Subsessions  []PopulatedSubsession
}

type PopulatedSubsession struct {
	Subsession *types.Subsession
	Speakers   []*types.Speaker
}

// SessionView is the one shape every session read returns.
type SessionView struct {
	ID              uuid.UUID              `json:"_id"`
	Title           string                 `json:"title"`
	Room            string                 `json:"room"`
	RoomID          *types.Room            `json:"roomId"`
	Day             *int                   `json:"day,omitempty"`
	DayID           *types.Day             `json:"dayId"`
	StartTime       string                 `json:"startTime"`
	EndTime         string                 `json:"endTime"`
	Duration        string                 `json:"duration"`
	Description     string                 `json:"description"`
	Type            string                 `json:"type"`
	LabLogoURL      string                 `json:"labLogoUrl"`
	Chairpersons    string                 `json:"chairpersons"`
	ChairpersonRefs []*types.Chairperson   `json:"chairpersonRefs"`
	Speakers        []*types.Speaker       `json:"speakers"`
	Subsessions     []SubsessionView       `json:"subsessions"`
	SubsessionTexts []types.SubsessionText `json:"subsessionTexts"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

type SubsessionView struct {
	types.Subsession
	Speakers []*types.Speaker `json:"speakers"`
	Duration string           `json:"duration"`
}

// Source says which stored representation produced the subsession texts.
type Source int

const (
	SourceNone Source = iota
	SourceText
	SourceRefs
)

func (s Source) String() string {
	switch s {
	case SourceText:
		return "text"
	case SourceRefs:
		return "refs"
	default:
		return "none"
	}
}

// Representation is the reconciled subsession tree of one session.
type Representation struct {
	Source Source
	Texts  []types.SubsessionText
}

// ReconcileSubsessions picks the stored text tree when it has entries and
// otherwise synthesizes one from the referenced subsessions. Durations are
// always recomputed; stored ones may be stale.
func ReconcileSubsessions(texts []types.SubsessionText, subs []PopulatedSubsession) Representation {
	if len(texts) > 0 {
		out := make([]types.SubsessionText, 0, len(texts))
		for _, t := range texts {
			out = append(out, refreshText(t))
		}
		return Representation{Source: SourceText, Texts: out}
	}
	if len(subs) > 0 {
		out := make([]types.SubsessionText, 0, len(subs))
		for _, ps := range subs {
			if ps.Subsession == nil {
				continue
			}
			out = append(out, TextFromSubsession(ps.Subsession))
		}
		return Representation{Source: SourceRefs, Texts: out}
	}
	return Representation{Source: SourceNone, Texts: []types.SubsessionText{}}
}

// TextFromSubsession mirrors an entity into its display text form.
func TextFromSubsession(sub *types.Subsession) types.SubsessionText {
	t := types.SubsessionText{
		Title:          sub.Title,
		StartTime:      sub.StartTime,
		EndTime:        sub.EndTime,
		Duration:       Duration(sub.StartTime, sub.EndTime),
		SpeakerIDs:     congress.IDStrings(sub.Speakers),
		Description:    sub.Description,
		Subsubsessions: make([]types.SubsubsessionText, 0, len(sub.Subsubsessions)),
	}
	for _, ss := range sub.Subsubsessions {
		t.Subsubsessions = append(t.Subsubsessions, TextFromSubsubsession(ss))
	}
	return t
}

func TextFromSubsubsession(ss types.Subsubsession) types.SubsubsessionText {
	return types.SubsubsessionText{
		Title:       ss.Title,
		StartTime:   ss.StartTime,
		EndTime:     ss.EndTime,
		Duration:    Duration(ss.StartTime, ss.EndTime),
		SpeakerIDs:  congress.IDStrings(ss.Speakers),
		Description: ss.Description,
	}
}

func refreshText(t types.SubsessionText) types.SubsessionText {
	t.Duration = Duration(t.StartTime, t.EndTime)
	if t.SpeakerIDs == nil {
		t.SpeakerIDs = []string{}
	}
	subs := make([]types.SubsubsessionText, 0, len(t.Subsubsessions))
	for _, ss := range t.Subsubsessions {
		ss.Duration = Duration(ss.StartTime, ss.EndTime)
		if ss.SpeakerIDs == nil {
			ss.SpeakerIDs = []string{}
		}
		subs = append(subs, ss)
	}
	t.Subsubsessions = subs
	return t
}

// FormatSession builds the response shape for one populated session.
func FormatSession(p PopulatedSession) SessionView {
	s := p.Session
	v := SessionView{
		ID:              s.ID,
		Title:           s.Title,
		Room:            s.Room,
		RoomID:          p.Room,
		Day:             s.Day,
		DayID:           p.Day,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		Duration:        Duration(s.StartTime, s.EndTime),
		Description:     s.Description,
		Type:            s.Type,
		LabLogoURL:      s.LabLogoURL,
		Chairpersons:    s.Chairpersons,
		ChairpersonRefs: nonNil(p.Chairpersons),
		Speakers:        nonNil(p.Speakers),
		Subsessions:     make([]SubsessionView, 0, len(p.Subsessions)),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if v.Room == "" && p.Room != nil {
		v.Room = p.Room.Name
	}
	if v.Day == nil && p.Day != nil {
		n := p.Day.Number
		v.Day = &n
	}
	if strings.TrimSpace(v.Chairpersons) == "" && len(p.Chairpersons) > 0 {
		names := make([]string, 0, len(p.Chairpersons))
		for _, c := range p.Chairpersons {
			if c != nil {
				names = append(names, c.Name)
			}
		}
		v.Chairpersons = JoinNames(names)
	}
	for _, ps := range p.Subsessions {
		if ps.Subsession == nil {
			continue
		}
		v.Subsessions = append(v.Subsessions, FormatSubsession(ps))
	}
	v.SubsessionTexts = ReconcileSubsessions(s.SubsessionTexts, p.Subsessions).Texts
	return v
}

func FormatSubsession(ps PopulatedSubsession) SubsessionView {
	sub := *ps.Subsession
	if sub.Subsubsessions == nil {
		sub.Subsubsessions = []types.Subsubsession{}
	}
	return SubsessionView{
		Subsession: sub,
		Speakers:   nonNil(ps.Speakers),
		Duration:   Duration(sub.StartTime, sub.EndTime),
	}
}

func nonNil[T any](s []*T) []*T {
	if s == nil {
		return []*T{}
	}
	return s
}
