package services

import (
	"github.com/google/uuid"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/modules/schedule"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
)

// sessionLoader dereferences every reference of a batch of sessions with one
// query per referenced table. Every session read goes through it.
type sessionLoader struct {
	subsessions  repos.SubsessionRepo
	speakers     repos.SpeakerRepo
	chairpersons repos.ChairpersonRepo
	rooms        repos.RoomRepo
	days         repos.DayRepo
}

func newSessionLoader(set repos.Set) sessionLoader {
	return sessionLoader{
		subsessions:  set.Subsession,
		speakers:     set.Speaker,
		chairpersons: set.Chairperson,
		rooms:        set.Room,
		days:         set.Day,
	}
}

type idSet struct {
	seen map[uuid.UUID]bool
	ids  []uuid.UUID
}

func (s *idSet) add(ids ...uuid.UUID) {
	if s.seen == nil {
		s.seen = map[uuid.UUID]bool{}
	}
	for _, id := range ids {
		if id == uuid.Nil || s.seen[id] {
			continue
		}
		s.seen[id] = true
		s.ids = append(s.ids, id)
	}
}

func index[T any](rows []*T, key func(*T) uuid.UUID) map[uuid.UUID]*T {
	out := make(map[uuid.UUID]*T, len(rows))
	for _, r := range rows {
		out[key(r)] = r
	}
	return out
}

// pick resolves ids through m in order, dropping dangling ones.
func pick[T any](ids []uuid.UUID, m map[uuid.UUID]*T) []*T {
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if v, ok := m[id]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (l sessionLoader) Populate(dbc dbctx.Context, sessions []*types.Session) ([]schedule.PopulatedSession, error) {
	var roomIDs, dayIDs, subIDs, chairIDs, speakerIDs idSet
	for _, s := range sessions {
		if s.RoomID != nil {
			roomIDs.add(*s.RoomID)
		}
		if s.DayID != nil {
			dayIDs.add(*s.DayID)
		}
		subIDs.add(s.Subsessions...)
		chairIDs.add(s.ChairpersonRefs...)
		speakerIDs.add(s.Speakers...)
	}

	subs, err := l.subsessions.GetByIDs(dbc, subIDs.ids)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		speakerIDs.add(sub.Speakers...)
	}
	rooms, err := l.rooms.GetByIDs(dbc, roomIDs.ids)
	if err != nil {
		return nil, err
	}
	days, err := l.days.GetByIDs(dbc, dayIDs.ids)
	if err != nil {
		return nil, err
	}
	chairs, err := l.chairpersons.GetByIDs(dbc, chairIDs.ids)
	if err != nil {
		return nil, err
	}
	speakers, err := l.speakers.GetByIDs(dbc, speakerIDs.ids)
	if err != nil {
		return nil, err
	}

	subByID := index(subs, func(s *types.Subsession) uuid.UUID { return s.ID })
	roomByID := index(rooms, func(r *types.Room) uuid.UUID { return r.ID })
	dayByID := index(days, func(d *types.Day) uuid.UUID { return d.ID })
	chairByID := index(chairs, func(c *types.Chairperson) uuid.UUID { return c.ID })
	speakerByID := index(speakers, func(s *types.Speaker) uuid.UUID { return s.ID })

	out := make([]schedule.PopulatedSession, 0, len(sessions))
	for _, s := range sessions {
		p := schedule.PopulatedSession{
			Session:      s,
			Speakers:     pick(s.Speakers, speakerByID),
			Chairpersons: pick(s.ChairpersonRefs, chairByID),
		}
		if s.RoomID != nil {
			p.Room = roomByID[*s.RoomID]
		}
		if s.DayID != nil {
			p.Day = dayByID[*s.DayID]
		}
		for _, sub := range pick(s.Subsessions, subByID) {
			p.Subsessions = append(p.Subsessions, schedule.PopulatedSubsession{
				Subsession: sub,
				Speakers:   pick(sub.Speakers, speakerByID),
			})
		}
		out = append(out, p)
	}
	return out, nil
}

func (l sessionLoader) Views(dbc dbctx.Context, sessions []*types.Session) ([]schedule.SessionView, error) {
	populated, err := l.Populate(dbc, sessions)
	if err != nil {
		return nil, err
	}
	out := make([]schedule.SessionView, 0, len(populated))
	for _, p := range populated {
		out = append(out, schedule.FormatSession(p))
	}
	return out, nil
}

func (l sessionLoader) View(dbc dbctx.Context, s *types.Session) (*schedule.SessionView, error) {
	views, err := l.Views(dbc, []*types.Session{s})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// SubsessionViews populates speakers of standalone subsessions.
func (l sessionLoader) SubsessionViews(dbc dbctx.Context, subs []*types.Subsession) ([]schedule.SubsessionView, error) {
	var speakerIDs idSet
	for _, s := range subs {
		speakerIDs.add(s.Speakers...)
	}
	speakers, err := l.speakers.GetByIDs(dbc, speakerIDs.ids)
	if err != nil {
		return nil, err
	}
	byID := index(speakers, func(s *types.Speaker) uuid.UUID { return s.ID })
	out := make([]schedule.SubsessionView, 0, len(subs))
	for _, s := range subs {
		out = append(out, schedule.FormatSubsession(schedule.PopulatedSubsession{
			Subsession: s,
			Speakers:   pick(s.Speakers, byID),
		}))
	}
	return out, nil
}
