package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/modules/schedule"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

type SubsessionInput struct {
	SessionID      *uuid.UUID             `json:"sessionId"`
	Title          *string                `json:"title"`
	StartTime      *string                `json:"startTime"`
	EndTime        *string                `json:"endTime"`
	Description    *string                `json:"description"`
	Speakers       *[]uuid.UUID           `json:"speakers"`
	Subsubsessions *[]types.Subsubsession `json:"subsubsessions"`
	SpeakerName    *string                `json:"speakerName"`
	SpeakerCountry *string                `json:"speakerCountry"`
	SpeakerBio     *string                `json:"speakerBio"`
	SpeakerFlag    *string                `json:"speakerFlag"`
}

type SubsubsessionInput struct {
	Title       string      `json:"title" binding:"required"`
	StartTime   string      `json:"startTime"`
	EndTime     string      `json:"endTime"`
	Description string      `json:"description"`
	Speakers    []uuid.UUID `json:"speakers"`
}

type SubsessionService interface {
	Create(ctx context.Context, in SubsessionInput) (*schedule.SubsessionView, error)
	List(ctx context.Context) ([]schedule.SubsessionView, error)
	Get(ctx context.Context, id uuid.UUID) (*schedule.SubsessionView, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]schedule.SubsessionView, error)
	Update(ctx context.Context, id uuid.UUID, in SubsessionInput) (*schedule.SubsessionView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// AddSubsubsession appends to the subsession and to the parent session's
	// text entry carrying the same title.
	AddSubsubsession(ctx context.Context, id uuid.UUID, in SubsubsessionInput) (*schedule.SubsessionView, error)
}

type subsessionService struct {
	db       *gorm.DB
	log      *logger.Logger
	repos    repos.Set
	loader   sessionLoader
	sessions SessionService
}

func NewSubsessionService(db *gorm.DB, baseLog *logger.Logger, set repos.Set, sessions SessionService) SubsessionService {
	return &subsessionService{
		db:       db,
		log:      baseLog.With("service", "SubsessionService"),
		repos:    set,
		loader:   newSessionLoader(set),
		sessions: sessions,
	}
}

func (s *subsessionService) changed(ctx context.Context) {
	if s.sessions != nil {
		s.sessions.Invalidate(ctx)
	}
}

func (s *subsessionService) view(dbc dbctx.Context, sub *types.Subsession) (*schedule.SubsessionView, error) {
	views, err := s.loader.SubsessionViews(dbc, []*types.Subsession{sub})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *subsessionService) apply(dbc dbctx.Context, sub *types.Subsession, in SubsessionInput) error {
	setString(&sub.Title, in.Title)
	setString(&sub.StartTime, in.StartTime)
	setString(&sub.EndTime, in.EndTime)
	setString(&sub.Description, in.Description)
	setString(&sub.SpeakerName, in.SpeakerName)
	setString(&sub.SpeakerCountry, in.SpeakerCountry)
	setString(&sub.SpeakerBio, in.SpeakerBio)
	setString(&sub.SpeakerFlag, in.SpeakerFlag)
	if in.Speakers != nil {
		found, err := s.repos.Speaker.GetByIDs(dbc, *in.Speakers)
		if err != nil {
			return err
		}
		known := make(map[uuid.UUID]bool, len(found))
		for _, sp := range found {
			known[sp.ID] = true
		}
		for _, id := range *in.Speakers {
			if !known[id] {
				return unknownRef("speaker", id)
			}
		}
		sub.Speakers = dedupe(*in.Speakers)
	}
	if in.Subsubsessions != nil {
		sub.Subsubsessions = *in.Subsubsessions
	}
	if strings.TrimSpace(sub.Title) == "" {
		return invalid("missing title")
	}
	return nil
}

func (s *subsessionService) requireSession(dbc dbctx.Context, id uuid.UUID) error {
	session, err := s.repos.Session.GetByID(dbc, id)
	if err != nil {
		return err
	}
	if session == nil {
		return unknownRef("session", id)
	}
	return nil
}

func (s *subsessionService) Create(ctx context.Context, in SubsessionInput) (*schedule.SubsessionView, error) {
	sub := &types.Subsession{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)
		if err := s.apply(dbc, sub, in); err != nil {
			return err
		}
		if in.SessionID != nil && *in.SessionID != uuid.Nil {
			if err := s.requireSession(dbc, *in.SessionID); err != nil {
				return err
			}
			sid := *in.SessionID
			sub.SessionID = &sid
		}
		if _, err := s.repos.Subsession.Create(dbc, []*types.Subsession{sub}); err != nil {
			return err
		}
		if sub.SessionID != nil {
			if _, err := s.repos.Session.AppendSubsession(dbc, *sub.SessionID, sub.ID, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return s.view(dbctx.New(ctx), sub)
}

func (s *subsessionService) List(ctx context.Context) ([]schedule.SubsessionView, error) {
	dbc := dbctx.New(ctx)
	subs, err := s.repos.Subsession.List(dbc)
	if err != nil {
		return nil, err
	}
	return s.loader.SubsessionViews(dbc, subs)
}

func (s *subsessionService) Get(ctx context.Context, id uuid.UUID) (*schedule.SubsessionView, error) {
	dbc := dbctx.New(ctx)
	sub, err := s.repos.Subsession.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, notFound("subsession", id)
	}
	return s.view(dbc, sub)
}

func (s *subsessionService) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]schedule.SubsessionView, error) {
	dbc := dbctx.New(ctx)
	subs, err := s.repos.Subsession.ListBySession(dbc, sessionID)
	if err != nil {
		return nil, err
	}
	return s.loader.SubsessionViews(dbc, subs)
}

// Update moves the subsession between parents' ref lists when sessionId
// changes.
func (s *subsessionService) Update(ctx context.Context, id uuid.UUID, in SubsessionInput) (*schedule.SubsessionView, error) {
	var out *types.Subsession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)
		sub, err := s.repos.Subsession.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if sub == nil {
			return notFound("subsession", id)
		}
		if err := s.apply(dbc, sub, in); err != nil {
			return err
		}
		if in.SessionID != nil && !sameParent(sub.SessionID, *in.SessionID) {
			if sub.SessionID != nil {
				if err := s.repos.Session.RemoveSubsessionRef(dbc, *sub.SessionID, sub.ID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
			}
			if *in.SessionID == uuid.Nil {
				sub.SessionID = nil
			} else {
				if err := s.requireSession(dbc, *in.SessionID); err != nil {
					return err
				}
				sid := *in.SessionID
				sub.SessionID = &sid
				if _, err := s.repos.Session.AppendSubsession(dbc, sid, sub.ID, nil); err != nil {
					return err
				}
			}
		}
		if err := s.repos.Subsession.Save(dbc, sub); err != nil {
			return err
		}
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return s.view(dbctx.New(ctx), out)
}

func sameParent(current *uuid.UUID, next uuid.UUID) bool {
	if current == nil {
		return next == uuid.Nil
	}
	return *current == next
}

func (s *subsessionService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)
		sub, err := s.repos.Subsession.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if sub == nil {
			return notFound("subsession", id)
		}
		if sub.SessionID != nil {
			if err := s.repos.Session.RemoveSubsessionRef(dbc, *sub.SessionID, id); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		_, err = s.repos.Subsession.DeleteByIDs(dbc, []uuid.UUID{id})
		return err
	})
	if err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *subsessionService) AddSubsubsession(ctx context.Context, id uuid.UUID, in SubsubsessionInput) (*schedule.SubsessionView, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("missing title")
	}
	var out *types.Subsession
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)
		speakers := []uuid.UUID{}
		if len(in.Speakers) > 0 {
			found, err := s.repos.Speaker.GetByIDs(dbc, in.Speakers)
			if err != nil {
				return err
			}
			for _, sp := range found {
				speakers = append(speakers, sp.ID)
			}
		}
		ss := types.Subsubsession{
			Title:       title,
			StartTime:   strings.TrimSpace(in.StartTime),
			EndTime:     strings.TrimSpace(in.EndTime),
			Description: in.Description,
			Speakers:    speakers,
		}
		ss.Duration = schedule.CompactDuration(ss.StartTime, ss.EndTime)

		sub, err := s.repos.Subsession.Mutate(dbc, id, func(sub *types.Subsession) error {
			sub.Subsubsessions = append(sub.Subsubsessions, ss)
			return nil
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("subsession", id)
		}
		if err != nil {
			return err
		}
		out = sub
		if sub.SessionID == nil {
			return nil
		}

		text := schedule.TextFromSubsubsession(ss)
		text.Duration = ss.Duration
		_, err = s.repos.Session.Mutate(dbc, *sub.SessionID, func(session *types.Session) error {
			for i := range session.SubsessionTexts {
				if session.SubsessionTexts[i].Title == sub.Title {
					session.SubsessionTexts[i].Subsubsessions = append(session.SubsessionTexts[i].Subsubsessions, text)
					return nil
				}
			}
			s.log.Debug("AddSubsubsession: no text entry to mirror", "subsession_id", id, "title", sub.Title)
			return nil
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return s.view(dbctx.New(ctx), out)
}
