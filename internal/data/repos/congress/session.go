package congress

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos/store"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

type SessionFilter struct {
	Type   string
	DayID  *uuid.UUID
	RoomID *uuid.UUID
}

type SessionRepo interface {
	Create(dbc dbctx.Context, sessions []*types.Session) ([]*types.Session, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Session, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Session, error)
	List(dbc dbctx.Context, filter SessionFilter) ([]*types.Session, error)
	Save(dbc dbctx.Context, session *types.Session) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
	// Mutate loads the session, applies fn and saves it inside one
	// transaction holding the row lock where the dialect supports it.
	Mutate(dbc dbctx.Context, id uuid.UUID, fn func(s *types.Session) error) (*types.Session, error)
	AppendSubsession(dbc dbctx.Context, sessionID uuid.UUID, subsessionID uuid.UUID, text *types.SubsessionText) (*types.Session, error)
	RemoveSubsessionRef(dbc dbctx.Context, sessionID uuid.UUID, subsessionID uuid.UUID) error
}

type sessionRepo struct {
	store.Table[types.Session]
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{Table: store.NewTable[types.Session](db, baseLog.With("repo", "SessionRepo"))}
}

func (r *sessionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Session, error) {
	return r.Table.GetByIDs(dbc, ids, func(s *types.Session) uuid.UUID { return s.ID })
}

func (r *sessionRepo) List(dbc dbctx.Context, filter SessionFilter) ([]*types.Session, error) {
	q := r.Conn(dbc)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.DayID != nil {
		q = q.Where("day_id = ?", *filter.DayID)
	}
	if filter.RoomID != nil {
		q = q.Where("room_id = ?", *filter.RoomID)
	}
	var out []*types.Session
	if err := q.Order("start_time ASC").Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) Mutate(dbc dbctx.Context, id uuid.UUID, fn func(s *types.Session) error) (*types.Session, error) {
	var out *types.Session
	err := r.Conn(dbc).Transaction(func(txx *gorm.DB) error {
		q := txx
		if txx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var s types.Session
		res := q.Where("id = ?", id).Limit(1).Find(&s)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := fn(&s); err != nil {
			return err
		}
		if err := txx.Save(&s).Error; err != nil {
			return err
		}
		out = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) AppendSubsession(dbc dbctx.Context, sessionID uuid.UUID, subsessionID uuid.UUID, text *types.SubsessionText) (*types.Session, error) {
	return r.Mutate(dbc, sessionID, func(s *types.Session) error {
		if subsessionID != uuid.Nil {
			s.Subsessions = append(s.Subsessions, subsessionID)
		}
		if text != nil {
			s.SubsessionTexts = append(s.SubsessionTexts, *text)
		}
		return nil
	})
}

func (r *sessionRepo) RemoveSubsessionRef(dbc dbctx.Context, sessionID uuid.UUID, subsessionID uuid.UUID) error {
	_, err := r.Mutate(dbc, sessionID, func(s *types.Session) error {
		kept := s.Subsessions[:0]
		for _, id := range s.Subsessions {
			if id != subsessionID {
				kept = append(kept, id)
			}
		}
		s.Subsessions = kept
		return nil
	})
	return err
}
