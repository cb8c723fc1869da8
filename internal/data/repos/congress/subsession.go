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

type SubsessionRepo interface {
	Create(dbc dbctx.Context, subsessions []*types.Subsession) ([]*types.Subsession, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subsession, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Subsession, error)
	ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.Subsession, error)
	List(dbc dbctx.Context) ([]*types.Subsession, error)
	Save(dbc dbctx.Context, subsession *types.Subsession) error
	Mutate(dbc dbctx.Context, id uuid.UUID, fn func(s *types.Subsession) error) (*types.Subsession, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type subsessionRepo struct {
	store.Table[types.Subsession]
}

func NewSubsessionRepo(db *gorm.DB, baseLog *logger.Logger) SubsessionRepo {
	return &subsessionRepo{Table: store.NewTable[types.Subsession](db, baseLog.With("repo", "SubsessionRepo"))}
}

func (r *subsessionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Subsession, error) {
	return r.Table.GetByIDs(dbc, ids, func(s *types.Subsession) uuid.UUID { return s.ID })
}

func (r *subsessionRepo) ListBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.Subsession, error) {
	var out []*types.Subsession
	if sessionID == uuid.Nil {
		return out, nil
	}
	if err := r.Conn(dbc).
		Where("session_id = ?", sessionID).
		Order("start_time ASC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subsessionRepo) List(dbc dbctx.Context) ([]*types.Subsession, error) {
	return r.Table.List(dbc, "created_at ASC")
}

func (r *subsessionRepo) Mutate(dbc dbctx.Context, id uuid.UUID, fn func(s *types.Subsession) error) (*types.Subsession, error) {
	var out *types.Subsession
	err := r.Conn(dbc).Transaction(func(txx *gorm.DB) error {
		q := txx
		if txx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var s types.Subsession
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
