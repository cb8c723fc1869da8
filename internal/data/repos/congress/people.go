package congress

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos/store"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

type SpeakerRepo interface {
	Create(dbc dbctx.Context, speakers []*types.Speaker) ([]*types.Speaker, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Speaker, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Speaker, error)
	GetByName(dbc dbctx.Context, name string) (*types.Speaker, error)
	List(dbc dbctx.Context) ([]*types.Speaker, error)
	Save(dbc dbctx.Context, speaker *types.Speaker) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type speakerRepo struct {
	store.Table[types.Speaker]
}

func NewSpeakerRepo(db *gorm.DB, baseLog *logger.Logger) SpeakerRepo {
	return &speakerRepo{Table: store.NewTable[types.Speaker](db, baseLog.With("repo", "SpeakerRepo"))}
}

func (r *speakerRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Speaker, error) {
	return r.Table.GetByIDs(dbc, ids, func(s *types.Speaker) uuid.UUID { return s.ID })
}

// GetByName matches exactly; the oldest row wins when names repeat.
func (r *speakerRepo) GetByName(dbc dbctx.Context, name string) (*types.Speaker, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	return r.FindOne(dbc, "name = ?", name)
}

func (r *speakerRepo) List(dbc dbctx.Context) ([]*types.Speaker, error) {
	return r.Table.List(dbc, "name ASC")
}

type ChairpersonRepo interface {
	Create(dbc dbctx.Context, chairs []*types.Chairperson) ([]*types.Chairperson, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chairperson, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Chairperson, error)
	FindOrCreateByName(dbc dbctx.Context, name string) (*types.Chairperson, bool, error)
	List(dbc dbctx.Context) ([]*types.Chairperson, error)
	Save(dbc dbctx.Context, chair *types.Chairperson) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type chairpersonRepo struct {
	store.Table[types.Chairperson]
}

func NewChairpersonRepo(db *gorm.DB, baseLog *logger.Logger) ChairpersonRepo {
	return &chairpersonRepo{Table: store.NewTable[types.Chairperson](db, baseLog.With("repo", "ChairpersonRepo"))}
}

func (r *chairpersonRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Chairperson, error) {
	return r.Table.GetByIDs(dbc, ids, func(c *types.Chairperson) uuid.UUID { return c.ID })
}

func (r *chairpersonRepo) FindOrCreateByName(dbc dbctx.Context, name string) (*types.Chairperson, bool, error) {
	return r.FindOrCreate(dbc, "name = ?", name, func() *types.Chairperson {
		return &types.Chairperson{Name: name}
	})
}

func (r *chairpersonRepo) List(dbc dbctx.Context) ([]*types.Chairperson, error) {
	return r.Table.List(dbc, "name ASC")
}
