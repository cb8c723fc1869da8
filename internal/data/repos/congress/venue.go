package congress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos/store"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

type RoomRepo interface {
	Create(dbc dbctx.Context, rooms []*types.Room) ([]*types.Room, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Room, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Room, error)
	GetByName(dbc dbctx.Context, name string) (*types.Room, error)
	FindOrCreateByName(dbc dbctx.Context, name string) (*types.Room, bool, error)
	List(dbc dbctx.Context) ([]*types.Room, error)
	Save(dbc dbctx.Context, room *types.Room) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type roomRepo struct {
	store.Table[types.Room]
}

func NewRoomRepo(db *gorm.DB, baseLog *logger.Logger) RoomRepo {
	return &roomRepo{Table: store.NewTable[types.Room](db, baseLog.With("repo", "RoomRepo"))}
}

func (r *roomRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Room, error) {
	return r.Table.GetByIDs(dbc, ids, func(x *types.Room) uuid.UUID { return x.ID })
}

func (r *roomRepo) GetByName(dbc dbctx.Context, name string) (*types.Room, error) {
	if name == "" {
		return nil, nil
	}
	return r.FindOne(dbc, "name = ?", name)
}

func (r *roomRepo) FindOrCreateByName(dbc dbctx.Context, name string) (*types.Room, bool, error) {
	return r.FindOrCreate(dbc, "name = ?", name, func() *types.Room {
		return &types.Room{Name: name}
	})
}

func (r *roomRepo) List(dbc dbctx.Context) ([]*types.Room, error) {
	return r.Table.List(dbc, "name ASC")
}

type DayRepo interface {
	Create(dbc dbctx.Context, days []*types.Day) ([]*types.Day, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Day, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Day, error)
	GetByNumber(dbc dbctx.Context, number int) (*types.Day, error)
	// FindOrCreateByNumber stamps new days with placeholder as their date.
	FindOrCreateByNumber(dbc dbctx.Context, number int, placeholder time.Time) (*types.Day, bool, error)
	List(dbc dbctx.Context) ([]*types.Day, error)
	Save(dbc dbctx.Context, day *types.Day) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type dayRepo struct {
	store.Table[types.Day]
}

func NewDayRepo(db *gorm.DB, baseLog *logger.Logger) DayRepo {
	return &dayRepo{Table: store.NewTable[types.Day](db, baseLog.With("repo", "DayRepo"))}
}

func (r *dayRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Day, error) {
	return r.Table.GetByIDs(dbc, ids, func(x *types.Day) uuid.UUID { return x.ID })
}

func (r *dayRepo) GetByNumber(dbc dbctx.Context, number int) (*types.Day, error) {
	return r.FindOne(dbc, "number = ?", number)
}

func (r *dayRepo) FindOrCreateByNumber(dbc dbctx.Context, number int, placeholder time.Time) (*types.Day, bool, error) {
	return r.FindOrCreate(dbc, "number = ?", number, func() *types.Day {
		return &types.Day{Number: number, Date: placeholder}
	})
}

func (r *dayRepo) List(dbc dbctx.Context) ([]*types.Day, error) {
	return r.Table.List(dbc, "number ASC")
}
