package store

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

// Table holds the id-keyed operations every entity repo shares. Repos embed
// it and add their own lookups.
type Table[T any] struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTable[T any](db *gorm.DB, log *logger.Logger) Table[T] {
	return Table[T]{db: db, log: log}
}

// Conn returns the transaction carried by dbc, or the pool.
func (t Table[T]) Conn(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = t.db
	}
	if dbc.Ctx != nil {
		transaction = transaction.WithContext(dbc.Ctx)
	}
	return transaction
}

func (t Table[T]) Log() *logger.Logger { return t.log }

func (t Table[T]) Create(dbc dbctx.Context, rows []*T) ([]*T, error) {
	if len(rows) == 0 {
		return []*T{}, nil
	}
	if err := t.Conn(dbc).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns nil without error when no row matches.
func (t Table[T]) GetByID(dbc dbctx.Context, id uuid.UUID) (*T, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row T
	res := t.Conn(dbc).Where("id = ?", id).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// GetByIDs returns the matching rows in the order of ids. Unknown and
// repeated ids are skipped.
func (t Table[T]) GetByIDs(dbc dbctx.Context, ids []uuid.UUID, key func(*T) uuid.UUID) ([]*T, error) {
	out := []*T{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*T
	if err := t.Conn(dbc).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*T, len(rows))
	for _, r := range rows {
		byID[key(r)] = r
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok && !seen[id] {
			out = append(out, r)
			seen[id] = true
		}
	}
	return out, nil
}

func (t Table[T]) List(dbc dbctx.Context, order string) ([]*T, error) {
	var out []*T
	q := t.Conn(dbc)
	if order != "" {
		q = q.Order(order)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (t Table[T]) Save(dbc dbctx.Context, row *T) error {
	return t.Conn(dbc).Save(row).Error
}

func (t Table[T]) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	var model T
	return t.Conn(dbc).Model(&model).Where("id = ?", id).Updates(updates).Error
}

func (t Table[T]) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var model T
	res := t.Conn(dbc).Where("id IN ?", ids).Delete(&model)
	return res.RowsAffected, res.Error
}

// FindOrCreate looks a row up by a business key and inserts build() when
// absent. The insert skips on a unique conflict and the winner is read back,
// so a concurrent writer never aborts the caller's transaction.
func (t Table[T]) FindOrCreate(dbc dbctx.Context, where string, arg interface{}, build func() *T) (*T, bool, error) {
	conn := t.Conn(dbc)
	var row T
	res := conn.Where(where, arg).Limit(1).Find(&row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return &row, false, nil
	}
	fresh := build()
	res = conn.Clauses(clause.OnConflict{DoNothing: true}).Create(fresh)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return fresh, true, nil
	}
	var winner T
	res = conn.Where(where, arg).Limit(1).Find(&winner)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, fmt.Errorf("find or create %s: insert skipped but no row matches", where)
	}
	t.log.Debug("FindOrCreate: lost insert race", "where", where)
	return &winner, false, nil
}

// FindOne returns the first row matching where, or nil.
func (t Table[T]) FindOne(dbc dbctx.Context, where string, args ...interface{}) (*T, error) {
	var row T
	res := t.Conn(dbc).Where(where, args...).Order("created_at ASC").Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}
