package content

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos/store"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

type SponsorRepo interface {
	Create(dbc dbctx.Context, rows []*types.Sponsor) ([]*types.Sponsor, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Sponsor, error)
	List(dbc dbctx.Context) ([]*types.Sponsor, error)
	Save(dbc dbctx.Context, row *types.Sponsor) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type sponsorRepo struct {
	store.Table[types.Sponsor]
}

func NewSponsorRepo(db *gorm.DB, baseLog *logger.Logger) SponsorRepo {
	return &sponsorRepo{Table: store.NewTable[types.Sponsor](db, baseLog.With("repo", "SponsorRepo"))}
}

func (r *sponsorRepo) List(dbc dbctx.Context) ([]*types.Sponsor, error) {
	return r.Table.List(dbc, "sort_order ASC, name ASC")
}

type PartnerRepo interface {
	Create(dbc dbctx.Context, rows []*types.Partner) ([]*types.Partner, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Partner, error)
	List(dbc dbctx.Context) ([]*types.Partner, error)
	Save(dbc dbctx.Context, row *types.Partner) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type partnerRepo struct {
	store.Table[types.Partner]
}

func NewPartnerRepo(db *gorm.DB, baseLog *logger.Logger) PartnerRepo {
	return &partnerRepo{Table: store.NewTable[types.Partner](db, baseLog.With("repo", "PartnerRepo"))}
}

func (r *partnerRepo) List(dbc dbctx.Context) ([]*types.Partner, error) {
	return r.Table.List(dbc, "sort_order ASC, created_at DESC")
}

type VideoRepo interface {
	Create(dbc dbctx.Context, rows []*types.Video) ([]*types.Video, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Video, error)
	List(dbc dbctx.Context) ([]*types.Video, error)
	ListActiveBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.Video, error)
	Save(dbc dbctx.Context, row *types.Video) error
	DetachSession(dbc dbctx.Context, sessionID uuid.UUID) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type videoRepo struct {
	store.Table[types.Video]
}

func NewVideoRepo(db *gorm.DB, baseLog *logger.Logger) VideoRepo {
	return &videoRepo{Table: store.NewTable[types.Video](db, baseLog.With("repo", "VideoRepo"))}
}

func (r *videoRepo) List(dbc dbctx.Context) ([]*types.Video, error) {
	return r.Table.List(dbc, "created_at DESC")
}

func (r *videoRepo) ListActiveBySession(dbc dbctx.Context, sessionID uuid.UUID) ([]*types.Video, error) {
	var out []*types.Video
	if err := r.Conn(dbc).
		Where("session_id = ? AND active = ?", sessionID, true).
		Order("sort_order ASC").
		Order("date DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DetachSession clears the session reference on every video pointing at it.
func (r *videoRepo) DetachSession(dbc dbctx.Context, sessionID uuid.UUID) error {
	return r.Conn(dbc).
		Model(&types.Video{}).
		Where("session_id = ?", sessionID).
		Update("session_id", nil).Error
}

type MessageRepo interface {
	Create(dbc dbctx.Context, rows []*types.Message) ([]*types.Message, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Message, error)
	List(dbc dbctx.Context, activeOnly bool) ([]*types.Message, error)
	Save(dbc dbctx.Context, row *types.Message) error
	DeactivateAllExcept(dbc dbctx.Context, keep uuid.UUID) error
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type messageRepo struct {
	store.Table[types.Message]
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{Table: store.NewTable[types.Message](db, baseLog.With("repo", "MessageRepo"))}
}

func (r *messageRepo) List(dbc dbctx.Context, activeOnly bool) ([]*types.Message, error) {
	q := r.Conn(dbc)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []*types.Message
	if err := q.Order("date DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageRepo) DeactivateAllExcept(dbc dbctx.Context, keep uuid.UUID) error {
	return r.Conn(dbc).
		Model(&types.Message{}).
		Where("id <> ? AND is_active = ?", keep, true).
		Update("is_active", false).Error
}

type LogoRepo interface {
	Create(dbc dbctx.Context, rows []*types.Logo) ([]*types.Logo, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Logo, error)
	GetActive(dbc dbctx.Context) (*types.Logo, error)
	List(dbc dbctx.Context) ([]*types.Logo, error)
	Save(dbc dbctx.Context, row *types.Logo) error
	DeactivateAllExcept(dbc dbctx.Context, keep uuid.UUID) error
}

type logoRepo struct {
	store.Table[types.Logo]
}

func NewLogoRepo(db *gorm.DB, baseLog *logger.Logger) LogoRepo {
	return &logoRepo{Table: store.NewTable[types.Logo](db, baseLog.With("repo", "LogoRepo"))}
}

func (r *logoRepo) GetActive(dbc dbctx.Context) (*types.Logo, error) {
	var row types.Logo
	res := r.Conn(dbc).Where("is_active = ?", true).Order("created_at DESC").Limit(1).Find(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *logoRepo) List(dbc dbctx.Context) ([]*types.Logo, error) {
	return r.Table.List(dbc, "created_at DESC")
}

func (r *logoRepo) DeactivateAllExcept(dbc dbctx.Context, keep uuid.UUID) error {
	return r.Conn(dbc).
		Model(&types.Logo{}).
		Where("id <> ? AND is_active = ?", keep, true).
		Update("is_active", false).Error
}
