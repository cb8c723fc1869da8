package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/domain/content"
	"github.com/Hi-chem22/AFRAN-2025/internal/modules/schedule"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

type SponsorInput struct {
	Name        *string `json:"name"`
	LogoURL     *string `json:"logoUrl"`
	Website     *string `json:"website"`
	Tier        *string `json:"tier"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

type PartnerInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	LogoURL     *string `json:"logoUrl"`
	Active      *bool   `json:"active"`
	Order       *int    `json:"order"`
}

type VideoInput struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	URL          *string    `json:"url"`
	SessionID    *uuid.UUID `json:"sessionId"`
	ThumbnailURL *string    `json:"thumbnailUrl"`
	Category     *string    `json:"category"`
	Duration     *string    `json:"duration"`
	Speaker      *string    `json:"speaker"`
	Date         *time.Time `json:"date"`
	Featured     *bool      `json:"featured"`
	Active       *bool      `json:"active"`
	Order        *int       `json:"order"`
}

type MessageInput struct {
	Title    *string         `json:"title"`
	Content  *string         `json:"content"`
	Authors  *[]types.Author `json:"authors"`
	Date     *time.Time      `json:"date"`
	IsActive *bool           `json:"isActive"`
}

type LogoInput struct {
	LogoURL  *string `json:"logoUrl"`
	IsActive *bool   `json:"isActive"`
}

// VideoView embeds the formatted session in place of its id.
type VideoView struct {
	types.Video
	SessionID *schedule.SessionView `json:"sessionId"`
}

type ContentService interface {
	CreateSponsor(ctx context.Context, in SponsorInput) (*types.Sponsor, error)
	ListSponsors(ctx context.Context) ([]*types.Sponsor, error)
	GetSponsor(ctx context.Context, id uuid.UUID) (*types.Sponsor, error)
	UpdateSponsor(ctx context.Context, id uuid.UUID, in SponsorInput) (*types.Sponsor, error)
	DeleteSponsor(ctx context.Context, id uuid.UUID) error

	CreatePartner(ctx context.Context, in PartnerInput) (*types.Partner, error)
	ListPartners(ctx context.Context) ([]*types.Partner, error)
	GetPartner(ctx context.Context, id uuid.UUID) (*types.Partner, error)
	UpdatePartner(ctx context.Context, id uuid.UUID, in PartnerInput) (*types.Partner, error)
	DeletePartner(ctx context.Context, id uuid.UUID) error

	CreateVideo(ctx context.Context, in VideoInput) (*VideoView, error)
	ListVideos(ctx context.Context) ([]VideoView, error)
	ListSessionVideos(ctx context.Context, sessionID uuid.UUID) ([]VideoView, error)
	GetVideo(ctx context.Context, id uuid.UUID) (*VideoView, error)
	UpdateVideo(ctx context.Context, id uuid.UUID, in VideoInput) (*VideoView, error)
	DeleteVideo(ctx context.Context, id uuid.UUID) error

	CreateMessage(ctx context.Context, in MessageInput) (*types.Message, error)
	ListMessages(ctx context.Context, activeOnly bool) ([]*types.Message, error)
	GetMessage(ctx context.Context, id uuid.UUID) (*types.Message, error)
	UpdateMessage(ctx context.Context, id uuid.UUID, in MessageInput) (*types.Message, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error

	ActiveLogo(ctx context.Context) (*types.Logo, error)
	ListLogos(ctx context.Context) ([]*types.Logo, error)
	CreateLogo(ctx context.Context, in LogoInput) (*types.Logo, error)
	UpdateLogo(ctx context.Context, id uuid.UUID, in LogoInput) (*types.Logo, error)
}

type contentService struct {
	db     *gorm.DB
	log    *logger.Logger
	repos  repos.Set
	loader sessionLoader
}

func NewContentService(db *gorm.DB, baseLog *logger.Logger, set repos.Set) ContentService {
	return &contentService{
		db:     db,
		log:    baseLog.With("service", "ContentService"),
		repos:  set,
		loader: newSessionLoader(set),
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// ---- sponsors ----

func (in SponsorInput) applyTo(s *types.Sponsor) error {
	setString(&s.Name, in.Name)
	setString(&s.LogoURL, in.LogoURL)
	setString(&s.Website, in.Website)
	setString(&s.Tier, in.Tier)
	setString(&s.Description, in.Description)
	setInt(&s.Order, in.Order)
	if s.Name == "" {
		return invalid("missing name")
	}
	return nil
}

func (s *contentService) CreateSponsor(ctx context.Context, in SponsorInput) (*types.Sponsor, error) {
	row := &types.Sponsor{}
	if err := in.applyTo(row); err != nil {
		return nil, err
	}
	if _, err := s.repos.Sponsor.Create(dbctx.New(ctx), []*types.Sponsor{row}); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *contentService) ListSponsors(ctx context.Context) ([]*types.Sponsor, error) {
	return s.repos.Sponsor.List(dbctx.New(ctx))
}

func (s *contentService) GetSponsor(ctx context.Context, id uuid.UUID) (*types.Sponsor, error) {
	row, err := s.repos.Sponsor.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound("sponsor", id)
	}
	return row, nil
}

func (s *contentService) UpdateSponsor(ctx context.Context, id uuid.UUID, in SponsorInput) (*types.Sponsor, error) {
	row, err := s.GetSponsor(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.applyTo(row); err != nil {
		return nil, err
	}
	if err := s.repos.Sponsor.Save(dbctx.New(ctx), row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *contentService) DeleteSponsor(ctx context.Context, id uuid.UUID) error {
	return deleteOne(ctx, "sponsor", id, s.repos.Sponsor.DeleteByIDs)
}

func deleteOne(ctx context.Context, kind string, id uuid.UUID, del func(dbctx.Context, []uuid.UUID) (int64, error)) error {
	n, err := del(dbctx.New(ctx), []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

// ---- partners ----

func (in PartnerInput) applyTo(p *types.Partner) error {
	setString(&p.Name, in.Name)
	setString(&p.Description, in.Description)
	setString(&p.URL, in.URL)
	setString(&p.LogoURL, in.LogoURL)
	setBool(&p.Active, in.Active)
	setInt(&p.Order, in.Order)
	if p.Name == "" {
		return invalid("missing name")
	}
	return nil
}

func (s *contentService) CreatePartner(ctx context.Context, in PartnerInput) (*types.Partner, error) {
	row := &types.Partner{Active: true}
	if err := in.applyTo(row); err != nil {
		return nil, err
	}
	if _, err := s.repos.Partner.Create(dbctx.New(ctx), []*types.Partner{row}); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *contentService) ListPartners(ctx context.Context) ([]*types.Partner, error) {
	return s.repos.Partner.List(dbctx.New(ctx))
}

func (s *contentService) GetPartner(ctx context.Context, id uuid.UUID) (*types.Partner, error) {
	row, err := s.repos.Partner.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, notFound("partner", id)
	}
	return row, nil
}

func (s *contentService) UpdatePartner(ctx context.Context, id uuid.UUID, in PartnerInput) (*types.Partner, error) {
	row, err := s.GetPartner(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.applyTo(row); err != nil {
		return nil, err
	}
	if err := s.repos.Partner.Save(dbctx.New(ctx), row); err != nil {
		return nil, err
	}
	return row, nil
}

func (s *contentService) DeletePartner(ctx context.Context, id uuid.UUID) error {
	return deleteOne(ctx, "partner", id, s.repos.Partner.DeleteByIDs)
}

// ---- videos ----

func (s *contentService) applyVideo(dbc dbctx.Context, v *types.Video, in VideoInput) error {
	setString(&v.Title, in.Title)
	setString(&v.Description, in.Description)
	setString(&v.URL, in.URL)
	setString(&v.ThumbnailURL, in.ThumbnailURL)
	setString(&v.Duration, in.Duration)
	setString(&v.Speaker, in.Speaker)
	setBool(&v.Featured, in.Featured)
	setBool(&v.Active, in.Active)
	setInt(&v.Order, in.Order)
	if in.Date != nil {
		v.Date = in.Date.UTC()
	}
	if in.Category != nil {
		c := strings.TrimSpace(*in.Category)
		if c == "" {
			c = content.VideoCategoryOther
		}
		if !content.ValidVideoCategory(c) {
			return invalid("unknown video category %q", c)
		}
		v.Category = c
	}
	if in.SessionID != nil {
		if *in.SessionID == uuid.Nil {
			v.SessionID = nil
		} else {
			session, err := s.repos.Session.GetByID(dbc, *in.SessionID)
			if err != nil {
				return err
			}
			if session == nil {
				return unknownRef("session", *in.SessionID)
			}
			sid := session.ID
			v.SessionID = &sid
		}
	}
	if v.Title == "" || v.URL == "" {
		return invalid("title and url are required")
	}
	return nil
}

// videoViews embeds each referenced session, loaded in one batch.
func (s *contentService) videoViews(dbc dbctx.Context, videos []*types.Video) ([]VideoView, error) {
	var sessionIDs idSet
	for _, v := range videos {
		if v.SessionID != nil {
			sessionIDs.add(*v.SessionID)
		}
	}
	sessions, err := s.repos.Session.GetByIDs(dbc, sessionIDs.ids)
	if err != nil {
		return nil, err
	}
	views, err := s.loader.Views(dbc, sessions)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*schedule.SessionView, len(views))
	for i := range views {
		byID[views[i].ID] = &views[i]
	}
	out := make([]VideoView, 0, len(videos))
	for _, v := range videos {
		vv := VideoView{Video: *v}
		if v.SessionID != nil {
			vv.SessionID = byID[*v.SessionID]
		}
		out = append(out, vv)
	}
	return out, nil
}

func (s *contentService) videoView(dbc dbctx.Context, v *types.Video) (*VideoView, error) {
	views, err := s.videoViews(dbc, []*types.Video{v})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *contentService) CreateVideo(ctx context.Context, in VideoInput) (*VideoView, error) {
	dbc := dbctx.New(ctx)
	v := &types.Video{Active: true}
	if err := s.applyVideo(dbc, v, in); err != nil {
		return nil, err
	}
	if _, err := s.repos.Video.Create(dbc, []*types.Video{v}); err != nil {
		return nil, err
	}
	return s.videoView(dbc, v)
}

func (s *contentService) ListVideos(ctx context.Context) ([]VideoView, error) {
	dbc := dbctx.New(ctx)
	videos, err := s.repos.Video.List(dbc)
	if err != nil {
		return nil, err
	}
	return s.videoViews(dbc, videos)
}

func (s *contentService) ListSessionVideos(ctx context.Context, sessionID uuid.UUID) ([]VideoView, error) {
	dbc := dbctx.New(ctx)
	videos, err := s.repos.Video.ListActiveBySession(dbc, sessionID)
	if err != nil {
		return nil, err
	}
	return s.videoViews(dbc, videos)
}

func (s *contentService) getVideo(dbc dbctx.Context, id uuid.UUID) (*types.Video, error) {
	v, err := s.repos.Video.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, notFound("video", id)
	}
	return v, nil
}

func (s *contentService) GetVideo(ctx context.Context, id uuid.UUID) (*VideoView, error) {
	dbc := dbctx.New(ctx)
	v, err := s.getVideo(dbc, id)
	if err != nil {
		return nil, err
	}
	return s.videoView(dbc, v)
}

func (s *contentService) UpdateVideo(ctx context.Context, id uuid.UUID, in VideoInput) (*VideoView, error) {
	dbc := dbctx.New(ctx)
	v, err := s.getVideo(dbc, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyVideo(dbc, v, in); err != nil {
		return nil, err
	}
	if err := s.repos.Video.Save(dbc, v); err != nil {
		return nil, err
	}
	return s.videoView(dbc, v)
}

func (s *contentService) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	return deleteOne(ctx, "video", id, s.repos.Video.DeleteByIDs)
}

// ---- messages ----

func (in MessageInput) applyTo(m *types.Message) error {
	setString(&m.Title, in.Title)
	setString(&m.Content, in.Content)
	setBool(&m.IsActive, in.IsActive)
	if in.Authors != nil {
		m.Authors = *in.Authors
	}
	if in.Date != nil {
		m.Date = in.Date.UTC()
	}
	if m.Content == "" {
		return invalid("missing content")
	}
	return nil
}

// saveMessage persists m and, when m is active, clears the flag on every
// other message in the same transaction.
func (s *contentService) saveMessage(ctx context.Context, m *types.Message, create bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)
		if create {
			if _, err := s.repos.Message.Create(dbc, []*types.Message{m}); err != nil {
				return err
			}
		} else if err := s.repos.Message.Save(dbc, m); err != nil {
			return err
		}
		if m.IsActive {
			return s.repos.Message.DeactivateAllExcept(dbc, m.ID)
		}
		return nil
	})
}

func (s *contentService) CreateMessage(ctx context.Context, in MessageInput) (*types.Message, error) {
	m := &types.Message{IsActive: true}
	if err := in.applyTo(m); err != nil {
		return nil, err
	}
	if err := s.saveMessage(ctx, m, true); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *contentService) ListMessages(ctx context.Context, activeOnly bool) ([]*types.Message, error) {
	return s.repos.Message.List(dbctx.New(ctx), activeOnly)
}

func (s *contentService) GetMessage(ctx context.Context, id uuid.UUID) (*types.Message, error) {
	m, err := s.repos.Message.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFound("message", id)
	}
	return m, nil
}

func (s *contentService) UpdateMessage(ctx context.Context, id uuid.UUID, in MessageInput) (*types.Message, error) {
	m, err := s.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.applyTo(m); err != nil {
		return nil, err
	}
	if err := s.saveMessage(ctx, m, false); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *contentService) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return deleteOne(ctx, "message", id, s.repos.Message.DeleteByIDs)
}

// ---- logo ----

func (s *contentService) ActiveLogo(ctx context.Context) (*types.Logo, error) {
	logo, err := s.repos.Logo.GetActive(dbctx.New(ctx))
	if err != nil {
		return nil, err
	}
	if logo == nil {
		return nil, notFound("logo", uuid.Nil)
	}
	return logo, nil
}

func (s *contentService) ListLogos(ctx context.Context) ([]*types.Logo, error) {
	return s.repos.Logo.List(dbctx.New(ctx))
}

func (s *contentService) saveLogo(ctx context.Context, logo *types.Logo, create bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)
		if create {
			if _, err := s.repos.Logo.Create(dbc, []*types.Logo{logo}); err != nil {
				return err
			}
		} else if err := s.repos.Logo.Save(dbc, logo); err != nil {
			return err
		}
		if logo.IsActive {
			return s.repos.Logo.DeactivateAllExcept(dbc, logo.ID)
		}
		return nil
	})
}

// CreateLogo always activates the new logo.
func (s *contentService) CreateLogo(ctx context.Context, in LogoInput) (*types.Logo, error) {
	logo := &types.Logo{IsActive: true}
	setString(&logo.LogoURL, in.LogoURL)
	if logo.LogoURL == "" {
		return nil, invalid("missing logoUrl")
	}
	if err := s.saveLogo(ctx, logo, true); err != nil {
		return nil, err
	}
	return logo, nil
}

func (s *contentService) UpdateLogo(ctx context.Context, id uuid.UUID, in LogoInput) (*types.Logo, error) {
	dbc := dbctx.New(ctx)
	logo, err := s.repos.Logo.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if logo == nil {
		return nil, notFound("logo", id)
	}
	setString(&logo.LogoURL, in.LogoURL)
	setBool(&logo.IsActive, in.IsActive)
	if logo.LogoURL == "" {
		return nil, invalid("missing logoUrl")
	}
	if err := s.saveLogo(ctx, logo, false); err != nil {
		return nil, err
	}
	return logo, nil
}
