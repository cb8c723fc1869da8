package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/clients/redis"
	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/modules/importer"
	"github.com/Hi-chem22/AFRAN-2025/internal/modules/schedule"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/apierr"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

type ChairpersonService interface {
	// ResolveNames splits comma separated chair text and returns one id per
	// name in order, creating the chairpersons that do not exist yet.
	ResolveNames(ctx context.Context, text string) ([]uuid.UUID, error)
	Create(ctx context.Context, name string) (*types.Chairperson, error)
	List(ctx context.Context) ([]*types.Chairperson, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Chairperson, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*types.Chairperson, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type chairpersonService struct {
	log   *logger.Logger
	repo  repos.ChairpersonRepo
	cache cacheInvalidator
}

// NewChairpersonService takes the session cache directly because the session
// service itself depends on chairpersons. cache may be nil.
func NewChairpersonService(baseLog *logger.Logger, repo repos.ChairpersonRepo, cache redis.SessionCache) ChairpersonService {
	log := baseLog.With("service", "ChairpersonService")
	return &chairpersonService{log: log, repo: repo, cache: cacheInvalidator{log: log, cache: cache}}
}

func (s *chairpersonService) ResolveNames(ctx context.Context, text string) ([]uuid.UUID, error) {
	dbc := dbctx.New(ctx)
	out := []uuid.UUID{}
	for _, name := range schedule.SplitChairpersons(text) {
		chair, created, err := s.repo.FindOrCreateByName(dbc, name)
		if err != nil {
			s.log.Warn("ResolveNames: find-or-create failed", "error", err, "name", name)
			return nil, fmt.Errorf("resolve chairperson %q: %w", name, err)
		}
		if created {
			s.log.Debug("chairperson created", "name", name, "chairperson_id", chair.ID)
		}
		out = append(out, chair.ID)
	}
	return dedupe(out), nil
}

func (s *chairpersonService) Create(ctx context.Context, name string) (*types.Chairperson, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("missing name")
	}
	chair, _, err := s.repo.FindOrCreateByName(dbctx.New(ctx), name)
	return chair, err
}

func (s *chairpersonService) List(ctx context.Context) ([]*types.Chairperson, error) {
	return s.repo.List(dbctx.New(ctx))
}

func (s *chairpersonService) Get(ctx context.Context, id uuid.UUID) (*types.Chairperson, error) {
	chair, err := s.repo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if chair == nil {
		return nil, notFound("chairperson", id)
	}
	return chair, nil
}

func (s *chairpersonService) Rename(ctx context.Context, id uuid.UUID, name string) (*types.Chairperson, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("missing name")
	}
	chair, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	chair.Name = name
	if err := s.repo.Save(dbctx.New(ctx), chair); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return chair, nil
}

func (s *chairpersonService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.DeleteByIDs(dbctx.New(ctx), []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("chairperson", id)
	}
	s.cache.Invalidate(ctx)
	return nil
}

type SpeakerInput struct {
	Name              *string `json:"name"`
	Country           *string `json:"country"`
	Bio               *string `json:"bio"`
	FlagURL           *string `json:"flagUrl"`
	ExternalImageFlag *string `json:"externalImageFlag"`
	SpeakerImageURL   *string `json:"speakerImageUrl"`
}

type SpeakerImportResult struct {
	Created  int                `json:"created"`
	Updated  int                `json:"updated"`
	Errors   int                `json:"errors"`
	Warnings []importer.Warning `json:"warnings"`
}

const SheetSpeakers = "Speakers"

type SpeakerService interface {
	Create(ctx context.Context, in SpeakerInput) (*types.Speaker, error)
	List(ctx context.Context) ([]*types.Speaker, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Speaker, error)
	Update(ctx context.Context, id uuid.UUID, in SpeakerInput) (*types.Speaker, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Import(ctx context.Context, r io.Reader) (*SpeakerImportResult, error)
}

type speakerService struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.SpeakerRepo
	sessions SessionService
}

func NewSpeakerService(db *gorm.DB, baseLog *logger.Logger, repo repos.SpeakerRepo, sessions SessionService) SpeakerService {
	return &speakerService{db: db, log: baseLog.With("service", "SpeakerService"), repo: repo, sessions: sessions}
}

// changed drops cached session lists, which embed speakers.
func (s *speakerService) changed(ctx context.Context) {
	if s.sessions != nil {
		s.sessions.Invalidate(ctx)
	}
}

func (in SpeakerInput) applyTo(sp *types.Speaker) {
	setString(&sp.Name, in.Name)
	setString(&sp.Country, in.Country)
	setString(&sp.Bio, in.Bio)
	setString(&sp.FlagURL, in.FlagURL)
	setString(&sp.ExternalImageFlag, in.ExternalImageFlag)
	setString(&sp.SpeakerImageURL, in.SpeakerImageURL)
}

func (s *speakerService) Create(ctx context.Context, in SpeakerInput) (*types.Speaker, error) {
	sp := &types.Speaker{}
	in.applyTo(sp)
	if sp.Name == "" {
		return nil, invalid("missing name")
	}
	if _, err := s.repo.Create(dbctx.New(ctx), []*types.Speaker{sp}); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *speakerService) List(ctx context.Context) ([]*types.Speaker, error) {
	return s.repo.List(dbctx.New(ctx))
}

func (s *speakerService) Get(ctx context.Context, id uuid.UUID) (*types.Speaker, error) {
	sp, err := s.repo.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, notFound("speaker", id)
	}
	return sp, nil
}

func (s *speakerService) Update(ctx context.Context, id uuid.UUID, in SpeakerInput) (*types.Speaker, error) {
	sp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(sp)
	if sp.Name == "" {
		return nil, invalid("missing name")
	}
	if err := s.repo.Save(dbctx.New(ctx), sp); err != nil {
		return nil, err
	}
	s.changed(ctx)
	return sp, nil
}

func (s *speakerService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.repo.DeleteByIDs(dbctx.New(ctx), []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("speaker", id)
	}
	s.changed(ctx)
	return nil
}

// Import upserts the "Speakers" sheet: a row matches by "_id" first, then by
// exact name. Blank cells never overwrite stored values, so image URLs set by
// hand survive a re-import.
func (s *speakerService) Import(ctx context.Context, r io.Reader) (*SpeakerImportResult, error) {
	wb, err := importer.ReadWorkbook(r)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_workbook", err)
	}
	sheet := wb.Sheet(SheetSpeakers)
	if sheet == nil || len(sheet.Rows) == 0 {
		return nil, invalid("workbook has no %q sheet with rows", SheetSpeakers)
	}

	res := &SpeakerImportResult{Warnings: []importer.Warning{}}
	fail := func(row int, format string, args ...any) {
		res.Errors++
		res.Warnings = append(res.Warnings, importer.Warning{Sheet: SheetSpeakers, Row: row, Reason: fmt.Sprintf(format, args...)})
	}
	dbc := dbctx.New(ctx)
	for _, row := range sheet.Rows {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		in := SpeakerInput{
			Name:              nonBlank(row.Get("name")),
			Country:           nonBlank(row.Get("country")),
			Bio:               nonBlank(row.Get("bio")),
			FlagURL:           nonBlank(row.Get("flagUrl")),
			ExternalImageFlag: nonBlank(row.Get("externalImageFlag")),
			SpeakerImageURL:   nonBlank(row.Get("speakerImageUrl")),
		}

		var existing *types.Speaker
		if raw := row.Get("_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				fail(row.Number, "_id %q is not a valid id", raw)
				continue
			}
			if existing, err = s.repo.GetByID(dbc, id); err != nil {
				fail(row.Number, "lookup failed: %v", err)
				continue
			}
		}
		if existing == nil && in.Name != nil {
			if existing, err = s.repo.GetByName(dbc, *in.Name); err != nil {
				fail(row.Number, "lookup failed: %v", err)
				continue
			}
		}

		if existing != nil {
			in.applyTo(existing)
			if err := s.repo.Save(dbc, existing); err != nil {
				fail(row.Number, "update failed: %v", err)
				continue
			}
			res.Updated++
			continue
		}
		if in.Name == nil {
			fail(row.Number, "missing name")
			continue
		}
		sp := &types.Speaker{}
		in.applyTo(sp)
		if _, err := s.repo.Create(dbc, []*types.Speaker{sp}); err != nil {
			fail(row.Number, "create failed: %v", err)
			continue
		}
		res.Created++
	}
	if res.Updated > 0 {
		s.changed(ctx)
	}
	s.log.Info("speaker import finished", "created", res.Created, "updated", res.Updated, "errors", res.Errors)
	return res, nil
}

func nonBlank(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
