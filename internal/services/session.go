package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

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

// SessionInput is the writable surface of a session. Nil fields are left
// untouched on update.
type SessionInput struct {
	Title           *string                 `json:"title"`
	Room            *string                 `json:"room"`
	RoomID          *uuid.UUID              `json:"roomId"`
	Day             *int                    `json:"day"`
	DayID           *uuid.UUID              `json:"dayId"`
	StartTime       *string                 `json:"startTime"`
	EndTime         *string                 `json:"endTime"`
	Description     *string                 `json:"description"`
	Type            *string                 `json:"type"`
	LabLogoURL      *string                 `json:"labLogoUrl"`
	Chairpersons    *string                 `json:"chairpersons"`
	ChairpersonRefs *[]uuid.UUID            `json:"chairpersonRefs"`
	Speakers        *[]uuid.UUID            `json:"speakers"`
	SubsessionTexts *[]types.SubsessionText `json:"subsessionTexts"`
}

// DayRoomQuery selects sessions by day and room, each given either as an id
// or as a day number / room name.
type DayRoomQuery struct {
	DayID  string
	RoomID string
	Day    string
	Room   string
}

type SessionService interface {
	Create(ctx context.Context, in SessionInput) (*schedule.SessionView, error)
	List(ctx context.Context, sessionType string) ([]schedule.SessionView, error)
	Get(ctx context.Context, id uuid.UUID) (*schedule.SessionView, error)
	ListByDayAndRoom(ctx context.Context, q DayRoomQuery) ([]schedule.SessionView, error)
	Update(ctx context.Context, id uuid.UUID, in SessionInput) (*schedule.SessionView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateChairpersons(ctx context.Context, id uuid.UUID, chairpersonIDs []uuid.UUID) (*schedule.SessionView, error)
	Import(ctx context.Context, r io.Reader) (*importer.Result, error)
	// Invalidate drops cached session lists after writes made elsewhere.
	Invalidate(ctx context.Context)
}

type sessionService struct {
	db         *gorm.DB
	log        *logger.Logger
	repos      repos.Set
	loader     sessionLoader
	chairs     ChairpersonService
	reconciler *importer.Reconciler
	cache      redis.SessionCache
}

func NewSessionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	set repos.Set,
	chairs ChairpersonService,
	reconciler *importer.Reconciler,
	cache redis.SessionCache,
) SessionService {
	return &sessionService{
		db:         db,
		log:        baseLog.With("service", "SessionService"),
		repos:      set,
		loader:     newSessionLoader(set),
		chairs:     chairs,
		reconciler: reconciler,
		cache:      cache,
	}
}

func (s *sessionService) Create(ctx context.Context, in SessionInput) (*schedule.SessionView, error) {
	dbc := dbctx.New(ctx)
	session := &types.Session{}
	if err := s.apply(dbc, session, in); err != nil {
		return nil, err
	}
	if err := requireSessionFields(session); err != nil {
		return nil, err
	}
	if _, err := s.repos.Session.Create(dbc, []*types.Session{session}); err != nil {
		s.log.Warn("Create: insert failed", "error", err)
		return nil, err
	}
	s.Invalidate(ctx)
	return s.Get(ctx, session.ID)
}

func requireSessionFields(session *types.Session) error {
	var missing []string
	if strings.TrimSpace(session.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(session.StartTime) == "" {
		missing = append(missing, "startTime")
	}
	if strings.TrimSpace(session.EndTime) == "" {
		missing = append(missing, "endTime")
	}
	if len(missing) > 0 {
		return invalid("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// apply copies the supplied fields onto session and resolves every reference
// they carry. Chair text is resolved into refs only when no ref list is given.
func (s *sessionService) apply(dbc dbctx.Context, session *types.Session, in SessionInput) error {
	setString(&session.Title, in.Title)
	setString(&session.Room, in.Room)
	setString(&session.StartTime, in.StartTime)
	setString(&session.EndTime, in.EndTime)
	setString(&session.Description, in.Description)
	setString(&session.LabLogoURL, in.LabLogoURL)
	setString(&session.Chairpersons, in.Chairpersons)
	if in.Type != nil {
		session.Type = strings.TrimSpace(*in.Type)
		if session.Type == "" {
			session.Type = types.SessionTypeRegular
		}
	}
	if in.Day != nil {
		n := *in.Day
		session.Day = &n
	}

	if in.RoomID != nil {
		if *in.RoomID == uuid.Nil {
			session.RoomID = nil
		} else {
			room, err := s.repos.Room.GetByID(dbc, *in.RoomID)
			if err != nil {
				return err
			}
			if room == nil {
				return unknownRef("room", *in.RoomID)
			}
			session.RoomID = &room.ID
			if in.Room == nil {
				session.Room = room.Name
			}
		}
	}
	if in.DayID != nil {
		if *in.DayID == uuid.Nil {
			session.DayID = nil
		} else {
			day, err := s.repos.Day.GetByID(dbc, *in.DayID)
			if err != nil {
				return err
			}
			if day == nil {
				return unknownRef("day", *in.DayID)
			}
			session.DayID = &day.ID
			if in.Day == nil {
				n := day.Number
				session.Day = &n
			}
		}
	}

	if in.RoomID == nil && in.Room != nil {
		if err := s.findOrCreateRoom(dbc, session); err != nil {
			return err
		}
	}
	if in.DayID == nil && in.Day != nil {
		day, _, err := s.repos.Day.FindOrCreateByNumber(dbc, *session.Day, time.Now().UTC())
		if err != nil {
			return err
		}
		session.DayID = &day.ID
	}

	if in.Speakers != nil {
		ids, err := s.requireSpeakers(dbc, *in.Speakers)
		if err != nil {
			return err
		}
		session.Speakers = ids
	}
	switch {
	case in.ChairpersonRefs != nil:
		ids, err := s.requireChairpersons(dbc, *in.ChairpersonRefs)
		if err != nil {
			return err
		}
		session.ChairpersonRefs = ids
	case in.Chairpersons != nil:
		ids, err := s.chairs.ResolveNames(dbc.Ctx, session.Chairpersons)
		if err != nil {
			return err
		}
		session.ChairpersonRefs = ids
	}
	if in.SubsessionTexts != nil {
		session.SubsessionTexts = *in.SubsessionTexts
	}
	return nil
}

// findOrCreateRoom points session at the room carrying its room name. A blank
// name detaches the room.
func (s *sessionService) findOrCreateRoom(dbc dbctx.Context, session *types.Session) error {
	if session.Room == "" {
		session.RoomID = nil
		return nil
	}
	room, _, err := s.repos.Room.FindOrCreateByName(dbc, session.Room)
	if err != nil {
		return err
	}
	session.RoomID = &room.ID
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (s *sessionService) requireSpeakers(dbc dbctx.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	found, err := s.repos.Speaker.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, sp := range found {
		known[sp.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return nil, unknownRef("speaker", id)
		}
	}
	return dedupe(ids), nil
}

func (s *sessionService) requireChairpersons(dbc dbctx.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	found, err := s.repos.Chairperson.GetByIDs(dbc, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, c := range found {
		known[c.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return nil, unknownRef("chairperson", id)
		}
	}
	return dedupe(ids), nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *sessionService) List(ctx context.Context, sessionType string) ([]schedule.SessionView, error) {
	key := "list:" + sessionType
	if views, ok := s.cached(ctx, key); ok {
		return views, nil
	}
	dbc := dbctx.New(ctx)
	sessions, err := s.repos.Session.List(dbc, repos.SessionFilter{Type: sessionType})
	if err != nil {
		return nil, err
	}
	views, err := s.loader.Views(dbc, sessions)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, views)
	return views, nil
}

func (s *sessionService) cached(ctx context.Context, key string) ([]schedule.SessionView, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("List: cache read failed", "error", err, "key", key)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var views []schedule.SessionView
	if err := json.Unmarshal(raw, &views); err != nil {
		s.log.Warn("List: cache entry unreadable", "error", err, "key", key)
		return nil, false
	}
	return views, true
}

func (s *sessionService) store(ctx context.Context, key string, views []schedule.SessionView) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(views)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.log.Warn("List: cache write failed", "error", err, "key", key)
	}
}

func (s *sessionService) Invalidate(ctx context.Context) {
	cacheInvalidator{log: s.log, cache: s.cache}.Invalidate(ctx)
}

// cacheInvalidator drops every cached session list; a nil cache is a no-op.
type cacheInvalidator struct {
	log   *logger.Logger
	cache redis.SessionCache
}

func (c cacheInvalidator) Invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(ctx); err != nil {
		c.log.Warn("Invalidate: cache invalidation failed", "error", err)
	}
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*schedule.SessionView, error) {
	dbc := dbctx.New(ctx)
	session, err := s.repos.Session.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, notFound("session", id)
	}
	return s.loader.View(dbc, session)
}

func (s *sessionService) ListByDayAndRoom(ctx context.Context, q DayRoomQuery) ([]schedule.SessionView, error) {
	dbc := dbctx.New(ctx)
	filter := repos.SessionFilter{}

	switch {
	case q.DayID != "":
		id, err := uuid.Parse(q.DayID)
		if err != nil {
			return nil, invalid("dayId %q is not a valid id", q.DayID)
		}
		filter.DayID = &id
	case q.Day != "":
		n, err := parseDayNumber(q.Day)
		if err != nil {
			return nil, err
		}
		day, err := s.repos.Day.GetByNumber(dbc, n)
		if err != nil {
			return nil, err
		}
		if day == nil {
			return []schedule.SessionView{}, nil
		}
		filter.DayID = &day.ID
	}

	switch {
	case q.RoomID != "":
		id, err := uuid.Parse(q.RoomID)
		if err != nil {
			return nil, invalid("roomId %q is not a valid id", q.RoomID)
		}
		filter.RoomID = &id
	case q.Room != "":
		room, err := s.repos.Room.GetByName(dbc, q.Room)
		if err != nil {
			return nil, err
		}
		if room == nil {
			return []schedule.SessionView{}, nil
		}
		filter.RoomID = &room.ID
	}

	sessions, err := s.repos.Session.List(dbc, filter)
	if err != nil {
		return nil, err
	}
	return s.loader.Views(dbc, sessions)
}

func (s *sessionService) Update(ctx context.Context, id uuid.UUID, in SessionInput) (*schedule.SessionView, error) {
	dbc := dbctx.New(ctx)
	session, err := s.repos.Session.GetByID(dbc, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, notFound("session", id)
	}
	if err := s.apply(dbc, session, in); err != nil {
		return nil, err
	}
	if err := requireSessionFields(session); err != nil {
		return nil, err
	}
	if err := s.repos.Session.Save(dbc, session); err != nil {
		s.log.Warn("Update: save failed", "error", err, "session_id", id)
		return nil, err
	}
	s.Invalidate(ctx)
	return s.Get(ctx, id)
}

// Delete removes the session with its subsessions and detaches its videos.
func (s *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)
		session, err := s.repos.Session.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if session == nil {
			return notFound("session", id)
		}
		owned, err := s.repos.Subsession.ListBySession(dbc, id)
		if err != nil {
			return err
		}
		var subIDs idSet
		subIDs.add(session.Subsessions...)
		for _, sub := range owned {
			subIDs.add(sub.ID)
		}
		if _, err := s.repos.Subsession.DeleteByIDs(dbc, subIDs.ids); err != nil {
			return err
		}
		if err := s.repos.Video.DetachSession(dbc, id); err != nil {
			return err
		}
		_, err = s.repos.Session.DeleteByIDs(dbc, []uuid.UUID{id})
		return err
	})
	if err != nil {
		if _, ok := apierr.As(err); !ok {
			s.log.Warn("Delete: transaction failed", "error", err, "session_id", id)
		}
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *sessionService) UpdateChairpersons(ctx context.Context, id uuid.UUID, chairpersonIDs []uuid.UUID) (*schedule.SessionView, error) {
	dbc := dbctx.New(ctx)
	ids, err := s.requireChairpersons(dbc, chairpersonIDs)
	if err != nil {
		return nil, err
	}
	session, err := s.repos.Session.Mutate(dbc, id, func(session *types.Session) error {
		session.ChairpersonRefs = ids
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("session", id)
	}
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx)
	return s.loader.View(dbc, session)
}

func (s *sessionService) Import(ctx context.Context, r io.Reader) (*importer.Result, error) {
	wb, err := importer.ReadWorkbook(r)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_workbook", err)
	}
	res, err := s.reconciler.Run(ctx, wb)
	var verr *importer.ValidationError
	if errors.As(err, &verr) {
		return nil, apierr.New(http.StatusBadRequest, "validation_error", verr)
	}
	if res != nil && res.Sessions+res.Subsessions+res.Subsubsessions > 0 {
		s.Invalidate(context.WithoutCancel(ctx))
	}
	if err != nil {
		s.log.Warn("Import: run interrupted", "error", err)
		return res, err
	}
	return res, nil
}
