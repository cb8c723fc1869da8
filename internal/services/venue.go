package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

func parseDayNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalid("day %q is not a number", raw)
	}
	return n, nil
}

type RoomInput struct {
	Name     *string `json:"name"`
	Capacity *int    `json:"capacity"`
	Location *string `json:"location"`
}

type DayInput struct {
	Number  *int       `json:"number"`
	Date    *time.Time `json:"date"`
	DayName *string    `json:"dayName"`
}

// VenueService manages rooms and days. Writes invalidate cached session
// lists because sessions embed both.
type VenueService interface {
	CreateRoom(ctx context.Context, in RoomInput) (*types.Room, error)
	ListRooms(ctx context.Context) ([]*types.Room, error)
	GetRoom(ctx context.Context, id uuid.UUID) (*types.Room, error)
	UpdateRoom(ctx context.Context, id uuid.UUID, in RoomInput) (*types.Room, error)
	DeleteRoom(ctx context.Context, id uuid.UUID) error

	CreateDay(ctx context.Context, in DayInput) (*types.Day, error)
	ListDays(ctx context.Context) ([]*types.Day, error)
	GetDay(ctx context.Context, id uuid.UUID) (*types.Day, error)
	UpdateDay(ctx context.Context, id uuid.UUID, in DayInput) (*types.Day, error)
	DeleteDay(ctx context.Context, id uuid.UUID) error
}

type venueService struct {
	log      *logger.Logger
	rooms    repos.RoomRepo
	days     repos.DayRepo
	sessions SessionService
}

func NewVenueService(baseLog *logger.Logger, rooms repos.RoomRepo, days repos.DayRepo, sessions SessionService) VenueService {
	return &venueService{
		log:      baseLog.With("service", "VenueService"),
		rooms:    rooms,
		days:     days,
		sessions: sessions,
	}
}

func (s *venueService) changed(ctx context.Context) {
	if s.sessions != nil {
		s.sessions.Invalidate(ctx)
	}
}

func (in RoomInput) applyTo(r *types.Room) {
	setString(&r.Name, in.Name)
	setString(&r.Location, in.Location)
	if in.Capacity != nil {
		r.Capacity = *in.Capacity
	}
}

func (s *venueService) CreateRoom(ctx context.Context, in RoomInput) (*types.Room, error) {
	room := &types.Room{}
	in.applyTo(room)
	if room.Name == "" {
		return nil, invalid("missing name")
	}
	dbc := dbctx.New(ctx)
	existing, err := s.rooms.GetByName(dbc, room.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, invalid("room %q already exists", room.Name)
	}
	if _, err := s.rooms.Create(dbc, []*types.Room{room}); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *venueService) ListRooms(ctx context.Context) ([]*types.Room, error) {
	return s.rooms.List(dbctx.New(ctx))
}

func (s *venueService) GetRoom(ctx context.Context, id uuid.UUID) (*types.Room, error) {
	room, err := s.rooms.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, notFound("room", id)
	}
	return room, nil
}

func (s *venueService) UpdateRoom(ctx context.Context, id uuid.UUID, in RoomInput) (*types.Room, error) {
	room, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(room)
	if room.Name == "" {
		return nil, invalid("missing name")
	}
	if err := s.rooms.Save(dbctx.New(ctx), room); err != nil {
		return nil, err
	}
	s.changed(ctx)
	return room, nil
}

func (s *venueService) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	n, err := s.rooms.DeleteByIDs(dbctx.New(ctx), []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("room", id)
	}
	s.changed(ctx)
	return nil
}

func (in DayInput) applyTo(d *types.Day) {
	if in.Number != nil {
		d.Number = *in.Number
	}
	if in.Date != nil {
		d.Date = in.Date.UTC()
	}
	setString(&d.DayName, in.DayName)
}

func (s *venueService) CreateDay(ctx context.Context, in DayInput) (*types.Day, error) {
	if in.Number == nil {
		return nil, invalid("missing number")
	}
	day := &types.Day{}
	in.applyTo(day)
	dbc := dbctx.New(ctx)
	existing, err := s.days.GetByNumber(dbc, day.Number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, invalid("day %d already exists", day.Number)
	}
	if _, err := s.days.Create(dbc, []*types.Day{day}); err != nil {
		return nil, err
	}
	return day, nil
}

func (s *venueService) ListDays(ctx context.Context) ([]*types.Day, error) {
	return s.days.List(dbctx.New(ctx))
}

func (s *venueService) GetDay(ctx context.Context, id uuid.UUID) (*types.Day, error) {
	day, err := s.days.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, notFound("day", id)
	}
	return day, nil
}

func (s *venueService) UpdateDay(ctx context.Context, id uuid.UUID, in DayInput) (*types.Day, error) {
	day, err := s.GetDay(ctx, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(day)
	if err := s.days.Save(dbctx.New(ctx), day); err != nil {
		return nil, err
	}
	s.changed(ctx)
	return day, nil
}

func (s *venueService) DeleteDay(ctx context.Context, id uuid.UUID) error {
	n, err := s.days.DeleteByIDs(dbctx.New(ctx), []uuid.UUID{id})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("day", id)
	}
	s.changed(ctx)
	return nil
}
