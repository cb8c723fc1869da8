package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
)

func SeedSpeaker(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Speaker {
	tb.Helper()
	s := &types.Speaker{
		ID:      uuid.New(),
		Name:    name,
		Country: "Tunisia",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed speaker: %v", err)
	}
	return s
}

func SeedRoom(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Room {
	tb.Helper()
	r := &types.Room{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed room: %v", err)
	}
	return r
}

func SeedDay(tb testing.TB, ctx context.Context, tx *gorm.DB, number int) *types.Day {
	tb.Helper()
	d := &types.Day{ID: uuid.New(), Number: number}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed day: %v", err)
	}
	return d
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, speakers ...uuid.UUID) *types.Session {
	tb.Helper()
	s := &types.Session{
		ID:        uuid.New(),
		Title:     title,
		StartTime: "09:00",
		EndTime:   "10:30",
		Speakers:  datatypes.NewJSONSlice(speakers),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

// SeedSubsession creates the subsession and links it to its session's ref list.
func SeedSubsession(tb testing.TB, ctx context.Context, tx *gorm.DB, session *types.Session, title string, speakers ...uuid.UUID) *types.Subsession {
	tb.Helper()
	sid := session.ID
	sub := &types.Subsession{
		ID:        uuid.New(),
		SessionID: &sid,
		Title:     title,
		StartTime: "09:00",
		EndTime:   "09:45",
		Speakers:  datatypes.NewJSONSlice(speakers),
	}
	if err := tx.WithContext(ctx).Create(sub).Error; err != nil {
		tb.Fatalf("seed subsession: %v", err)
	}
	session.Subsessions = append(session.Subsessions, sub.ID)
	if err := tx.WithContext(ctx).Save(session).Error; err != nil {
		tb.Fatalf("link subsession: %v", err)
	}
	return sub
}
