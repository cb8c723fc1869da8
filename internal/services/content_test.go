package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestVenueRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.venues.CreateRoom(ctx, RoomInput{Name: ptr("Hall A")})
	if err != nil {
		t.Fatalf("CreateRoom: err=%v", err)
	}
	if _, err := f.venues.CreateRoom(ctx, RoomInput{Name: ptr("Hall A")}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("duplicate room: err=%v", err)
	}
	if _, err := f.venues.CreateDay(ctx, DayInput{Number: ptr(1)}); err != nil {
		t.Fatalf("CreateDay: err=%v", err)
	}
	if _, err := f.venues.CreateDay(ctx, DayInput{Number: ptr(1)}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("duplicate day: err=%v", err)
	}
	if _, err := f.venues.CreateDay(ctx, DayInput{}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("day without number: err=%v", err)
	}

	if err := f.venues.DeleteRoom(ctx, room.ID); err != nil {
		t.Fatalf("DeleteRoom: err=%v", err)
	}
	if err := f.venues.DeleteRoom(ctx, room.ID); statusOf(err) != http.StatusNotFound {
		t.Fatalf("second delete: err=%v", err)
	}
}

func TestSponsorAndPartnerCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.content.CreateSponsor(ctx, SponsorInput{}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("sponsor without name: err=%v", err)
	}
	sp, err := f.content.CreateSponsor(ctx, SponsorInput{Name: ptr("Lab"), Tier: ptr("gold")})
	if err != nil {
		t.Fatalf("CreateSponsor: err=%v", err)
	}
	sp, err = f.content.UpdateSponsor(ctx, sp.ID, SponsorInput{Website: ptr("https://lab.example")})
	if err != nil {
		t.Fatalf("UpdateSponsor: err=%v", err)
	}
	if sp.Name != "Lab" || sp.Tier != "gold" || sp.Website != "https://lab.example" {
		t.Fatalf("partial update lost fields: %+v", sp)
	}
	if err := f.content.DeleteSponsor(ctx, sp.ID); err != nil {
		t.Fatalf("DeleteSponsor: err=%v", err)
	}
	if _, err := f.content.GetSponsor(ctx, sp.ID); statusOf(err) != http.StatusNotFound {
		t.Fatalf("deleted sponsor: err=%v", err)
	}

	p, err := f.content.CreatePartner(ctx, PartnerInput{Name: ptr("Society")})
	if err != nil {
		t.Fatalf("CreatePartner: err=%v", err)
	}
	if !p.Active {
		t.Fatalf("partners start active")
	}
	p, err = f.content.UpdatePartner(ctx, p.ID, PartnerInput{Active: ptr(false)})
	if err != nil || p.Active {
		t.Fatalf("UpdatePartner: p=%+v err=%v", p, err)
	}
}

func TestSessionVideosAreActiveAndOrdered(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.sessions.Create(ctx, SessionInput{
		Title:     ptr("Dialysis"),
		StartTime: ptr("11:00"),
		EndTime:   ptr("12:15"),
	})
	if err != nil {
		t.Fatalf("Create session: err=%v", err)
	}
	older := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)
	mk := func(title string, order int, date time.Time, active bool) {
		t.Helper()
		_, err := f.content.CreateVideo(ctx, VideoInput{
			Title:     ptr(title),
			URL:       ptr("https://videos.example/" + title),
			SessionID: ptr(session.ID),
			Order:     ptr(order),
			Date:      ptr(date),
			Active:    ptr(active),
		})
		if err != nil {
			t.Fatalf("CreateVideo %s: err=%v", title, err)
		}
	}
	mk("second", 2, newer, true)
	mk("first-old", 1, older, true)
	mk("first-new", 1, newer, true)
	mk("hidden", 0, newer, false)

	if _, err := f.content.CreateVideo(ctx, VideoInput{
		Title:     ptr("dangling"),
		URL:       ptr("https://videos.example/x"),
		SessionID: ptr(uuid.New()),
	}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("unknown session: err=%v", err)
	}

	videos, err := f.content.ListSessionVideos(ctx, session.ID)
	if err != nil {
		t.Fatalf("ListSessionVideos: err=%v", err)
	}
	var titles []string
	for _, v := range videos {
		titles = append(titles, v.Title)
		if v.SessionID == nil || v.SessionID.ID != session.ID || v.SessionID.Duration != "1h 15m" {
			t.Fatalf("session not embedded in %s: %+v", v.Title, v.SessionID)
		}
	}
	want := []string{"first-new", "first-old", "second"}
	if len(titles) != len(want) {
		t.Fatalf("titles=%v want=%v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("titles=%v want=%v", titles, want)
		}
	}
}
