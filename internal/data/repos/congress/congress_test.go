package congress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos/store"
	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos/testutil"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
)

func TestSessionRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewSessionRepo(db, testutil.Logger(t))

	spk := testutil.SeedSpeaker(t, ctx, db, "Dr A")
	created, err := repo.Create(dbc, []*types.Session{{Title: "Opening", StartTime: "08:00", EndTime: "09:00"}})
	if err != nil || len(created) != 1 {
		t.Fatalf("Create: err=%v len=%d", err, len(created))
	}
	if created[0].ID == uuid.Nil {
		t.Fatalf("Create: expected generated id")
	}
	if created[0].Type != types.SessionTypeRegular {
		t.Fatalf("Create: expected default type, got %q", created[0].Type)
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if got.SubsessionTexts == nil || got.Speakers == nil {
		t.Fatalf("GetByID: lists should decode as empty, got %+v", got)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID(missing): err=%v got=%v", err, missing)
	}

	subID := uuid.New()
	text := &types.SubsessionText{Title: "Talk", StartTime: "08:00", EndTime: "08:30", SpeakerIDs: []string{spk.ID.String()}}
	updated, err := repo.AppendSubsession(dbc, created[0].ID, subID, text)
	if err != nil {
		t.Fatalf("AppendSubsession: %v", err)
	}
	if len(updated.Subsessions) != 1 || len(updated.SubsessionTexts) != 1 {
		t.Fatalf("AppendSubsession: unexpected lists %+v", updated)
	}
	if updated.SubsessionTexts[0].Subsubsessions == nil {
		t.Fatalf("AppendSubsession: subsubsessions should be an empty array")
	}

	if err := repo.RemoveSubsessionRef(dbc, created[0].ID, subID); err != nil {
		t.Fatalf("RemoveSubsessionRef: %v", err)
	}
	got, _ = repo.GetByID(dbc, created[0].ID)
	if len(got.Subsessions) != 0 || len(got.SubsessionTexts) != 1 {
		t.Fatalf("RemoveSubsessionRef: refs=%v texts=%d", got.Subsessions, len(got.SubsessionTexts))
	}

	if _, err := repo.Mutate(dbc, uuid.New(), func(*types.Session) error { return nil }); err == nil {
		t.Fatalf("Mutate(missing): expected error")
	}

	if n, err := repo.DeleteByIDs(dbc, []uuid.UUID{created[0].ID}); err != nil || n != 1 {
		t.Fatalf("DeleteByIDs: err=%v n=%d", err, n)
	}
}

func TestSessionRepoConcurrentAppendsKeepEveryText(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewSessionRepo(db, testutil.Logger(t))
	s := testutil.SeedSession(t, ctx, db, "Plenary")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AppendSubsession(dbc, s.ID, uuid.New(), &types.SubsessionText{Title: "x"}); err != nil {
				t.Errorf("AppendSubsession: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(dbc, s.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.SubsessionTexts) != 8 || len(got.Subsessions) != 8 {
		t.Fatalf("expected 8 appends, got texts=%d refs=%d", len(got.SubsessionTexts), len(got.Subsessions))
	}
}

func TestSessionRepoListFilters(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewSessionRepo(db, testutil.Logger(t))
	room := testutil.SeedRoom(t, ctx, db, "Hall A")
	day := testutil.SeedDay(t, ctx, db, 1)

	_, err := repo.Create(dbc, []*types.Session{
		{Title: "In hall", StartTime: "10:00", EndTime: "11:00", RoomID: &room.ID, DayID: &day.ID},
		{Title: "Lunch", StartTime: "12:00", EndTime: "13:00", Type: types.SessionTypeLunchSymposium, DayID: &day.ID},
		{Title: "Early", StartTime: "08:00", EndTime: "09:00", RoomID: &room.ID, DayID: &day.ID},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.List(dbc, SessionFilter{RoomID: &room.ID, DayID: &day.ID})
	if err != nil || len(rows) != 2 {
		t.Fatalf("List(room, day): err=%v len=%d", err, len(rows))
	}
	if rows[0].Title != "Early" {
		t.Fatalf("List: expected start_time ordering, got %q first", rows[0].Title)
	}
	rows, err = repo.List(dbc, SessionFilter{Type: types.SessionTypeLunchSymposium})
	if err != nil || len(rows) != 1 || rows[0].Title != "Lunch" {
		t.Fatalf("List(type): err=%v rows=%v", err, rows)
	}
}

func TestFindOrCreateRepos(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	log := testutil.Logger(t)

	rooms := NewRoomRepo(db, log)
	a, created, err := rooms.FindOrCreateByName(dbc, "Hall B")
	if err != nil || !created {
		t.Fatalf("FindOrCreateByName: err=%v created=%v", err, created)
	}
	b, created, err := rooms.FindOrCreateByName(dbc, "Hall B")
	if err != nil || created || b.ID != a.ID {
		t.Fatalf("FindOrCreateByName(again): err=%v created=%v same=%v", err, created, b.ID == a.ID)
	}

	days := NewDayRepo(db, log)
	placeholder := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	d, created, err := days.FindOrCreateByNumber(dbc, 2, placeholder)
	if err != nil || !created || !d.Date.Equal(placeholder) {
		t.Fatalf("FindOrCreateByNumber: err=%v created=%v date=%v", err, created, d.Date)
	}
	if got, err := days.GetByNumber(dbc, 2); err != nil || got == nil || got.ID != d.ID {
		t.Fatalf("GetByNumber: err=%v got=%v", err, got)
	}

	chairs := NewChairpersonRepo(db, log)
	c1, _, err := chairs.FindOrCreateByName(dbc, "Pr X")
	if err != nil {
		t.Fatalf("FindOrCreateByName: %v", err)
	}
	c2, created, err := chairs.FindOrCreateByName(dbc, "Pr X")
	if err != nil || created || c1.ID != c2.ID {
		t.Fatalf("chairperson find-or-create not idempotent: err=%v created=%v", err, created)
	}
	all, err := chairs.List(dbc)
	if err != nil || len(all) != 1 {
		t.Fatalf("List: err=%v len=%d", err, len(all))
	}
}

func TestFindOrCreateLosesRaceInsideTransaction(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	table := store.NewTable[types.Room](db, testutil.Logger(t))

	var winner types.Room
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)
		got, created, err := table.FindOrCreate(dbc, "name = ?", "Hall R", func() *types.Room {
			winner = types.Room{Name: "Hall R"}
			if err := tx.Create(&winner).Error; err != nil {
				t.Fatalf("competing insert: %v", err)
			}
			return &types.Room{Name: "Hall R"}
		})
		if err != nil {
			return err
		}
		if created || got.ID != winner.ID {
			t.Fatalf("expected the competing row: created=%v got=%s want=%s", created, got.ID, winner.ID)
		}
		var n int64
		return tx.Model(&types.Room{}).Count(&n).Error
	})
	if err != nil {
		t.Fatalf("transaction: err=%v", err)
	}
}

func TestGetByIDsKeepsRequestOrder(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewSpeakerRepo(db, testutil.Logger(t))
	a := testutil.SeedSpeaker(t, ctx, db, "A")
	b := testutil.SeedSpeaker(t, ctx, db, "B")

	rows, err := repo.GetByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{b.ID, uuid.New(), a.ID, b.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != b.ID || rows[1].ID != a.ID {
		t.Fatalf("GetByIDs: unexpected order %+v", rows)
	}
	if s, err := repo.GetByName(dbctx.Context{Ctx: ctx}, " A "); err != nil || s == nil || s.ID != a.ID {
		t.Fatalf("GetByName: err=%v got=%v", err, s)
	}
}
