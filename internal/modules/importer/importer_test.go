package importer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos"
	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos/testutil"
	"github.com/Hi-chem22/AFRAN-2025/internal/modules/schedule"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
)

type repoChairs struct {
	repo repos.ChairpersonRepo
}

func (c repoChairs) ResolveNames(ctx context.Context, text string) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for _, name := range schedule.SplitChairpersons(text) {
		ch, _, err := c.repo.FindOrCreateByName(dbctx.New(ctx), name)
		if err != nil {
			return nil, err
		}
		out = append(out, ch.ID)
	}
	return out, nil
}

type countingObserver struct {
	mu   sync.Mutex
	rows map[string]int
}

func (o *countingObserver) ImportRow(sheet, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rows == nil {
		o.rows = map[string]int{}
	}
	o.rows[sheet+"/"+outcome]++
}

func newReconciler(t *testing.T, db *gorm.DB, opts ...Option) (*Reconciler, repos.Set) {
	t.Helper()
	log := testutil.Logger(t)
	set := repos.NewSet(db, log)
	store := Store{
		Sessions:    set.Session,
		Subsessions: set.Subsession,
		Speakers:    set.Speaker,
		Rooms:       set.Room,
		Days:        set.Day,
	}
	return NewReconciler(log, store, repoChairs{repo: set.Chairperson}, opts...), set
}

func sheet(name string, rows ...[]string) *Sheet {
	return parseSheet(name, rows)
}

func workbook(sheets ...*Sheet) *Workbook {
	wb := &Workbook{Sheets: map[string]*Sheet{}}
	for _, s := range sheets {
		wb.Sheets[s.Name] = s
	}
	return wb
}

func hasWarning(res *Result, sheet string, row int) bool {
	for _, w := range res.Warnings {
		if w.Sheet == sheet && w.Row == row {
			return true
		}
	}
	return false
}

func TestRunLinksSubsessionsByDeclaredID(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	speaker := testutil.SeedSpeaker(t, ctx, db, "Dr. A")
	obs := &countingObserver{}
	r, set := newReconciler(t, db, WithObserver(obs), WithWorkers(2))

	wb := workbook(
		sheet(SheetSessions,
			[]string{"ID", "Session Title", "Room", "Day", "Start Time", "End Time", "Chairs", "Speaker IDs"},
			[]string{"1", "Opening", "Hall A", "1", "09:00", "10:30", "Pr. X, Pr. Y", speaker.ID.String()},
			[]string{"2", "Closing", "Hall A", "2.0", "17:00", "18:00", "", ""},
		),
		sheet(SheetSubsessions,
			[]string{"Session ID", "Title", "Start Time", "End Time", "Speaker IDs"},
			[]string{"1", "Keynote", "09:00", "09:45", speaker.ID.String()},
			[]string{"1", "Panel", "09:45", "10:30", ""},
			[]string{"2", "Wrap-up", "17:00", "17:30", ""},
		),
		sheet(SheetSubsubsessions,
			[]string{"Session ID", "Subsession Title", "Title", "Start Time", "End Time"},
			[]string{"1", "Keynote", "Intro", "09:00", "09:10"},
		),
	)

	res, err := r.Run(ctx, wb)
	if err != nil {
		t.Fatalf("Run: err=%v", err)
	}
	if res.Sessions != 2 || res.Subsessions != 3 || res.Subsubsessions != 1 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if res.Errors != 0 || res.Skipped != 0 || len(res.Warnings) != 0 {
		t.Fatalf("expected a clean import, got %+v", res)
	}

	sessions, err := set.Session.List(dbctx.New(ctx), repos.SessionFilter{})
	if err != nil || len(sessions) != 2 {
		t.Fatalf("List sessions: err=%v n=%d", err, len(sessions))
	}
	opening := sessions[0]
	if opening.Title != "Opening" || len(opening.Subsessions) != 2 || len(opening.SubsessionTexts) != 2 {
		t.Fatalf("opening not linked: %+v", opening)
	}
	if opening.RoomID == nil || opening.Room != "Hall A" || opening.Day == nil || *opening.Day != 1 {
		t.Fatalf("room/day not resolved: %+v", opening)
	}
	if sessions[1].RoomID == nil || *sessions[1].RoomID != *opening.RoomID {
		t.Fatalf("room should be shared between sessions")
	}
	if len(opening.ChairpersonRefs) != 2 || opening.Chairpersons != "Pr. X, Pr. Y" {
		t.Fatalf("chairpersons not resolved: %+v", opening)
	}
	if len(opening.Speakers) != 1 || opening.Speakers[0] != speaker.ID {
		t.Fatalf("speakers not resolved: %v", opening.Speakers)
	}
	keynote := opening.SubsessionTexts[0]
	if keynote.Title != "Keynote" || keynote.Duration != "45m" || len(keynote.Subsubsessions) != 1 {
		t.Fatalf("unexpected keynote text: %+v", keynote)
	}
	if len(keynote.SpeakerIDs) != 1 || keynote.SpeakerIDs[0] != speaker.ID.String() {
		t.Fatalf("keynote speakers: %v", keynote.SpeakerIDs)
	}

	subs, err := set.Subsession.ListBySession(dbctx.New(ctx), opening.ID)
	if err != nil || len(subs) != 2 {
		t.Fatalf("ListBySession: err=%v n=%d", err, len(subs))
	}
	if subs[0].Title != "Keynote" || len(subs[0].Subsubsessions) != 1 || subs[0].Subsubsessions[0].Title != "Intro" {
		t.Fatalf("subsubsession not attached to entity: %+v", subs[0])
	}
	if obs.rows[SheetSessions+"/"+OutcomeCreated] != 2 || obs.rows[SheetSubsessions+"/"+OutcomeCreated] != 3 {
		t.Fatalf("observer counts: %v", obs.rows)
	}
}

func TestRunMatchesSubsubsessionsByNormalizedTitle(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	r, set := newReconciler(t, db)

	wb := workbook(
		sheet(SheetSessions,
			[]string{"ID", "Session Title", "Start Time", "End Time"},
			[]string{"7", "Nephrology", "11:00", "12:00"},
		),
		sheet(SheetSubsessions,
			[]string{"Session ID", "Title", "Start Time", "End Time"},
			[]string{"7", "CKD: State of the Art.", "11:00", "11:30"},
		),
		sheet(SheetSubsubsessions,
			[]string{"Session ID", "Subsession Title", "Title", "Start Time", "End Time"},
			[]string{"7", "ckd state of the art", "Staging", "11:00", "11:10"},
			[]string{"7", "Unknown block", "Orphan", "11:10", "11:20"},
		),
	)
	res, err := r.Run(ctx, wb)
	if err != nil {
		t.Fatalf("Run: err=%v", err)
	}
	if res.Subsubsessions != 1 || res.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if !hasWarning(res, SheetSubsubsessions, 3) {
		t.Fatalf("expected a warning for the orphan row: %+v", res.Warnings)
	}
	sessions, _ := set.Session.List(dbctx.New(ctx), repos.SessionFilter{})
	texts := sessions[0].SubsessionTexts
	if len(texts) != 1 || len(texts[0].Subsubsessions) != 1 || texts[0].Subsubsessions[0].Title != "Staging" {
		t.Fatalf("text tree not updated: %+v", texts)
	}
}

func TestRunRejectsWorkbookWithoutSessions(t *testing.T) {
	db := testutil.DB(t)
	r, set := newReconciler(t, db)
	ctx := context.Background()

	cases := []*Workbook{
		workbook(sheet(SheetSubsessions, []string{"Session ID", "Title"}, []string{"1", "x"})),
		workbook(sheet(SheetSessions, []string{"Session Title", "Start Time", "End Time"})),
		workbook(sheet(SheetSessions, []string{"Session Title", "Start Time"}, []string{"x", "09:00"})),
	}
	for i, wb := range cases {
		_, err := r.Run(ctx, wb)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("case %d: expected ValidationError, got %v", i, err)
		}
	}
	sessions, _ := set.Session.List(dbctx.New(ctx), repos.SessionFilter{})
	if len(sessions) != 0 {
		t.Fatalf("rejected workbooks must not write, found %d sessions", len(sessions))
	}
}

func TestRunSkipsRowsWithUnknownParentsAndSpeakers(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	r, set := newReconciler(t, db)
	ghost := uuid.New()

	wb := workbook(
		sheet(SheetSessions,
			[]string{"ID", "Session Title", "Start Time", "End Time", "Speaker IDs"},
			[]string{"1", "Main", "09:00", "10:00", ghost.String() + ", not-an-id"},
			[]string{"", "", "10:00", "11:00", ""},
		),
		sheet(SheetSubsessions,
			[]string{"Session ID", "Title", "Start Time", "End Time"},
			[]string{"99", "Lost", "09:00", "09:30"},
			[]string{"", "No parent", "09:00", "09:30"},
		),
	)
	res, err := r.Run(ctx, wb)
	if err != nil {
		t.Fatalf("Run: err=%v", err)
	}
	if res.Sessions != 1 || res.Errors != 1 || res.Skipped != 2 || res.Subsessions != 0 {
		t.Fatalf("unexpected counts: %+v", res)
	}
	if !hasWarning(res, SheetSessions, 2) || !hasWarning(res, SheetSessions, 3) {
		t.Fatalf("expected speaker and missing-title warnings: %+v", res.Warnings)
	}
	if res.Warnings[0].Sheet != SheetSessions {
		t.Fatalf("warnings should be ordered by sheet: %+v", res.Warnings)
	}
	sessions, _ := set.Session.List(dbctx.New(ctx), repos.SessionFilter{})
	if len(sessions) != 1 || len(sessions[0].Speakers) != 0 {
		t.Fatalf("unknown speakers must be dropped: %+v", sessions)
	}
}

func TestRunKeepsRepeatedSpeakersInCellOrder(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	a := testutil.SeedSpeaker(t, ctx, db, "Dr. A")
	b := testutil.SeedSpeaker(t, ctx, db, "Dr. B")
	r, set := newReconciler(t, db)

	cell := a.ID.String() + ", " + b.ID.String() + ", " + uuid.New().String() + ", " + a.ID.String()
	wb := workbook(sheet(SheetSessions,
		[]string{"Session Title", "Start Time", "End Time", "Speaker IDs"},
		[]string{"Main", "09:00", "10:00", cell},
	))
	res, err := r.Run(ctx, wb)
	if err != nil {
		t.Fatalf("Run: err=%v", err)
	}
	if res.Sessions != 1 || !hasWarning(res, SheetSessions, 2) {
		t.Fatalf("unexpected result: %+v", res)
	}
	sessions, _ := set.Session.List(dbctx.New(ctx), repos.SessionFilter{})
	got := sessions[0].Speakers
	if len(got) != 3 || got[0] != a.ID || got[1] != b.ID || got[2] != a.ID {
		t.Fatalf("speakers: %v", got)
	}
}

func TestRunCreatesPlaceholderDay(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	r, set := newReconciler(t, db)
	wb := workbook(sheet(SheetSessions,
		[]string{"Session Title", "Day", "Start Time", "End Time"},
		[]string{"a", "3", "08:00", "09:00"},
		[]string{"b", "3", "09:00", "10:00"},
		[]string{"c", "three", "10:00", "11:00"},
	))
	res, err := r.Run(ctx, wb)
	if err != nil {
		t.Fatalf("Run: err=%v", err)
	}
	if res.Sessions != 3 || !hasWarning(res, SheetSessions, 4) {
		t.Fatalf("unexpected result: %+v", res)
	}
	days, _ := set.Day.List(dbctx.New(ctx))
	if len(days) != 1 || days[0].Number != 3 {
		t.Fatalf("expected a single day 3, got %+v", days)
	}
}

func TestReadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSessions); err != nil {
		t.Fatalf("SetSheetName: err=%v", err)
	}
	rows := [][]interface{}{
		{"ID", "Session Title", "Start Time", "End Time"},
		{"1", " Opening ", "9:05", "10:00"},
		{},
		{"2", "Closing", "17:00", "18:00"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSessions, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: err=%v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: err=%v", err)
	}

	wb, err := ReadWorkbook(buf)
	if err != nil {
		t.Fatalf("ReadWorkbook: err=%v", err)
	}
	s := wb.Sheet(SheetSessions)
	if s == nil || len(s.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %+v", s)
	}
	if s.Rows[0].Get("Session Title") != "Opening" || s.Rows[1].Number != 4 {
		t.Fatalf("unexpected rows: %+v", s.Rows)
	}
	if got := clockCell(s.Rows[0].Get("Start Time")); got != "09:05" {
		t.Fatalf("clockCell = %q", got)
	}
	if wb.Sheet(SheetSubsessions) != nil {
		t.Fatalf("unexpected sheet")
	}
}

func TestDayNumber(t *testing.T) {
	for in, want := range map[string]int{"3": 3, " 2 ": 2, "4.0": 4} {
		if got, ok := dayNumber(in); !ok || got != want {
			t.Errorf("dayNumber(%q) = %d, %v", in, got, ok)
		}
	}
	for _, in := range []string{"", "2.5", "two"} {
		if _, ok := dayNumber(in); ok {
			t.Errorf("dayNumber(%q) should fail", in)
		}
	}
}
