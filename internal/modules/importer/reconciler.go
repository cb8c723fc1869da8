package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/modules/schedule"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

// Column headers. Existing templates depend on the exact text.
const (
	ColID              = "ID"
	ColSessionTitle    = "Session Title"
	ColRoomID          = "Room ID"
	ColRoom            = "Room"
	ColDayID           = "Day ID"
	ColDay             = "Day"
	ColStartTime       = "Start Time"
	ColEndTime         = "End Time"
	ColDescription     = "Description"
	ColChairs          = "Chairs"
	ColSpeakerIDs      = "Speaker IDs"
	ColType            = "Type"
	ColLabLogoURL      = "Lab Logo URL"
	ColSessionID       = "Session ID"
	ColTitle           = "Title"
	ColSpeaker         = "Speaker"
	ColSpeakerCountry  = "Speaker Country"
	ColSpeakerBio      = "Speaker Bio"
	ColSpeakerFlag     = "Speaker Flag"
	ColSubsessionTitle = "Subsession Title"
)

const (
	OutcomeCreated = "created"
	OutcomeUpdated = "updated"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Observer receives one call per processed row.
type Observer interface {
	ImportRow(sheet, outcome string)
}

// ChairpersonResolver turns free chair text into chairperson ids,
// creating missing chairpersons.
type ChairpersonResolver interface {
	ResolveNames(ctx context.Context, text string) ([]uuid.UUID, error)
}

type Store struct {
	Sessions    repos.SessionRepo
	Subsessions repos.SubsessionRepo
	Speakers    repos.SpeakerRepo
	Rooms       repos.RoomRepo
	Days        repos.DayRepo
}

type Reconciler struct {
	log     *logger.Logger
	store   Store
	chairs  ChairpersonResolver
	workers int
	obs     Observer
	now     func() time.Time
}

type Option func(*Reconciler)

// WithWorkers bounds how many parent sessions are processed at once in the
// subsession phases.
func WithWorkers(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.workers = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(r *Reconciler) { r.obs = o }
}

func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

func NewReconciler(baseLog *logger.Logger, store Store, chairs ChairpersonResolver, opts ...Option) *Reconciler {
	r := &Reconciler{
		log:     baseLog.With("module", "importer"),
		store:   store,
		chairs:  chairs,
		workers: 4,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var tracer = otel.Tracer("github.com/Hi-chem22/AFRAN-2025/internal/modules/importer")

var errNoText = errors.New("no matching subsession text")

// Run imports a workbook. Sessions are processed in sheet order, then
// subsessions, then subsubsessions; the later phases fan out per parent
// session while rows of one parent stay sequential. Row failures are
// collected in the result and never abort the run.
func (r *Reconciler) Run(ctx context.Context, wb *Workbook) (*Result, error) {
	sessions := wb.Sheet(SheetSessions)
	if sessions == nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("missing sheet %q", SheetSessions)}
	}
	if len(sessions.Rows) == 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("sheet %q has no rows", SheetSessions)}
	}
	for _, col := range []string{ColSessionTitle, ColStartTime, ColEndTime} {
		if !sessions.HasColumn(col) {
			return nil, &ValidationError{Reason: fmt.Sprintf("sheet %q is missing column %q", SheetSessions, col)}
		}
	}

	ctx, span := tracer.Start(ctx, "import.run")
	defer span.End()

	started := time.Now()
	t := newTally(r.obs, r.log)
	ids := IDMap{}

	r.importSessions(ctx, sessions, ids, t)
	if sheet := wb.Sheet(SheetSubsessions); sheet != nil {
		r.importSubsessions(ctx, sheet, ids, t)
	}
	if sheet := wb.Sheet(SheetSubsubsessions); sheet != nil {
		r.importSubsubsessions(ctx, sheet, ids, t)
	}

	res := t.result()
	span.SetAttributes(
		attribute.Int("import.sessions", res.Sessions),
		attribute.Int("import.subsessions", res.Subsessions),
		attribute.Int("import.subsubsessions", res.Subsubsessions),
		attribute.Int("import.errors", res.Errors),
	)
	r.log.Info("import finished",
		"sessions", res.Sessions,
		"subsessions", res.Subsessions,
		"subsubsessions", res.Subsubsessions,
		"skipped", res.Skipped,
		"errors", res.Errors,
		"warnings", len(res.Warnings),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func (r *Reconciler) importSessions(ctx context.Context, sheet *Sheet, ids IDMap, t *tally) {
	ctx, span := tracer.Start(ctx, "import.sessions")
	defer span.End()
	span.SetAttributes(attribute.Int("rows", len(sheet.Rows)))

	dbc := dbctx.New(ctx)
	for _, row := range sheet.Rows {
		if ctx.Err() != nil {
			return
		}
		s := &types.Session{
			Title:        row.Get(ColSessionTitle),
			StartTime:    clockCell(row.Get(ColStartTime)),
			EndTime:      clockCell(row.Get(ColEndTime)),
			Description:  row.Get(ColDescription),
			Type:         row.Get(ColType),
			LabLogoURL:   row.Get(ColLabLogoURL),
			Chairpersons: row.Get(ColChairs),
		}
		if missing := missingFields(s); len(missing) > 0 {
			t.fail(SheetSessions, row.Number, fmt.Errorf("missing %s", strings.Join(missing, ", ")), "session row rejected")
			continue
		}
		r.resolveRoom(dbc, row, s, t)
		r.resolveDay(dbc, row, s, t)
		s.Speakers = r.resolveSpeakers(dbc, SheetSessions, row, t)
		if s.Chairpersons != "" && r.chairs != nil {
			refs, err := r.chairs.ResolveNames(ctx, s.Chairpersons)
			if err != nil {
				t.warn(SheetSessions, row.Number, "chairpersons %q not resolved: %v", s.Chairpersons, err)
			} else {
				s.ChairpersonRefs = refs
			}
		}

		if _, err := r.store.Sessions.Create(dbc, []*types.Session{s}); err != nil {
			t.fail(SheetSessions, row.Number, err, "create session")
			continue
		}
		if ext := row.Get(ColID); ext != "" {
			if prev, dup := ids[ext]; dup {
				t.warn(SheetSessions, row.Number, "ID %q already used by session %s; keeping the first", ext, prev)
			} else {
				ids[ext] = s.ID
			}
		}
		t.add(func(res *Result) {
			res.Sessions++
			res.Created++
		})
		t.observe(SheetSessions, OutcomeCreated)
	}
}

func missingFields(s *types.Session) []string {
	var out []string
	if s.Title == "" {
		out = append(out, ColSessionTitle)
	}
	if s.StartTime == "" {
		out = append(out, ColStartTime)
	}
	if s.EndTime == "" {
		out = append(out, ColEndTime)
	}
	return out
}

func (r *Reconciler) resolveRoom(dbc dbctx.Context, row Row, s *types.Session, t *tally) {
	if raw := row.Get(ColRoomID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			t.warn(SheetSessions, row.Number, "room id %q is not a valid id", raw)
			return
		}
		room, err := r.store.Rooms.GetByID(dbc, id)
		if err != nil {
			t.warn(SheetSessions, row.Number, "room lookup failed: %v", err)
			return
		}
		if room == nil {
			t.warn(SheetSessions, row.Number, "room %s not found", id)
			return
		}
		s.RoomID, s.Room = &room.ID, room.Name
		return
	}
	if name := row.Get(ColRoom); name != "" {
		room, _, err := r.store.Rooms.FindOrCreateByName(dbc, name)
		if err != nil {
			t.warn(SheetSessions, row.Number, "room %q not resolved: %v", name, err)
			return
		}
		s.RoomID, s.Room = &room.ID, room.Name
	}
}

func (r *Reconciler) resolveDay(dbc dbctx.Context, row Row, s *types.Session, t *tally) {
	if raw := row.Get(ColDayID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			t.warn(SheetSessions, row.Number, "day id %q is not a valid id", raw)
			return
		}
		day, err := r.store.Days.GetByID(dbc, id)
		if err != nil {
			t.warn(SheetSessions, row.Number, "day lookup failed: %v", err)
			return
		}
		if day == nil {
			t.warn(SheetSessions, row.Number, "day %s not found", id)
			return
		}
		n := day.Number
		s.DayID, s.Day = &day.ID, &n
		return
	}
	raw := row.Get(ColDay)
	if raw == "" {
		return
	}
	n, ok := dayNumber(raw)
	if !ok {
		t.warn(SheetSessions, row.Number, "day %q is not a number", raw)
		return
	}
	day, _, err := r.store.Days.FindOrCreateByNumber(dbc, n, r.now())
	if err != nil {
		t.warn(SheetSessions, row.Number, "day %d not resolved: %v", n, err)
		return
	}
	s.DayID, s.Day = &day.ID, &n
}

// resolveSpeakers keeps the ids of the "Speaker IDs" cell that exist, in
// cell order, repeats included. Everything else becomes a warning.
func (r *Reconciler) resolveSpeakers(dbc dbctx.Context, sheet string, row Row, t *tally) []uuid.UUID {
	out := []uuid.UUID{}
	var parsed []uuid.UUID
	for _, raw := range splitList(row.Get(ColSpeakerIDs)) {
		id, err := uuid.Parse(raw)
		if err != nil {
			t.warn(sheet, row.Number, "speaker id %q is not a valid id", raw)
			continue
		}
		parsed = append(parsed, id)
	}
	if len(parsed) == 0 {
		return out
	}
	found, err := r.store.Speakers.GetByIDs(dbc, parsed)
	if err != nil {
		t.warn(sheet, row.Number, "speaker lookup failed: %v", err)
		return out
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, sp := range found {
		known[sp.ID] = true
	}
	for _, id := range parsed {
		if !known[id] {
			t.warn(sheet, row.Number, "speaker %s not found", id)
			continue
		}
		out = append(out, id)
	}
	return out
}

type rowGroup struct {
	key  string
	rows []Row
}

// groupRows buckets rows by key, keeping first-seen order of keys and rows.
func groupRows(rows []Row, key func(Row) string) []rowGroup {
	idx := map[string]int{}
	var out []rowGroup
	for _, row := range rows {
		k := key(row)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, rowGroup{key: k})
		}
		out[i].rows = append(out[i].rows, row)
	}
	return out
}

// parents resolves each group's "Session ID" through ids and hands the
// resolvable ones to fn on a bounded worker pool.
func (r *Reconciler) parents(ctx context.Context, sheet *Sheet, ids IDMap, t *tally, fn func(sessionID uuid.UUID, rows []Row)) {
	var g errgroup.Group
	g.SetLimit(r.workers)
	for _, grp := range groupRows(sheet.Rows, func(row Row) string { return row.Get(ColSessionID) }) {
		if grp.key == "" {
			for _, row := range grp.rows {
				t.skip(sheet.Name, row.Number, "missing %q", ColSessionID)
			}
			continue
		}
		sessionID, ok := ids[grp.key]
		if !ok {
			for _, row := range grp.rows {
				t.skip(sheet.Name, row.Number, "no imported session declares ID %q", grp.key)
			}
			continue
		}
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fn(sessionID, grp.rows)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Reconciler) importSubsessions(ctx context.Context, sheet *Sheet, ids IDMap, t *tally) {
	ctx, span := tracer.Start(ctx, "import.subsessions")
	defer span.End()
	span.SetAttributes(attribute.Int("rows", len(sheet.Rows)))

	r.parents(ctx, sheet, ids, t, func(sessionID uuid.UUID, rows []Row) {
		dbc := dbctx.New(ctx)
		for _, row := range rows {
			if ctx.Err() != nil {
				return
			}
			r.importSubsession(dbc, sessionID, row, t)
		}
	})
}

func (r *Reconciler) importSubsession(dbc dbctx.Context, sessionID uuid.UUID, row Row, t *tally) {
	title := row.Get(ColTitle)
	if title == "" {
		t.fail(SheetSubsessions, row.Number, fmt.Errorf("missing %s", ColTitle), "subsession row rejected")
		return
	}
	sid := sessionID
	sub := &types.Subsession{
		SessionID:      &sid,
		Title:          title,
		StartTime:      clockCell(row.Get(ColStartTime)),
		EndTime:        clockCell(row.Get(ColEndTime)),
		Description:    row.Get(ColDescription),
		Speakers:       r.resolveSpeakers(dbc, SheetSubsessions, row, t),
		SpeakerName:    row.Get(ColSpeaker),
		SpeakerCountry: row.Get(ColSpeakerCountry),
		SpeakerBio:     row.Get(ColSpeakerBio),
		SpeakerFlag:    row.Get(ColSpeakerFlag),
	}
	if _, err := r.store.Subsessions.Create(dbc, []*types.Subsession{sub}); err != nil {
		t.fail(SheetSubsessions, row.Number, err, "create subsession")
		return
	}
	t.add(func(res *Result) {
		res.Subsessions++
		res.Created++
	})

	text := schedule.TextFromSubsession(sub)
	if _, err := r.store.Sessions.AppendSubsession(dbc, sessionID, sub.ID, &text); err != nil {
		t.fail(SheetSubsessions, row.Number, err, "link subsession to session")
		return
	}
	t.add(func(res *Result) { res.Updated++ })
	t.observe(SheetSubsessions, OutcomeCreated)
}

func (r *Reconciler) importSubsubsessions(ctx context.Context, sheet *Sheet, ids IDMap, t *tally) {
	ctx, span := tracer.Start(ctx, "import.subsubsessions")
	defer span.End()
	span.SetAttributes(attribute.Int("rows", len(sheet.Rows)))

	r.parents(ctx, sheet, ids, t, func(sessionID uuid.UUID, rows []Row) {
		dbc := dbctx.New(ctx)
		subs, err := r.store.Subsessions.ListBySession(dbc, sessionID)
		if err != nil {
			for _, row := range rows {
				t.fail(SheetSubsubsessions, row.Number, err, "load subsessions")
			}
			return
		}
		for _, grp := range groupRows(rows, func(row Row) string { return row.Get(ColSubsessionTitle) }) {
			if grp.key == "" {
				for _, row := range grp.rows {
					t.skip(SheetSubsubsessions, row.Number, "missing %q", ColSubsessionTitle)
				}
				continue
			}
			entity := MatchSubsession(subs, grp.key)
			for _, row := range grp.rows {
				if ctx.Err() != nil {
					return
				}
				r.attachSubsubsession(dbc, sessionID, entity, grp.key, row, t)
			}
		}
	})
}

// MatchSubsession finds the subsession titled title: an exact
// case-insensitive match first, then normalized-title equality.
func MatchSubsession(subs []*types.Subsession, title string) *types.Subsession {
	for _, s := range subs {
		if schedule.SameTitle(s.Title, title) {
			return s
		}
	}
	want := schedule.NormalizeTitle(title)
	for _, s := range subs {
		if schedule.NormalizeTitle(s.Title) == want {
			return s
		}
	}
	return nil
}

// attachSubsubsession appends the row to the matched entity and, on its own
// lookup, to the session's text tree. Either side may miss independently.
func (r *Reconciler) attachSubsubsession(dbc dbctx.Context, sessionID uuid.UUID, entity *types.Subsession, parentTitle string, row Row, t *tally) {
	title := row.Get(ColTitle)
	if title == "" {
		t.fail(SheetSubsubsessions, row.Number, fmt.Errorf("missing %s", ColTitle), "subsubsession row rejected")
		return
	}
	ss := types.Subsubsession{
		Title:       title,
		StartTime:   clockCell(row.Get(ColStartTime)),
		EndTime:     clockCell(row.Get(ColEndTime)),
		Description: row.Get(ColDescription),
		Speakers:    r.resolveSpeakers(dbc, SheetSubsubsessions, row, t),
	}
	ss.Duration = schedule.Duration(ss.StartTime, ss.EndTime)

	attached, failed := 0, false
	if entity == nil {
		t.warn(SheetSubsubsessions, row.Number, "no subsession titled %q in session", parentTitle)
	} else if _, err := r.store.Subsessions.Mutate(dbc, entity.ID, func(s *types.Subsession) error {
		s.Subsubsessions = append(s.Subsubsessions, ss)
		return nil
	}); err != nil {
		t.fail(SheetSubsubsessions, row.Number, err, "append to subsession")
		failed = true
	} else {
		attached++
	}

	want := schedule.NormalizeTitle(parentTitle)
	text := schedule.TextFromSubsubsession(ss)
	_, err := r.store.Sessions.Mutate(dbc, sessionID, func(s *types.Session) error {
		for i := range s.SubsessionTexts {
			if schedule.NormalizeTitle(s.SubsessionTexts[i].Title) == want {
				s.SubsessionTexts[i].Subsubsessions = append(s.SubsessionTexts[i].Subsubsessions, text)
				return nil
			}
		}
		return errNoText
	})
	switch {
	case errors.Is(err, errNoText):
		t.warn(SheetSubsubsessions, row.Number, "no subsession text titled %q on session", parentTitle)
	case err != nil:
		t.fail(SheetSubsubsessions, row.Number, err, "append to subsession text")
		failed = true
	default:
		attached++
	}

	switch {
	case attached > 0:
		t.add(func(res *Result) {
			res.Subsubsessions++
			res.Updated += attached
		})
		t.observe(SheetSubsubsessions, OutcomeUpdated)
	case !failed:
		t.skip(SheetSubsubsessions, row.Number, "subsubsession %q not attached", title)
	}
}
