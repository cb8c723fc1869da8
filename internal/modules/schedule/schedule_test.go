package schedule

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		start, end, want string
	}{
		{"09:00", "12:00", "3h"},
		{"09:15", "10:00", "45m"},
		{"09:15", "11:45", "2h 30m"},
		{"23:00", "01:00", "2h"},
		{"10:00", "10:00", "0m"},
		{"08:30:00", "09:00:00", "30m"},
		{"", "10:00", ""},
		{"10:00", "", ""},
		{"ab:cd", "10:00", ""},
		{"10", "11:00", ""},
		{"25:00", "11:00", ""},
	}
	for _, tc := range cases {
		if got := Duration(tc.start, tc.end); got != tc.want {
			t.Errorf("Duration(%q, %q) = %q, want %q", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestDurationDecomposesEveryValidPair(t *testing.T) {
	for s := 0; s < minutesPerDay; s += 37 {
		for e := s; e < minutesPerDay; e += 41 {
			start := fmt.Sprintf("%02d:%02d", s/60, s%60)
			end := fmt.Sprintf("%02d:%02d", e/60, e%60)
			delta := e - s
			h, m := delta/60, delta%60
			var want string
			switch {
			case h > 0 && m > 0:
				want = fmt.Sprintf("%dh %dm", h, m)
			case h > 0:
				want = fmt.Sprintf("%dh", h)
			default:
				want = fmt.Sprintf("%dm", m)
			}
			if got := Duration(start, end); got != want {
				t.Fatalf("Duration(%s, %s) = %q, want %q", start, end, got, want)
			}
		}
	}
}

func TestCompactDuration(t *testing.T) {
	cases := []struct {
		start, end, want string
	}{
		{"09:00", "12:00", "3h00"},
		{"09:15", "10:00", "0h45"},
		{"09:15", "11:50", "2h35"},
		{"23:30", "00:15", "0h45"},
		{"", "10:00", ""},
	}
	for _, tc := range cases {
		if got := CompactDuration(tc.start, tc.end); got != tc.want {
			t.Errorf("CompactDuration(%q, %q) = %q, want %q", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestNormalizeTitle(t *testing.T) {
	inputs := []string{
		"Session: A, B.",
		"session a b",
		"  Hypertension -- Update  ",
		"Multi\t\tspace\ntitle",
		"",
		"- leading dash",
		"Néphrologie: état.des.lieux",
	}
	for _, in := range inputs {
		once := NormalizeTitle(in)
		if twice := NormalizeTitle(once); twice != once {
			t.Errorf("NormalizeTitle not idempotent for %q: %q then %q", in, once, twice)
		}
	}
	if NormalizeTitle("Session: A, B.") != NormalizeTitle("session a b") {
		t.Fatalf("expected punctuation and case to be ignored")
	}
	if got := NormalizeTitle("  Hypertension -- Update  "); got != "hypertension update" {
		t.Fatalf("unexpected normalization %q", got)
	}
}

func TestSplitChairpersons(t *testing.T) {
	got := SplitChairpersons(" A , B,, ,C ")
	if len(got) != 3 || got[0] != "A" || got[1] != "B" || got[2] != "C" {
		t.Fatalf("SplitChairpersons: %q", got)
	}
	if SplitChairpersons("") != nil {
		t.Fatalf("expected no names from empty text")
	}
}

func TestReconcilePrefersStoredTexts(t *testing.T) {
	texts := []types.SubsessionText{{
		Title:     "Stored",
		StartTime: "10:00",
		EndTime:   "10:20",
		Duration:  "stale",
		Subsubsessions: []types.SubsubsessionText{
			{Title: "Part", StartTime: "10:00", EndTime: "10:05", Duration: "stale"},
		},
	}}
	sub := &types.Subsession{ID: uuid.New(), Title: "Entity"}
	rep := ReconcileSubsessions(texts, []PopulatedSubsession{{Subsession: sub}})
	if rep.Source != SourceText || len(rep.Texts) != 1 {
		t.Fatalf("expected text source, got %v with %d texts", rep.Source, len(rep.Texts))
	}
	if rep.Texts[0].Duration != "20m" || rep.Texts[0].Subsubsessions[0].Duration != "5m" {
		t.Fatalf("durations were not recomputed: %+v", rep.Texts[0])
	}
	if rep.Texts[0].SpeakerIDs == nil {
		t.Fatalf("speakerIds should never be null")
	}
	if texts[0].Duration != "stale" {
		t.Fatalf("input texts must not be mutated")
	}
}

func TestReconcileSynthesizesFromRefs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	sub := &types.Subsession{
		ID:        uuid.New(),
		Title:     "Renal",
		StartTime: "11:00",
		EndTime:   "12:30",
		Speakers:  datatypes.NewJSONSlice([]uuid.UUID{b, a}),
		Subsubsessions: datatypes.NewJSONSlice([]types.Subsubsession{
			{Title: "Case", StartTime: "11:00", EndTime: "11:15", Speakers: []uuid.UUID{a}},
		}),
	}
	rep := ReconcileSubsessions(nil, []PopulatedSubsession{{Subsession: sub}})
	if rep.Source != SourceRefs || len(rep.Texts) != 1 {
		t.Fatalf("expected refs source, got %v", rep.Source)
	}
	got := rep.Texts[0]
	if len(got.SpeakerIDs) != 2 || got.SpeakerIDs[0] != b.String() || got.SpeakerIDs[1] != a.String() {
		t.Fatalf("speakerIds lost order: %v", got.SpeakerIDs)
	}
	if got.Duration != "1h 30m" {
		t.Fatalf("unexpected duration %q", got.Duration)
	}
	if len(got.Subsubsessions) != 1 || got.Subsubsessions[0].SpeakerIDs[0] != a.String() || got.Subsubsessions[0].Duration != "15m" {
		t.Fatalf("unexpected subsubsessions %+v", got.Subsubsessions)
	}
}

func TestReconcileEmpty(t *testing.T) {
	rep := ReconcileSubsessions(nil, nil)
	if rep.Source != SourceNone || rep.Texts == nil || len(rep.Texts) != 0 {
		t.Fatalf("expected empty non-nil texts, got %+v", rep)
	}
	b, _ := json.Marshal(FormatSession(PopulatedSession{Session: &types.Session{Title: "x"}}))
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["subsessionTexts"].([]any); !ok {
		t.Fatalf("subsessionTexts should encode as an array: %s", b)
	}
}

func TestFormatSessionChairpersonText(t *testing.T) {
	chairs := []*types.Chairperson{{Name: "A"}, {Name: ""}, {Name: "B"}}
	v := FormatSession(PopulatedSession{
		Session:      &types.Session{Title: "t", StartTime: "08:00", EndTime: "09:30"},
		Chairpersons: chairs,
	})
	if v.Chairpersons != "A, B" {
		t.Fatalf("expected synthesized chair text, got %q", v.Chairpersons)
	}
	if v.Duration != "1h 30m" {
		t.Fatalf("unexpected session duration %q", v.Duration)
	}

	v = FormatSession(PopulatedSession{
		Session:      &types.Session{Title: "t", Chairpersons: "Free text"},
		Chairpersons: chairs,
	})
	if v.Chairpersons != "Free text" {
		t.Fatalf("free text must win, got %q", v.Chairpersons)
	}
}

func TestFormatSessionFillsRoomAndDayFromRefs(t *testing.T) {
	room := &types.Room{ID: uuid.New(), Name: "Hall A"}
	day := &types.Day{ID: uuid.New(), Number: 2}
	v := FormatSession(PopulatedSession{Session: &types.Session{Title: "t"}, Room: room, Day: day})
	if v.Room != "Hall A" || v.Day == nil || *v.Day != 2 {
		t.Fatalf("room/day not filled: room=%q day=%v", v.Room, v.Day)
	}
}
