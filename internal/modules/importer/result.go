package importer

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

const (
	SheetSessions       = "Sessions"
	SheetSubsessions    = "Subsessions"
	SheetSubsubsessions = "Subsubsessions"
)

// ValidationError rejects a whole import before anything is written.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid workbook: " + e.Reason }

// Warning records one row that was skipped or only partly applied.
type Warning struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type Result struct {
	Sessions       int       `json:"sessions"`
	Subsessions    int       `json:"subsessions"`
	Subsubsessions int       `json:"subsubsessions"`
	Created        int       `json:"created"`
	Updated        int       `json:"updated"`
	Skipped        int       `json:"skipped"`
	Errors         int       `json:"errors"`
	Warnings       []Warning `json:"warnings"`
}

// IDMap links the "ID" a Sessions row declares to the session it produced.
// It lives for one Run only.
type IDMap map[string]uuid.UUID

// tally is the Result under construction, shared by the phase workers.
type tally struct {
	mu  sync.Mutex
	res Result
	obs Observer
	log *logger.Logger
}

func newTally(obs Observer, log *logger.Logger) *tally {
	return &tally{res: Result{Warnings: []Warning{}}, obs: obs, log: log}
}

func (t *tally) warn(sheet string, row int, format string, args ...interface{}) {
	reason := fmt.Sprintf(format, args...)
	if t.log != nil {
		t.log.Warn("import row", "sheet", sheet, "row", row, "reason", reason)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.res.Warnings = append(t.res.Warnings, Warning{Sheet: sheet, Row: row, Reason: reason})
}

func (t *tally) skip(sheet string, row int, format string, args ...interface{}) {
	t.warn(sheet, row, format, args...)
	t.mu.Lock()
	t.res.Skipped++
	t.mu.Unlock()
	t.observe(sheet, OutcomeSkipped)
}

func (t *tally) fail(sheet string, row int, err error, what string) {
	t.warn(sheet, row, "%s: %v", what, err)
	t.mu.Lock()
	t.res.Errors++
	t.mu.Unlock()
	t.observe(sheet, OutcomeFailed)
}

func (t *tally) add(fn func(r *Result)) {
	t.mu.Lock()
	fn(&t.res)
	t.mu.Unlock()
}

func (t *tally) observe(sheet, outcome string) {
	if t.obs != nil {
		t.obs.ImportRow(sheet, outcome)
	}
}

func (t *tally) result() *Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := t.res
	out.Warnings = append([]Warning(nil), t.res.Warnings...)
	if out.Warnings == nil {
		out.Warnings = []Warning{}
	}
	sort.SliceStable(out.Warnings, func(i, j int) bool {
		a, b := out.Warnings[i], out.Warnings[j]
		if sheetRank(a.Sheet) != sheetRank(b.Sheet) {
			return sheetRank(a.Sheet) < sheetRank(b.Sheet)
		}
		return a.Row < b.Row
	})
	return &out
}

func sheetRank(name string) int {
	switch name {
	case SheetSessions:
		return 0
	case SheetSubsessions:
		return 1
	case SheetSubsubsessions:
		return 2
	default:
		return 3
	}
}
