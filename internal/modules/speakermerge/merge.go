package speakermerge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos"
	types "github.com/Hi-chem22/AFRAN-2025/internal/domain"
	"github.com/Hi-chem22/AFRAN-2025/internal/pkg/dbctx"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

// Mapping points each duplicate speaker id at its canonical id.
type Mapping map[uuid.UUID]uuid.UUID

type Report struct {
	Sessions    int   `json:"sessions" yaml:"sessions"`
	Subsessions int   `json:"subsessions" yaml:"subsessions"`
	Deleted     int64 `json:"deleted" yaml:"deleted"`
	DryRun      bool  `json:"dryRun" yaml:"dry_run"`
}

var errRollback = errors.New("dry run")

// Detect groups speakers by lower-cased trimmed name. The oldest speaker of
// each group is canonical; equal creation times fall back to id order.
func Detect(speakers []*types.Speaker) Mapping {
	groups := map[string][]*types.Speaker{}
	for _, s := range speakers {
		if s == nil {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], s)
	}
	out := Mapping{}
	for _, g := range groups {
		if len(g) < 2 {
			continue
		}
		sort.Slice(g, func(i, j int) bool {
			if !g[i].CreatedAt.Equal(g[j].CreatedAt) {
				return g[i].CreatedAt.Before(g[j].CreatedAt)
			}
			return bytes.Compare(g[i].ID[:], g[j].ID[:]) < 0
		})
		for _, dup := range g[1:] {
			out[dup.ID] = g[0].ID
		}
	}
	return out
}

type Merger struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMerger(db *gorm.DB, baseLog *logger.Logger) *Merger {
	return &Merger{db: db, log: baseLog.With("module", "speakermerge")}
}

// Apply rewrites every speaker reference through mapping and deletes the
// duplicates, all in one transaction.
func (m *Merger) Apply(ctx context.Context, mapping Mapping) (*Report, error) {
	return m.run(ctx, mapping, false)
}

// Plan reports what Apply would change without committing anything.
func (m *Merger) Plan(ctx context.Context, mapping Mapping) (*Report, error) {
	return m.run(ctx, mapping, true)
}

func (m *Merger) run(ctx context.Context, mapping Mapping, dryRun bool) (*Report, error) {
	flat, err := flatten(mapping)
	if err != nil {
		return nil, err
	}
	report := &Report{DryRun: dryRun}
	if len(flat) == 0 {
		return report, nil
	}

	err = m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.New(ctx).WithTx(tx)
		set := repos.NewSet(tx, m.log)

		canon := make([]uuid.UUID, 0, len(flat))
		for _, c := range flat {
			canon = append(canon, c)
		}
		found, err := set.Speaker.GetByIDs(dbc, canon)
		if err != nil {
			return fmt.Errorf("load canonical speakers: %w", err)
		}
		known := make(map[uuid.UUID]bool, len(found))
		for _, s := range found {
			known[s.ID] = true
		}
		for dup, c := range flat {
			if !known[c] {
				return fmt.Errorf("canonical speaker %s for %s does not exist", c, dup)
			}
		}

		sessions, err := set.Session.List(dbc, repos.SessionFilter{})
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		for _, s := range sessions {
			if !rewriteSession(s, flat) {
				continue
			}
			if err := set.Session.Save(dbc, s); err != nil {
				return fmt.Errorf("save session %s: %w", s.ID, err)
			}
			report.Sessions++
		}

		subs, err := set.Subsession.List(dbc)
		if err != nil {
			return fmt.Errorf("list subsessions: %w", err)
		}
		for _, s := range subs {
			if !rewriteSubsession(s, flat) {
				continue
			}
			if err := set.Subsession.Save(dbc, s); err != nil {
				return fmt.Errorf("save subsession %s: %w", s.ID, err)
			}
			report.Subsessions++
		}

		dups := make([]uuid.UUID, 0, len(flat))
		for d := range flat {
			dups = append(dups, d)
		}
		n, err := set.Speaker.DeleteByIDs(dbc, dups)
		if err != nil {
			return fmt.Errorf("delete duplicates: %w", err)
		}
		report.Deleted = n
		if dryRun {
			return errRollback
		}
		return nil
	})
	if err != nil && !errors.Is(err, errRollback) {
		return nil, err
	}
	m.log.Info("speaker merge finished",
		"dry_run", dryRun,
		"sessions", report.Sessions,
		"subsessions", report.Subsessions,
		"deleted", report.Deleted,
	)
	return report, nil
}

// flatten resolves chains (a→b, b→c becomes a→c) and drops self mappings.
func flatten(mapping Mapping) (Mapping, error) {
	out := Mapping{}
	for dup := range mapping {
		target := dup
		seen := map[uuid.UUID]bool{}
		for {
			next, ok := mapping[target]
			if !ok || next == target {
				break
			}
			if seen[target] {
				return nil, fmt.Errorf("speaker mapping has a cycle through %s", dup)
			}
			seen[target] = true
			target = next
		}
		if target != dup {
			out[dup] = target
		}
	}
	return out, nil
}

// remap replaces matching ids in place. Order, length and non-matching
// entries are preserved; the input is returned as is when nothing matches.
func remap(ids []uuid.UUID, m Mapping) ([]uuid.UUID, bool) {
	var out []uuid.UUID
	for i, id := range ids {
		c, ok := m[id]
		if !ok {
			continue
		}
		if out == nil {
			out = append([]uuid.UUID(nil), ids...)
		}
		out[i] = c
	}
	if out == nil {
		return ids, false
	}
	return out, true
}

// remapStrings works on the text form; entries that are not ids are kept.
func remapStrings(ids []string, m Mapping) ([]string, bool) {
	var out []string
	for i, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		c, ok := m[id]
		if !ok {
			continue
		}
		if out == nil {
			out = append([]string(nil), ids...)
		}
		out[i] = c.String()
	}
	if out == nil {
		return ids, false
	}
	return out, true
}

func rewriteSession(s *types.Session, m Mapping) bool {
	speakers, changed := remap(s.Speakers, m)
	s.Speakers = speakers
	for i := range s.SubsessionTexts {
		t := &s.SubsessionTexts[i]
		ids, c := remapStrings(t.SpeakerIDs, m)
		t.SpeakerIDs, changed = ids, changed || c
		for j := range t.Subsubsessions {
			ids, c := remapStrings(t.Subsubsessions[j].SpeakerIDs, m)
			t.Subsubsessions[j].SpeakerIDs, changed = ids, changed || c
		}
	}
	return changed
}

func rewriteSubsession(s *types.Subsession, m Mapping) bool {
	speakers, changed := remap(s.Speakers, m)
	s.Speakers = speakers
	for i := range s.Subsubsessions {
		ids, c := remap(s.Subsubsessions[i].Speakers, m)
		s.Subsubsessions[i].Speakers, changed = ids, changed || c
	}
	return changed
}
