package commit

import (
	"reflect"
	"testing"

	"github.com/sachy/sachy/model"
	"github.com/sachy/sachy/vcs"
)

func TestMatchHeader(t *testing.T) {
	tio, _, _ := mockTermIO(nil)
	cfg := newTestConfig(nil, &tio)
	a := NewAnalyzer(cfg, vcs.NewMock(), nil)
	policies := cfg.GetPolicies()

	tcs := []struct {
		subject     string
		commitType  string
		scope       string
		description string
		releaseType ReleaseType
		err         bool
	}{
		{
			subject:     "feat(core): add en passant",
			commitType:  "feat",
			scope:       "core",
			description: "add en passant",
			releaseType: ReleaseMinor,
		},
		{
			subject:     "fix(deps): bump rand",
			commitType:  "fix",
			scope:       "deps",
			description: "bump rand",
			releaseType: ReleasePatch,
		},
		{
			subject:     "docs: clarify readme",
			commitType:  "docs",
			description: "clarify readme",
			releaseType: ReleaseSkip,
		},
		{
			subject:     "perf(core)!: rewrite movegen",
			commitType:  "perf",
			scope:       "core",
			description: "rewrite movegen",
			releaseType: ReleaseMajor,
		},
		{
			subject: "Fixed a thing",
			err:     true,
		},
		{
			subject: "feat add en passant",
			err:     true,
		},
		{
			subject: "unknown(core): mystery change",
			err:     true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.subject, func(t *testing.T) {
			ac, err := a.Match(&model.Commit{ID: "deadbeef", Subject: tc.subject}, policies)
			if tc.err {
				if err == nil {
					t.Fatal("expected no policy to match")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if ac.CommitType != tc.commitType {
				t.Errorf("expected type %q, got %q", tc.commitType, ac.CommitType)
			}
			if ac.Scope != tc.scope {
				t.Errorf("expected scope %q, got %q", tc.scope, ac.Scope)
			}
			if ac.Description != tc.description {
				t.Errorf("expected description %q, got %q", tc.description, ac.Description)
			}
			if ac.ReleaseType != tc.releaseType {
				t.Errorf("expected release type %s, got %s", tc.releaseType, ac.ReleaseType)
			}
		})
	}
}

func TestMatchFooter(t *testing.T) {
	tio, _, _ := mockTermIO(nil)
	cfg := newTestConfig(nil, &tio)
	a := NewAnalyzer(cfg, vcs.NewMock(), nil)
	policies := cfg.GetPolicies()

	body := `castling was broken on the queenside

Closes #42
Closes #107`
	ac, err := a.Match(&model.Commit{ID: "deadbeef", Subject: "fix(core): repair castling", Body: body}, policies)
	if err != nil {
		t.Fatal(err)
	}
	if expect := []int{42, 107}; !reflect.DeepEqual(ac.Closes, expect) {
		t.Errorf("expected closes %v, got %v", expect, ac.Closes)
	}
	if ac.Breaking {
		t.Error("expected commit not to be breaking")
	}

	breaking := `the board type is now packed

BREAKING CHANGE: Board is now a value type`
	ac, err = a.Match(&model.Commit{ID: "deadbeef", Subject: "refactor(core): pack the board", Body: breaking}, policies)
	if err != nil {
		t.Fatal(err)
	}
	if !ac.Breaking {
		t.Error("expected breaking change")
	}
	if ac.ReleaseType != ReleaseMajor {
		t.Errorf("expected MAJOR, got %s", ac.ReleaseType)
	}
	if len(ac.Annotations) == 0 {
		t.Fatal("expected annotations")
	}
	if ac.Annotations[0].Name != "BREAKING CHANGE" {
		t.Errorf("unexpected annotation name %q", ac.Annotations[0].Name)
	}
	if ac.Annotations[0].Value != "Board is now a value type" {
		t.Errorf("unexpected annotation value %q", ac.Annotations[0].Value)
	}
}

func TestParseReleaseType(t *testing.T) {
	for _, s := range []string{"SKIP", "PATCH", "MINOR", "MAJOR"} {
		rt, err := ParseReleaseType(s)
		if err != nil {
			t.Fatal(err)
		}
		if rt.String() != s {
			t.Errorf("expected %q, got %q", s, rt.String())
		}
	}
	if _, err := ParseReleaseType("HUGE"); err == nil {
		t.Error("expected error for unknown release type")
	}
}
