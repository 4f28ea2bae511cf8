package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckCommitMode(t *testing.T) {
	tcs := []struct {
		name string
		ops  []testOperation
	}{
		{
			name: "basic",
			ops: []testOperation{
				{Commit: "initial commit"},
				{Tag: "v0.1.0"},
				{Commit: "feat: cool thing"},
				{SachyArgs: strs("-C")},
			},
		},
		{
			name: "fail-not-conventional",
			ops: []testOperation{
				{Commit: "initial commit"},
				{Tag: "v0.1.0"},
				{Commit: "cool thing"},
				{SachyArgs: strs("-C"), ShouldFail: true},
			},
		},
		{
			name: "flag",
			ops: []testOperation{
				{SachyArgs: strs("--check-commit", "perf(core): cool thing")},
			},
		},
		{
			name: "fail-disallowed-type",
			ops: []testOperation{
				{SachyArgs: strs("--check-commit", "perf: cool thing", "--allowed-type", "feat"), ShouldFail: true},
			},
		},
		{
			name: "fail-disallowed-scope",
			ops: []testOperation{
				{SachyArgs: strs("--check-commit", "feat(engine): cool thing"), ShouldFail: true},
			},
		},
		{
			name: "fail-require-scope",
			ops: []testOperation{
				{SachyArgs: strs("--check-commit", "fix: cool thing", "--require-scope"), ShouldFail: true},
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			initTestRepo(ctx, t)
			for _, op := range tc.ops {
				runOp(ctx, t, op)
			}
		})
	}
}

func TestCheckBranchMode(t *testing.T) {
	tcs := []struct {
		name       string
		branch     string
		shouldFail bool
	}{
		{name: "basic", branch: "feat/core/cool-thing"},
		{name: "hotfix", branch: "hotfix/fix-the-thing"},
		{name: "fail-no-scope", branch: "feat/cool-thing", shouldFail: true},
		{name: "fail-bad-type", branch: "feature/core/cool-thing", shouldFail: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			initTestRepo(ctx, t)
			callSachy(t, tc.shouldFail, "--branch-name", tc.branch)
		})
	}
}

func TestCheckCurrentBranchMode(t *testing.T) {
	ctx := context.Background()
	initTestRepo(ctx, t)
	for _, op := range []testOperation{
		{Commit: "initial commit"},
		{GitArgs: strs("checkout", "-b", "fix/tests/quiet-a-flake")},
		{SachyArgs: strs("--check-branch")},
		{GitArgs: strs("checkout", "-b", "not-conventional")},
		{SachyArgs: strs("--check-branch"), ShouldFail: true},
		{GitArgs: strs("checkout", "main")},
		{SachyArgs: strs("--check-branch")},
	} {
		runOp(ctx, t, op)
	}
}

const testPRBody = `## Description

Adds bitboard rotation helpers.

## Motivation and Context

Closes #12

## Checklist

- [x] My code follows the code style of this project.
- [x] I have added tests to cover my changes.
- [x] All new and existing tests passed.
- [x] I have updated the documentation accordingly.
- [x] My commit messages follow the commit convention.

## How Has This Been Tested?

Unit tests.

## Screenshots

## Additional Notes
`

func TestCheckPRMode(t *testing.T) {
	ctx := context.Background()
	dir := initTestRepo(ctx, t)

	bodyPath := filepath.Join(dir, "body.md")
	die(os.WriteFile(bodyPath, []byte(testPRBody), 0644))

	tcs := []struct {
		name       string
		args       []string
		shouldFail bool
	}{
		{
			name: "basic",
			args: strs("--check-pr-title", "feat(core): add bitboard rotation", "--check-pr-body", bodyPath),
		},
		{
			name: "title-only",
			args: strs("--check-pr-title", "fix(deps): bump rand"),
		},
		{
			name: "hotfix-title",
			args: strs("--check-pr-title", "hotfix: stop the bleeding"),
		},
		{
			name: "body-only",
			args: strs("--check-pr-body", bodyPath),
		},
		{
			name:       "fail-title",
			args:       strs("--check-pr-title", "add bitboard rotation"),
			shouldFail: true,
		},
		{
			name:       "fail-title-scope",
			args:       strs("--check-pr-title", "feat(engine): add bitboard rotation"),
			shouldFail: true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			callSachy(t, tc.shouldFail, tc.args...)
		})
	}
}
