// Package sachy checks commits, branches, and pull requests against the
// sachy project's contribution conventions, and creates Semantic
// Version-compliant release tags from conventional commit history.
//
// Related packages: branch, chess, commit, config, model, pr, runner, vcs,
// vcs/gitcli
package sachy

import "github.com/sachy/sachy/config"

// Config holds most of the configuration variables for sachy. This struct is
// intended for command-line use, so not all of its attributes are applicable
// to every operation.
//
// See "go doc github.com/sachy/sachy/config Config" for more information.
type Config = config.Config
