package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/imdario/mergo"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/sachy/sachy/commit"
	"github.com/sachy/sachy/config"
	"github.com/sachy/sachy/model"
	"github.com/sachy/sachy/pr"
	"github.com/sachy/sachy/runner"
	"github.com/sachy/sachy/vcs/gitcli"
)

var (
	// overridden by go build -X
	Version string
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(rawArgs []string) error {
	cfg := config.New(nil)

	var help bool
	var version bool
	var cfgFile string
	var noPolicy bool
	var checkCommits []string
	var checkCommitsFromGit bool
	var checkBranch bool
	var branchName string
	var prTitle string
	var prBodyFile string
	var printTemplate bool
	var readStats bool
	var readAllStats bool
	var printConfig bool
	var printPolicies bool
	var printLatest bool
	flags := pflag.NewFlagSet("sachy", pflag.ExitOnError)
	flags.BoolVarP(&help, "help", "h", false, "show help")
	flags.BoolVarP(&version, "version", "V", false, "print version and exit")
	flags.BoolVarP(&cfg.Dryrun, "dry-run", "n", false, "Don't do destructive operations")
	flags.BoolVarP(&cfg.All, "all", "a", false, "operate on all release scopes")
	flags.BoolVar(&cfg.Major, "major", false, "bump major version")
	flags.BoolVar(&cfg.Minor, "minor", false, "bump minor version")
	flags.BoolVar(&cfg.Patch, "patch", false, "bump patch version")
	flags.BoolVar(&cfg.InCI, "ci", false, "Run in CI mode")
	flags.BoolVarP(&readStats, "stats", "S", false, "print repository stats (with top tens)")
	flags.BoolVarP(&readAllStats, "stats-all", "A", false, "print all repository stats")
	flags.StringVarP(&cfg.Scope, "scope", "s", "", "Operate on the `name`d scope")
	flags.StringVar(&cfg.TagTemplate, "template", "", "go text/template for tag `format`")
	flags.StringVar(&cfg.LogTemplatePath, "shortlog-template", "", "path to custom shortlog go/text template `file`")
	flags.StringArrayVarP(&cfg.Branches, "branch", "b", []string{"main", "master"}, "set release branch to `name`")
	flags.StringArrayVar(&cfg.ReleaseScopes, "release-scope", nil, "declare release scopes' `name`s")
	flags.StringArrayVar(&cfg.AllowedScopes, "allowed-scope", config.DefaultScopes, "declare allowed scopes' `name`s")
	flags.StringArrayVar(&cfg.AllowedTypes, "allowed-type", config.DefaultTypes, "declare allowed commit `type`s")
	flags.StringArrayVar(&cfg.Policies, "policy", []string{"sachy"}, "declare commit policies by `name`")
	flags.BoolVarP(&noPolicy, "no-policy", "P", false, "disable all commit policies")
	flags.StringArrayVar(&checkCommits, "check-commit", nil, "only validate provided commit `body`")
	flags.BoolVarP(&checkCommitsFromGit, "check", "C", false, "only validate commits since last release")
	flags.BoolVar(&checkBranch, "check-branch", false, "only validate the current branch name")
	flags.StringVar(&branchName, "branch-name", "", "validate `name` instead of the current branch")
	flags.StringVar(&prTitle, "check-pr-title", "", "only validate the pull request `title`")
	flags.StringVar(&prBodyFile, "check-pr-body", "", "only validate the pull request body in `file` (- for stdin)")
	flags.BoolVar(&printTemplate, "pr-template", false, "print the pull request body template and exit")
	flags.BoolVar(&cfg.RequireScope, "require-scope", false, "require a scope on every commit")
	flags.BoolVar(&cfg.Strict, "strict", false, "treat warnings as failures")
	flags.StringVar(&cfg.Name, "name", "", "name the project")
	flags.BoolVarP(&cfg.Debug, "verbose", "v", false, "print additional debugging info")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "print as little as necessary")
	flags.StringVarP(&cfgFile, "config", "c", "", "specify config `file`")
	flags.BoolVar(&printConfig, "print-config", false, "Print default configuration and exit")
	flags.BoolVar(&printPolicies, "policies", false, "Print active policies and exit")
	flags.BoolVar(&printLatest, "latest", false, "Print latest version and exit")

	if err := flags.Parse(rawArgs); err != nil {
		return err
	}
	args := flags.Args()[1:]

	if help {
		usage(cfg, flags)
		return nil
	}
	if version {
		cfg.Printf("%s", Version)
		return nil
	}
	if printTemplate {
		cfg.Term.Printf("%s", pr.Template())
		return nil
	}
	if printConfig {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		cfg.Printf("%s", string(b))
		return nil
	}

	environ, err := config.ReadEnv()
	if err != nil {
		return err
	}
	if !cfg.InCI && environ.OnCI() {
		cfg.InCI = true
	}

	fileCfg, err := readSachyYAML(cfgFile)
	if err != nil {
		return err
	}
	if fileCfg != nil {
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return err
		}

		if fileCfg.Branches != nil && len(fileCfg.Branches) == 0 && !flags.Lookup("branch").Changed {
			cfg.Branches = fileCfg.Branches
		}
		if fileCfg.Policies != nil && len(fileCfg.Policies) == 0 && !flags.Lookup("policy").Changed {
			cfg.Policies = fileCfg.Policies
		}
	}
	if cfg.Debug {
		b, err := json.MarshalIndent(cfg, "", "  ")
		die(err)
		cfg.Debugf("config: %s", string(b))
	}
	branchesSet := false
	if fl := flags.Lookup("branch"); fl != nil && fl.Changed {
		branchesSet = true
	}
	if fileCfg != nil && fileCfg.Branches != nil {
		branchesSet = true
	}
	cfg.BranchesSet = branchesSet
	if noPolicy {
		cfg.Policies = nil
		cfg.IgnorePolicies = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	// done setting up config

	if printPolicies {
		for i, pol := range cfg.GetPolicies() {
			if i > 0 {
				cfg.Printf("")
			}
			if err := pol.TextSummary(cfg.Term.Stdout); err != nil {
				return err
			}
		}
		return nil
	}

	var rc string
	if len(args) > 0 {
		rc = args[0]
	}

	git := gitcli.New(cfg, "")
	rnr, err := runner.New(cfg, git)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if readStats || readAllStats {
		stats, err := rnr.Stats(ctx)
		if err != nil {
			return err
		}
		return stats.TextSummary(cfg.Term.Stdout, readAllStats)
	}

	if checkBranch || branchName != "" {
		ref, err := rnr.CheckBranch(ctx, branchName)
		if err != nil {
			return writeCheckFailure(err)
		}
		cfg.Debugf("branch %q ok (type=%q scope=%q)", ref.Name, ref.Type, ref.Scope)
		cfg.Printf("OK")
		return nil
	}

	if prTitle != "" || prBodyFile != "" {
		req := &model.PullRequest{Title: prTitle}
		if prBodyFile != "" {
			b, err := readBody(prBodyFile)
			if err != nil {
				return err
			}
			req.Body = b
		}
		if prTitle == "" {
			// body-only check
			if _, err := rnr.CheckPRBody(ctx, bodyReader(req.Body)); err != nil {
				return writeCheckFailure(err)
			}
		} else if err := rnr.CheckPR(ctx, req); err != nil {
			return writeCheckFailure(err)
		}
		cfg.Printf("OK")
		return nil
	}

	shouldCheckCommits := checkCommitsFromGit || flags.Lookup("check-commit").Changed
	if shouldCheckCommits {
		hasPipe := !isatty.IsTerminal(os.Stdin.Fd())
		var err error
		if checkCommitsFromGit {
			_, err = rnr.CheckCommitsFromGit(ctx, cfg.Scope)
		} else if hasPipe && len(checkCommits) == 1 && checkCommits[0] == "-" {
			_, err = rnr.CheckReadCommit(ctx, os.Stdin)
		} else {
			_, err = rnr.CheckCommits(ctx, checkCommits)
		}
		if err != nil {
			return writeCheckFailure(err)
		}
		cfg.Printf("OK")
		return nil
	}

	istty := cfg.Term.IsTTY()

	if printLatest {
		latest, err := rnr.LatestRelease(ctx, cfg.Scope, rc)
		if err != nil {
			return err
		}
		tagTmpl, err := commit.NewTag(cfg.TagTemplate)
		if err != nil {
			return err
		}
		tag, err := runner.RenderTag(cfg, tagTmpl, &commit.Version{Version: latest, Scope: cfg.Scope})
		if err != nil {
			return err
		}
		if cfg.Quiet || !istty {
			fmt.Fprintf(cfg.Term.Stdout, "%s", tag)
		} else {
			fmt.Fprintln(cfg.Term.Stdout, tag)
		}
		return nil
	}

	if err := rnr.Check(ctx, rc); err != nil {
		return err
	}

	if cfg.InCI {
		// pick up tags other CI jobs may have pushed
		if err := git.Fetch(ctx, "origin", ""); err != nil {
			cfg.Warning("fetch failed: %v", err)
		}
	}

	tag, err := commit.NewTag(cfg.TagTemplate)
	if err != nil {
		return err
	}

	versions, err := rnr.Analyze(ctx, rc)
	if err != nil {
		return err
	}
	cfg.Debugf("will tag %d:", len(versions))

	for _, ver := range versions {
		tag, err := runner.RenderTag(cfg, tag, ver)
		if err != nil {
			return err
		}
		if cfg.Quiet {
			if istty {
				fmt.Println(tag)
			} else {
				fmt.Print(tag)
			}
		} else {
			cfg.Printf("-> %s:%s", ver.ShortCommit(), tag)
		}
	}

	if err := rnr.CreateTags(ctx, versions); err != nil {
		return err
	}

	if cfg.InCI && len(versions) > 0 {
		cfg.Printf("Pushing tags in CI mode...")
		if environ.GithubToken != "" && environ.GithubRepo != "" {
			actor := environ.GithubActor
			if actor == "" {
				actor = "sachy-release"
			}
			url := fmt.Sprintf("https://%s:%s@github.com/%s.git", actor, environ.GithubToken, environ.GithubRepo)
			if err := git.SetUpstreamToken(ctx, "origin", url); err != nil {
				return err
			}
		}
		if err := rnr.PushTags(ctx); err != nil {
			return err
		}
	}
	return nil
}

func writeCheckFailure(err error) error {
	cf := runner.CheckFailure{}
	if errors.As(err, &cf) {
		if werr := cf.WriteFailure(os.Stdout); werr != nil {
			fmt.Fprintln(os.Stderr, "failed to write check failure information:", werr)
		}
	}
	return err
}

func readBody(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func bodyReader(s string) io.Reader {
	return strings.NewReader(s)
}

func readSachyYAML(p string) (*config.Config, error) {
	if p == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		p = filepath.Join(wd, "sachy.yaml")
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	cfg := &config.Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func die(err error) {
	if err != nil {
		panic(err)
	}
}

func usage(cfg config.Config, flags *pflag.FlagSet) {
	cfg.Printf(`sachy [rc]

Checks commits, branches, and pull requests against the sachy contribution
conventions, and creates Semantic Version-compliant release tags.

FLAGS
%s

EXAMPLES

# validate one commit message
sachy --check-commit "feat(core): add bitboard rotation"

# validate every commit since the last release
sachy -C

# validate the current branch name
sachy --check-branch

# validate a pull request
sachy --check-pr-title "fix(deps): bump rand" --check-pr-body body.md

# bump the version, if there are any new commits
sachy

# create a release candidate tag, ie v1.2.3-rc.0
sachy rc
`, flags.FlagUsages())
}
