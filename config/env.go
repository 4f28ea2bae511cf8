package config

import (
	"github.com/caarlos0/env/v11"
)

// Env is the CI-relevant process environment. CI providers disagree on
// boolean formats ("true", "1", "yes"), so CI is kept raw.
type Env struct {
	CI          string `env:"CI"`
	GithubToken string `env:"GITHUB_TOKEN"`
	GithubRepo  string `env:"GITHUB_REPOSITORY"`
	GithubRef   string `env:"GITHUB_REF_NAME"`
	GithubActor string `env:"GITHUB_ACTOR"`
}

func ReadEnv() (Env, error) {
	e := Env{}
	if err := env.Parse(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// OnCI reports whether the environment declares a CI run.
func (e Env) OnCI() bool {
	switch e.CI {
	case "true", "1", "yes":
		return true
	}
	return false
}
