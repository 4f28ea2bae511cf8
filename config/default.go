package config

// DefaultTypes are the commit types the sachy convention recognizes.
var DefaultTypes = []string{
	"feat",
	"fix",
	"docs",
	"style",
	"refactor",
	"perf",
	"test",
	"chore",
}

// DefaultScopes are the project areas the sachy convention recognizes.
var DefaultScopes = []string{
	"core",
	"docs",
	"tests",
	"build",
	"deps",
	"misc",
}

func GetDefault() Config {
	return Config{
		Policies:      []string{"sachy"},
		Branches:      []string{"main", "master"},
		AllowedTypes:  DefaultTypes,
		AllowedScopes: DefaultScopes,
	}
}
