// Package commit contains code for reading, parsing, and analyzing commits
// against contribution policies.
package commit

import "fmt"

type ReleaseType int

const (
	_ ReleaseType = iota

	ReleaseSkip
	ReleasePatch
	ReleaseMinor
	ReleaseMajor
)

func (t ReleaseType) String() string {
	switch t {
	case ReleaseSkip:
		return "SKIP"
	case ReleasePatch:
		return "PATCH"
	case ReleaseMinor:
		return "MINOR"
	case ReleaseMajor:
		return "MAJOR"
	case 0:
		return "<INVALID>"
	default:
		return "<UNKNOWN>"
	}
}

func ParseReleaseType(s string) (ReleaseType, error) {
	switch s {
	case "SKIP":
		return ReleaseSkip, nil
	case "PATCH":
		return ReleasePatch, nil
	case "MINOR":
		return ReleaseMinor, nil
	case "MAJOR":
		return ReleaseMajor, nil
	}
	return 0, fmt.Errorf("commit: unknown release type %q", s)
}
