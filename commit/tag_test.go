package commit

import (
	"testing"

	"github.com/blang/semver/v4"
)

var goodVersion = semver.MustParse("1.2.3")

func TestTags(t *testing.T) {
	tcs := []struct {
		name       string
		tmpl       string
		expect     string
		expectGlob string
		semver     string
		scope      string
	}{
		{
			name:       "default",
			expect:     "v1.2.3",
			expectGlob: "v*",
		},
		{
			name:       "default-pre",
			semver:     "1.2.3-rc.0",
			expect:     "v1.2.3-rc.0",
			expectGlob: "v*",
		},
		{
			name:       "default-scope",
			expect:     "cool/v1.2.3",
			scope:      "cool",
			expectGlob: "cool/v*",
		},
		{
			name:   "no-v",
			expect: "1.2.3",
			tmpl:   `{{ .Version }}`,
		},
		{
			name:       "dash-scope",
			tmpl:       `{{- with $scope := .Version.Scope -}}{{- $scope -}}-{{- end -}}v{{- .Version -}}`,
			scope:      "cool",
			expect:     "cool-v1.2.3",
			expectGlob: "cool-v*",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			tag, err := NewTag(tc.tmpl)
			if err != nil {
				t.Fatal(err)
			}

			sv := goodVersion
			if tc.semver != "" {
				sv = semver.MustParse(tc.semver)
			}

			s, err := tag.ExecuteString(TagData{Version: &Version{Version: sv, Scope: tc.scope}})
			if err != nil {
				t.Fatal(err)
			}
			t.Log("tag:", s)
			if s != tc.expect {
				t.Fatalf("expected tag %q, got %q", tc.expect, s)
			}

			if tc.expectGlob != "" {
				glob, err := tag.Glob(tc.scope)
				if err != nil {
					t.Fatal(err)
				}
				if glob != tc.expectGlob {
					t.Fatalf("expected glob %q, got %q", tc.expectGlob, glob)
				}
			}
		})
	}
}

func TestSemverLatest(t *testing.T) {
	tcs := []struct {
		name   string
		tags   []string
		rc     string
		expect string
		err    bool
	}{
		{
			name:   "basic",
			tags:   []string{"v0.1.0", "v0.2.0", "v0.10.0"},
			expect: "0.10.0",
		},
		{
			name:   "skips-prereleases",
			tags:   []string{"v0.1.0", "v0.2.0-rc.0"},
			expect: "0.1.0",
		},
		{
			name:   "rc",
			tags:   []string{"v0.1.0", "v0.2.0-rc.0", "v0.2.0-rc.1"},
			rc:     "rc",
			expect: "0.2.0-rc.1",
		},
		{
			name:   "skips-stray-tags",
			tags:   []string{"v0.1.0", "v0.1.1-rc", "v0.1.2-rc.00", "v0.1.3-beta", "v1.02.3"},
			expect: "0.1.0",
		},
		{
			name:   "rc-ignores-other-sequences",
			tags:   []string{"v0.2.0-rc.0", "v0.2.0-bork.1"},
			rc:     "rc",
			expect: "0.2.0-rc.0",
		},
		{
			name: "none",
			tags: []string{"not-a-version"},
			err:  true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			tag, err := NewTag("")
			if err != nil {
				t.Fatal(err)
			}
			v, err := tag.SemverLatest(tc.tags, tc.rc)
			if tc.err {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if v.String() != tc.expect {
				t.Errorf("expected %q, got %q", tc.expect, v.String())
			}
		})
	}
}
