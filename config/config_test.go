package config

import "testing"

func TestConfig(t *testing.T) {
	cfg := New(nil)
	if len(cfg.Policies) != 1 {
		t.Fatalf("expected %d policies, got %d", 1, len(cfg.Policies))
	}
	pols := cfg.GetPolicies()
	if len(pols) != 1 {
		t.Fatalf("expected %d resolved policies, got %d", 1, len(pols))
	}
	if pols[0].Name != "sachy" {
		t.Errorf("expected sachy policy, got %q", pols[0].Name)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := GetDefault()
	if len(cfg.AllowedTypes) != 8 {
		t.Errorf("expected 8 allowed types, got %d", len(cfg.AllowedTypes))
	}
	if len(cfg.AllowedScopes) != 6 {
		t.Errorf("expected 6 allowed scopes, got %d", len(cfg.AllowedScopes))
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := New(&Config{Policies: []string{"no-such-policy"}})
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown policy error")
	}

	cfg = New(&Config{
		Policies: []string{"custom"},
		CustomPolicies: []Policy{
			{Name: "custom", SubjectRE: `^(?P<type>[a-z]+): `, CommitTypes: map[string]string{"feat": "HUGE"}},
		},
	})
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected invalid release type error")
	}

	for _, conflict := range []Config{
		{Major: true, Minor: true},
		{Minor: true, Patch: true},
		{Major: true, Patch: true},
		{Major: true, Minor: true, Patch: true},
	} {
		cfg = New(&conflict)
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected conflicting bump overrides to be rejected: %+v", conflict)
		}
	}

	cfg = New(&Config{Minor: true})
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected single bump override to be allowed: %v", err)
	}
}

func TestPolicySubjectRE(t *testing.T) {
	pol := getBuiltinPolicy("sachy")
	if pol == nil {
		t.Fatal("expected builtin sachy policy")
	}
	re := pol.GetSubjectRE()

	m := re.FindStringSubmatch("feat(core): add zobrist hashing")
	if m == nil {
		t.Fatal("expected subject to match")
	}
	if got := m[re.SubexpIndex("type")]; got != "feat" {
		t.Errorf("expected type feat, got %q", got)
	}
	if got := m[re.SubexpIndex("scope")]; got != "core" {
		t.Errorf("expected scope core, got %q", got)
	}

	if re.MatchString("Add zobrist hashing") {
		t.Error("expected non-conventional subject not to match")
	}
}

func TestEnvOnCI(t *testing.T) {
	for _, val := range []string{"true", "1", "yes"} {
		t.Setenv("CI", val)
		e, err := ReadEnv()
		if err != nil {
			t.Fatal(err)
		}
		if !e.OnCI() {
			t.Errorf("expected CI=%q to mean CI", val)
		}
	}
	t.Setenv("CI", "")
	e, err := ReadEnv()
	if err != nil {
		t.Fatal(err)
	}
	if e.OnCI() {
		t.Error("expected empty CI not to mean CI")
	}
}
