package constraint

import (
	"testing"

	"github.com/Masterminds/semver/v3"
)

func TestParse_ValidSyntax(t *testing.T) {
	tests := []string{
		"^3.11",
		"^0.4",
		"~1.2",
		"~2.7.18",
		"2.*",
		"*",
		">=1.0",
		">1.0.0",
		"<=2.4",
		"<2",
		"==1.4.2",
		"=1.4.2",
		"!=1.5.0",
		">=1.0, <2.0",
		">=1.0 || >=3.0, <4.0",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			c, err := Parse(raw)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", raw, err)
			}
			if c.String() != raw {
				t.Errorf("String() = %q, want %q", c.String(), raw)
			}
		})
	}
}

func TestParse_InvalidSyntax(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"^^1.0",
		">=",
		"one.two.three",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			if _, err := Parse(raw); err == nil {
				t.Fatalf("Parse(%q) expected error, got nil", raw)
			}
		})
	}
}

func TestCheck_CaretRange(t *testing.T) {
	c := MustParse("^3.11")

	tests := []struct {
		version string
		want    bool
	}{
		{"3.11", true},
		{"3.11.0", true},
		{"3.11.9", true},
		{"3.12.1", true},
		{"3.10.14", false},
		{"4.0.0", false},
		{"2.7.18", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, err := c.CheckString(tt.version)
			if err != nil {
				t.Fatalf("CheckString(%q) error: %v", tt.version, err)
			}
			if got != tt.want {
				t.Errorf("CheckString(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestCheck_CaretBelowOne(t *testing.T) {
	c := MustParse("^0.4")

	if ok, _ := c.CheckString("0.4.2"); !ok {
		t.Error("0.4.2 should satisfy ^0.4")
	}
	if ok, _ := c.CheckString("0.5.0"); ok {
		t.Error("0.5.0 should not satisfy ^0.4")
	}
}

func TestCheck_TildeRange(t *testing.T) {
	c := MustParse("~1.2")

	if ok, _ := c.CheckString("1.2.9"); !ok {
		t.Error("1.2.9 should satisfy ~1.2")
	}
	if ok, _ := c.CheckString("1.3.0"); ok {
		t.Error("1.3.0 should not satisfy ~1.2")
	}
}

func TestCheck_ExactPin(t *testing.T) {
	c := MustParse("==1.4.2")

	if ok, _ := c.CheckString("1.4.2"); !ok {
		t.Error("1.4.2 should satisfy ==1.4.2")
	}
	if ok, _ := c.CheckString("1.4.3"); ok {
		t.Error("1.4.3 should not satisfy ==1.4.2")
	}
}

func TestCheck_Union(t *testing.T) {
	c := MustParse(">=1.0, <2.0 || >=3.0")

	for version, want := range map[string]bool{
		"1.5.0": true,
		"2.5.0": false,
		"3.1.0": true,
	} {
		got, err := c.CheckString(version)
		if err != nil {
			t.Fatalf("CheckString(%q) error: %v", version, err)
		}
		if got != want {
			t.Errorf("CheckString(%q) = %v, want %v", version, got, want)
		}
	}
}

func TestCheckString_InvalidVersion(t *testing.T) {
	c := MustParse("^1.0")
	if _, err := c.CheckString("not-a-version"); err == nil {
		t.Fatal("expected error for invalid version, got nil")
	}
}

func TestLatest(t *testing.T) {
	c := MustParse("^1.0")

	versions := mustVersions(t, "0.9.0", "1.0.0", "1.4.2", "1.9.9", "2.0.0")
	best := c.Latest(versions)
	if best == nil {
		t.Fatal("Latest returned nil, want 1.9.9")
	}
	if best.Original() != "1.9.9" {
		t.Errorf("Latest = %s, want 1.9.9", best.Original())
	}
}

func TestLatest_NoMatch(t *testing.T) {
	c := MustParse("^5.0")
	versions := mustVersions(t, "1.0.0", "2.0.0")
	if best := c.Latest(versions); best != nil {
		t.Errorf("Latest = %s, want nil", best.Original())
	}
}

func mustVersions(t *testing.T, raw ...string) []*semver.Version {
	t.Helper()
	out := make([]*semver.Version, 0, len(raw))
	for _, r := range raw {
		v, err := ParseVersion(r)
		if err != nil {
			t.Fatalf("ParseVersion(%q) error: %v", r, err)
		}
		out = append(out, v)
	}
	return out
}
