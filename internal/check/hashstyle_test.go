package check

import (
	"testing"

	"socheck/internal/elftext"
	"socheck/internal/facts"
)

func section(name string, size uint64) facts.SectionFact {
	return facts.SectionFact{Name: name, Size: size}
}

func TestHashStyleDecisionTable(t *testing.T) {
	cases := []struct {
		name     string
		sections []facts.SectionFact
		verdict  string
	}{
		{"gnu only", []facts.SectionFact{section(".gnu.hash", 548)}, HashGNU},
		{"both", []facts.SectionFact{section(".gnu.hash", 548), section(".hash", 600)}, HashBoth},
		{"sysv only", []facts.SectionFact{section(".hash", 600)}, HashSysv},
		{"neither", nil, HashNone},
	}
	for _, tc := range cases {
		res := HashStyle(tc.sections)
		if res.Verdict != tc.verdict {
			t.Errorf("%s: verdict = %q, want %q", tc.name, res.Verdict, tc.verdict)
		}
		if res.Compatibility == "" || res.Recommendation == "" {
			t.Errorf("%s: presentation strings must cover every verdict", tc.name)
		}
	}
}

func TestHashStyleExactNameMatch(t *testing.T) {
	// Substring cousins must not count as the hash tables.
	res := HashStyle([]facts.SectionFact{section(".gnu.hash_table", 1), section(".prehash", 2)})
	if res.Verdict != HashNone {
		t.Errorf("verdict = %q, want none for non-exact names", res.Verdict)
	}
}

func TestHashStyleSizeDiffOnlyWhenBoth(t *testing.T) {
	res := HashStyle([]facts.SectionFact{section(".gnu.hash", 548)})
	if res.SizeDiffValid {
		t.Error("size diff must only be computed when both tables exist")
	}

	res = HashStyle([]facts.SectionFact{section(".gnu.hash", 548), section(".hash", 600)})
	if !res.SizeDiffValid || res.SizeDiff != -52 {
		t.Errorf("size diff = %d (valid=%v), want -52", res.SizeDiff, res.SizeDiffValid)
	}
	// The diff never changes the verdict.
	if res.Verdict != HashBoth {
		t.Errorf("verdict = %q, want both", res.Verdict)
	}
}

func TestHashStyleFromSectionText(t *testing.T) {
	const row = "[ 6] .gnu.hash         GNU_HASH        0000000000002068 002068 000224 00   A  3   0  8"
	res := HashStyle(elftext.ParseSections(row))
	if res.Verdict != HashGNU {
		t.Errorf("verdict = %q, want gnu", res.Verdict)
	}
	if res.GNUHashSize != 548 {
		t.Errorf("gnu hash size = %d, want 548 (0x224)", res.GNUHashSize)
	}
}
