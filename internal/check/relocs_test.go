package check

import (
	"testing"

	"socheck/internal/facts"
)

func reloc(name, typ string, size, entsize uint64) facts.SectionFact {
	return facts.SectionFact{Name: name, Type: typ, Size: size, EntrySize: entsize}
}

func TestRelocationAndroidByType(t *testing.T) {
	// The type token is authoritative even when the name looks
	// traditional.
	res := RelocationPacking([]facts.SectionFact{
		reloc(".rela.dyn", "ANDROID_RELA", 0x400, 0x18),
	})
	if res.Verdict != RelocAndroid {
		t.Errorf("verdict = %q, want android", res.Verdict)
	}
	if !res.HasAndroidRel || res.HasTraditionalRel {
		t.Errorf("flags: android=%v traditional=%v", res.HasAndroidRel, res.HasTraditionalRel)
	}
}

func TestRelocationAndroidByName(t *testing.T) {
	res := RelocationPacking([]facts.SectionFact{
		reloc(".android.rela.dyn", "RELA", 0x400, 0x18),
	})
	if res.Verdict != RelocAndroid {
		t.Errorf("verdict = %q, want android", res.Verdict)
	}
}

func TestRelocationRelr(t *testing.T) {
	res := RelocationPacking([]facts.SectionFact{
		reloc(".relr.dyn", "RELR", 0x100, 0x8),
	})
	if !res.HasRelr || res.Verdict != RelocAndroid {
		t.Errorf("relr: flag=%v verdict=%q", res.HasRelr, res.Verdict)
	}
}

func TestRelocationTraditional(t *testing.T) {
	res := RelocationPacking([]facts.SectionFact{
		reloc(".rela.dyn", "RELA", 0x0a2e40, 0x18),
		reloc(".rela.plt", "RELA", 0x300, 0x18),
	})
	if res.Verdict != RelocNone {
		t.Errorf("verdict = %q, want none", res.Verdict)
	}
	if res.LinkFlag != "-Wl,--pack-dyn-relocs=android" {
		t.Errorf("link flag = %q", res.LinkFlag)
	}
	wantCount := uint64(0x0a2e40/0x18 + 0x300/0x18)
	if res.TotalCount != wantCount {
		t.Errorf("total count = %d, want %d", res.TotalCount, wantCount)
	}
	if res.TotalSize != 0x0a2e40+0x300 {
		t.Errorf("total size = %d", res.TotalSize)
	}
}

func TestRelocationZeroEntrySizeExcluded(t *testing.T) {
	// A section with size but no entry size contributes nothing: no
	// count, no totals, no flags.
	res := RelocationPacking([]facts.SectionFact{
		reloc(".rela.dyn", "RELA", 0x1000, 0),
	})
	if res.Verdict != RelocAbsent {
		t.Errorf("verdict = %q, want no_relocations", res.Verdict)
	}
	if res.TotalSize != 0 || res.TotalCount != 0 || len(res.Sections) != 0 {
		t.Errorf("excluded section leaked into accounting: %+v", res)
	}
}

func TestRelocationNameFilter(t *testing.T) {
	// Sections without rel/android in the name are never candidates.
	res := RelocationPacking([]facts.SectionFact{
		reloc(".text", "PROGBITS", 0x1000, 0x10),
		reloc(".data", "PROGBITS", 0x100, 0x8),
	})
	if res.Verdict != RelocAbsent {
		t.Errorf("verdict = %q, want no_relocations", res.Verdict)
	}
}

func TestRelocationTotalsIndependentOfVerdict(t *testing.T) {
	// Android and traditional sections both count toward the totals.
	res := RelocationPacking([]facts.SectionFact{
		reloc(".relr.dyn", "RELR", 0x80, 0x8),
		reloc(".rela.plt", "RELA", 0x180, 0x18),
	})
	if res.Verdict != RelocAndroid {
		t.Errorf("verdict = %q, want android", res.Verdict)
	}
	if res.TotalCount != 0x80/0x8+0x180/0x18 {
		t.Errorf("total count = %d", res.TotalCount)
	}
}
