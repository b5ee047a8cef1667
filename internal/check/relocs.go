package check

import (
	"fmt"
	"strings"

	"socheck/internal/facts"
)

// Relocation packing verdicts.
const (
	RelocAndroid = "android"
	RelocNone    = "none"
	RelocAbsent  = "no_relocations"
)

// RelocSection is one dynamic relocation section included in the
// accounting: it matched the name filter and carried both a size and an
// entry size. A section with size but no entry size contributes nothing;
// without an entry size there is no meaningful count.
type RelocSection struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Size      uint64 `json:"size"`
	EntrySize uint64 `json:"entry_size"`
	Count     uint64 `json:"count"`
}

// RelocationResult is the dynamic-relocation encoding classification.
type RelocationResult struct {
	Result
	Sections          []RelocSection `json:"relocation_sections"`
	TotalSize         uint64         `json:"total_size"`
	TotalCount        uint64         `json:"total_count"`
	HasRelr           bool           `json:"has_relr"`
	HasAndroidRel     bool           `json:"has_android_rel"`
	HasTraditionalRel bool           `json:"has_traditional_rel"`
	LinkFlag          string         `json:"link_flag"`
}

var traditionalRelocNames = map[string]bool{
	".rel.dyn":  true,
	".rel.plt":  true,
	".rela.dyn": true,
	".rela.plt": true,
}

// isAndroidRelocType reports whether the section type token is the
// Android packed encoding. The type token is the authoritative signal;
// name matching is only the fallback for inputs without type text.
func isAndroidRelocType(sectionType string) bool {
	return sectionType == "ANDROID_REL" || sectionType == "ANDROID_RELA"
}

var relocTiers = map[string]string{
	RelocAndroid: "requires Android 6.0+ (API 23+)",
	RelocNone:    "compatible with all Android versions",
	RelocAbsent:  "compatible with all Android versions",
}

var relocRecommendations = map[string]string{
	RelocAndroid: "relocation packing already enabled",
	RelocNone:    "enable relocation packing: -Wl,--pack-dyn-relocs=android",
	RelocAbsent:  "no dynamic relocations; packing not applicable",
}

var relocLinkFlags = map[string]string{
	RelocAndroid: "-Wl,--pack-dyn-relocs=android",
	RelocNone:    "-Wl,--pack-dyn-relocs=android",
	RelocAbsent:  "N/A",
}

// RelocationPacking classifies the dynamic-relocation encoding from the
// sections whose name contains "rel" or "android" (case-insensitive).
// Verdict precedence: RELR or Android-packed beats traditional beats
// nothing found. Totals are summed over every included section
// independent of the verdict.
func RelocationPacking(sections []facts.SectionFact) RelocationResult {
	res := RelocationResult{
		Result: Result{Dimension: DimRelocation, Evidence: map[string]string{}},
	}
	for _, sec := range sections {
		lower := strings.ToLower(sec.Name)
		if !strings.Contains(lower, "rel") && !strings.Contains(lower, "android") {
			continue
		}

		if sec.Size == 0 || sec.EntrySize == 0 {
			// Without an entry size there is no meaningful count; such
			// sections are excluded from flags and totals alike.
			continue
		}

		if strings.Contains(sec.Name, ".relr.dyn") {
			res.HasRelr = true
		}
		if isAndroidRelocType(sec.Type) || strings.Contains(sec.Name, "android.rel") {
			res.HasAndroidRel = true
		}
		if traditionalRelocNames[sec.Name] && !isAndroidRelocType(sec.Type) {
			res.HasTraditionalRel = true
		}
		count := sec.Size / sec.EntrySize
		res.Sections = append(res.Sections, RelocSection{
			Name:      sec.Name,
			Type:      sec.Type,
			Size:      sec.Size,
			EntrySize: sec.EntrySize,
			Count:     count,
		})
		res.TotalSize += sec.Size
		res.TotalCount += count
	}

	switch {
	case res.HasRelr || res.HasAndroidRel:
		res.Verdict = RelocAndroid
	case res.HasTraditionalRel:
		res.Verdict = RelocNone
	default:
		res.Verdict = RelocAbsent
	}
	res.Compatibility = relocTiers[res.Verdict]
	res.Recommendation = relocRecommendations[res.Verdict]
	res.LinkFlag = relocLinkFlags[res.Verdict]

	res.Evidence["total_size"] = fmt.Sprintf("%d bytes", res.TotalSize)
	res.Evidence["total_count"] = fmt.Sprintf("%d", res.TotalCount)
	return res
}
