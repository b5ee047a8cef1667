package check

import (
	"fmt"

	"socheck/internal/facts"
)

// PageSize16KB is the page size Android 15 devices may use. A shared
// object is compatible when every LOAD segment's alignment attribute is
// at least this large.
const PageSize16KB = 16384

// SegmentCheck is the per-segment evidence row for alignment reporting.
type SegmentCheck struct {
	Offset        uint64 `json:"offset"`
	Vaddr         uint64 `json:"vaddr"`
	Alignment     uint64 `json:"alignment"`
	AlignPower    uint   `json:"align_power"`
	OffsetAligned bool   `json:"offset_16kb_aligned"`
	VaddrAligned  bool   `json:"vaddr_16kb_aligned"`
	Alignment16KB bool   `json:"alignment_16kb"`
}

// AlignmentResult is the 16KB page-alignment classification.
type AlignmentResult struct {
	Result
	Supports16KB bool           `json:"supports_16kb"`
	Segments     []SegmentCheck `json:"segments"`
	OffsetCount  int            `json:"offset_aligned_count"`
	VaddrCount   int            `json:"vaddr_aligned_count"`
	AlignCount   int            `json:"alignment_ok_count"`
}

// Alignment classifies the LOAD segments against 16KB pages.
//
// The verdict depends only on the alignment attribute: offset and vaddr
// alignment are computed and reported per segment, but a build's raw
// offsets are an environment-dependent proxy while the attribute is the
// portable signal, so they are excluded from the pass/fail decision.
// Zero LOAD segments vacuously supports 16KB pages; downstream consumers
// rely on that, so it is preserved, with a note in the evidence.
func Alignment(segments []facts.SegmentFact) AlignmentResult {
	res := AlignmentResult{
		Result:       Result{Dimension: DimAlignment, Evidence: map[string]string{}},
		Supports16KB: true,
	}
	for _, seg := range segments {
		if seg.Kind != "LOAD" {
			continue
		}
		sc := SegmentCheck{
			Offset:        seg.Offset,
			Vaddr:         seg.Vaddr,
			Alignment:     seg.Alignment,
			AlignPower:    seg.AlignPower,
			OffsetAligned: seg.Offset%PageSize16KB == 0,
			VaddrAligned:  seg.Vaddr%PageSize16KB == 0,
			Alignment16KB: seg.Alignment >= PageSize16KB,
		}
		if sc.OffsetAligned {
			res.OffsetCount++
		}
		if sc.VaddrAligned {
			res.VaddrCount++
		}
		if sc.Alignment16KB {
			res.AlignCount++
		} else {
			res.Supports16KB = false
		}
		res.Segments = append(res.Segments, sc)
	}

	if len(res.Segments) == 0 {
		res.Evidence["note"] = "no LOAD segments found"
	}
	res.Evidence["total_segments"] = fmt.Sprintf("%d", len(res.Segments))
	res.Evidence["alignment_ok"] = fmt.Sprintf("%d/%d", res.AlignCount, len(res.Segments))
	res.Evidence["offset_aligned"] = fmt.Sprintf("%d/%d", res.OffsetCount, len(res.Segments))
	res.Evidence["vaddr_aligned"] = fmt.Sprintf("%d/%d", res.VaddrCount, len(res.Segments))

	if res.Supports16KB {
		res.Verdict = "supported"
		res.Compatibility = "compatible with Android 15+ 16KB page devices"
		res.Recommendation = "16KB page alignment already in place"
	} else {
		res.Verdict = "unsupported"
		res.Compatibility = "loads only on 4KB page devices"
		res.Recommendation = "add linker flag: -Wl,-z,max-page-size=16384"
	}
	return res
}
