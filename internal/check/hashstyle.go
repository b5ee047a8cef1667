package check

import (
	"fmt"

	"socheck/internal/facts"
)

// Hash-table style verdicts.
const (
	HashGNU  = "gnu"
	HashBoth = "both"
	HashSysv = "sysv"
	HashNone = "none"
)

// HashStyleResult is the symbol hash-table classification.
type HashStyleResult struct {
	Result
	HasGNUHash  bool   `json:"has_gnu_hash"`
	HasSysvHash bool   `json:"has_sysv_hash"`
	GNUHashSize uint64 `json:"gnu_hash_size"`
	SysvSize    uint64 `json:"hash_size"`
	SizeDiff    int64  `json:"size_diff"`
	// SizeDiffValid is true only when both tables are present; the
	// difference is diagnostic display, never part of the verdict.
	SizeDiffValid bool `json:"size_diff_valid"`
}

// hashTiers and hashRecommendations key presentation strings off the
// verdict. The decision table itself stays the only branching.
var hashTiers = map[string]string{
	HashGNU:  "requires Android 5.0+ (API 21+)",
	HashBoth: "compatible with all Android versions, larger file",
	HashSysv: "compatible with all Android versions, slower lookup",
	HashNone: "undetermined, possibly not a shared object",
}

var hashRecommendations = map[string]string{
	HashGNU:  "GNU hash already in use",
	HashBoth: "both tables present; drop the SysV table with -Wl,--hash-style=gnu",
	HashSysv: "switch to GNU hash: -Wl,--hash-style=gnu",
	HashNone: "confirm the file is a valid shared object",
}

// HashStyle classifies the symbol hash-table encoding from the exact-name
// sections .gnu.hash and .hash. The decision table is checked in order,
// first match wins:
//
//	gnu.hash  .hash  verdict
//	yes       no     gnu
//	yes       yes    both
//	no        yes    sysv
//	no        no     none
func HashStyle(sections []facts.SectionFact) HashStyleResult {
	res := HashStyleResult{
		Result: Result{Dimension: DimHashStyle, Evidence: map[string]string{}},
	}
	for _, sec := range sections {
		switch sec.Name {
		case ".gnu.hash":
			res.HasGNUHash = true
			res.GNUHashSize = sec.Size
		case ".hash":
			res.HasSysvHash = true
			res.SysvSize = sec.Size
		}
	}

	switch {
	case res.HasGNUHash && !res.HasSysvHash:
		res.Verdict = HashGNU
	case res.HasGNUHash && res.HasSysvHash:
		res.Verdict = HashBoth
	case res.HasSysvHash:
		res.Verdict = HashSysv
	default:
		res.Verdict = HashNone
	}
	res.Compatibility = hashTiers[res.Verdict]
	res.Recommendation = hashRecommendations[res.Verdict]

	if res.HasGNUHash {
		res.Evidence[".gnu.hash size"] = fmt.Sprintf("%d bytes", res.GNUHashSize)
	}
	if res.HasSysvHash {
		res.Evidence[".hash size"] = fmt.Sprintf("%d bytes", res.SysvSize)
	}
	if res.HasGNUHash && res.HasSysvHash {
		res.SizeDiff = int64(res.GNUHashSize) - int64(res.SysvSize)
		res.SizeDiffValid = true
		res.Evidence["size diff"] = fmt.Sprintf("%+d bytes", res.SizeDiff)
	}
	return res
}
