// Package report combines the per-dimension classifications into one
// summary. Pure combination: no I/O, no re-derivation of facts.
package report

import (
	"socheck/internal/check"
	"socheck/internal/ndk"
)

// Issue is one failing dimension with its remediation. Issues and
// recommendations stay index-matched by construction.
type Issue struct {
	Dimension   string `json:"dimension"`
	Description string `json:"description"`
	Remediation string `json:"remediation"`
}

// FlagStatus reports whether a linker flag is in effect on the binary.
type FlagStatus struct {
	Flag   string       `json:"flag"`
	Status check.Status `json:"status"`
}

// Summary is the aggregate analysis result handed to presentation.
// Every dimension is always present: a failed tool or parse degrades its
// dimension to unknown, it never removes the section from the report.
type Summary struct {
	Alignment  check.AlignmentResult  `json:"16kb_alignment"`
	HashStyle  check.HashStyleResult  `json:"hash_style"`
	Relocation check.RelocationResult `json:"relocation_packing"`
	Toolchain  ndk.Inference          `json:"ndk_version"`

	// Statuses keyed by dimension name, including the advisory
	// toolchain dimension.
	Statuses map[string]check.Status `json:"statuses"`

	// Failing dimensions in the fixed order alignment, hash style,
	// relocation packing. The toolchain dimension is advisory and never
	// counted as an issue.
	Issues []Issue `json:"issues"`

	// Linker-flag status lines for the summary table.
	Flags []FlagStatus `json:"flags"`
}

// Aggregate builds the summary from the four dimension results.
func Aggregate(
	alignment check.AlignmentResult,
	hash check.HashStyleResult,
	reloc check.RelocationResult,
	toolchain ndk.Inference,
) Summary {
	s := Summary{
		Alignment:  alignment,
		HashStyle:  hash,
		Relocation: reloc,
		Toolchain:  toolchain,
		Statuses:   make(map[string]check.Status),
	}

	s.Statuses[check.DimAlignment] = alignStatus(alignment.Verdict)
	s.Statuses[check.DimHashStyle] = hashStatus(hash.Verdict)
	s.Statuses[check.DimRelocation] = relocStatus(reloc.Verdict)
	s.Statuses[check.DimToolchain] = toolchainStatus(toolchain)

	// Fixed issue order: alignment, hash style, relocation packing.
	if s.Statuses[check.DimAlignment] == check.StatusFail {
		s.Issues = append(s.Issues, Issue{
			Dimension:   check.DimAlignment,
			Description: "16KB page alignment not supported",
			Remediation: alignment.Recommendation,
		})
	}
	if s.Statuses[check.DimHashStyle] == check.StatusFail {
		s.Issues = append(s.Issues, Issue{
			Dimension:   check.DimHashStyle,
			Description: "GNU hash not in (exclusive) use",
			Remediation: hash.Recommendation,
		})
	}
	if s.Statuses[check.DimRelocation] == check.StatusFail {
		s.Issues = append(s.Issues, Issue{
			Dimension:   check.DimRelocation,
			Description: "relocation packing not enabled",
			Remediation: reloc.Recommendation,
		})
	}

	s.Flags = []FlagStatus{
		{Flag: "-Wl,-z,max-page-size=16384", Status: s.Statuses[check.DimAlignment]},
		{Flag: "-Wl,--hash-style=gnu", Status: s.Statuses[check.DimHashStyle]},
		{Flag: "-Wl,--pack-dyn-relocs=android", Status: s.Statuses[check.DimRelocation]},
	}
	return s
}

// VerifyCommands maps each checked dimension to a shell command that
// independently confirms the flag's effect on the file.
func VerifyCommands(path string) map[string]string {
	return map[string]string{
		check.DimAlignment:  "llvm-objdump -p " + path + " | grep LOAD",
		check.DimHashStyle:  "llvm-readelf -S " + path + " | grep hash",
		check.DimRelocation: "llvm-readelf -S " + path + " | grep -E 'rel|android'",
	}
}

// Recommendations returns the remediation strings index-matched to
// Issues.
func (s Summary) Recommendations() []string {
	recs := make([]string, len(s.Issues))
	for i, issue := range s.Issues {
		recs[i] = issue.Remediation
	}
	return recs
}

// Clean reports whether every non-advisory dimension passed.
func (s Summary) Clean() bool {
	return len(s.Issues) == 0 &&
		s.Statuses[check.DimAlignment] == check.StatusPass &&
		s.Statuses[check.DimHashStyle] == check.StatusPass &&
		s.Statuses[check.DimRelocation] == check.StatusPass
}

func alignStatus(verdict string) check.Status {
	switch verdict {
	case "supported":
		return check.StatusPass
	case "unknown":
		return check.StatusUnknown
	default:
		return check.StatusFail
	}
}

// hashStatus: only exclusive GNU hash passes. Carrying both tables works
// everywhere but defeats the point of the flag, so it fails; no table at
// all leaves the dimension undetermined rather than failed.
func hashStatus(verdict string) check.Status {
	switch verdict {
	case check.HashGNU:
		return check.StatusPass
	case check.HashBoth, check.HashSysv:
		return check.StatusFail
	default:
		return check.StatusUnknown
	}
}

// relocStatus treats a binary without dynamic relocations as passing:
// there is nothing to pack.
func relocStatus(verdict string) check.Status {
	switch verdict {
	case check.RelocAndroid, check.RelocAbsent:
		return check.StatusPass
	case "unknown":
		return check.StatusUnknown
	default:
		return check.StatusFail
	}
}

// toolchainStatus is advisory: a detected release passes, anything else
// is unknown. It never produces a fail.
func toolchainStatus(inf ndk.Inference) check.Status {
	if inf.NDKVersion == "unknown" {
		return check.StatusUnknown
	}
	return check.StatusPass
}
