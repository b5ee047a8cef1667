// Package check classifies parsed ELF facts against the platform
// compatibility dimensions: 16KB page alignment, symbol hash-table
// style, and dynamic relocation packing. Every classifier is a pure
// function of the fact model; none mutates shared state, so they can
// run in any order.
package check

// Status is the aggregate health of one dimension.
type Status string

const (
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusUnknown Status = "unknown"
)

// Dimension names, in the fixed reporting order.
const (
	DimAlignment  = "16kb_alignment"
	DimHashStyle  = "hash_style"
	DimRelocation = "relocation_packing"
	DimToolchain  = "ndk_version"
)

// Result carries the classification shared by every dimension. Verdict
// and tier vocabulary differ per dimension; recommendation strings are a
// pure function of the verdict so presentation never branches on raw
// facts. Evidence holds diagnostic key/value rows, including the error
// message when a dimension degraded to unknown.
type Result struct {
	Dimension      string            `json:"dimension"`
	Verdict        string            `json:"verdict"`
	Compatibility  string            `json:"compatibility"`
	Recommendation string            `json:"recommendation"`
	Evidence       map[string]string `json:"evidence,omitempty"`
}

// Failed constructs the degraded result for a dimension whose tool or
// parse failed. The reason is retained as evidence, never dropped.
func Failed(dimension, reason string) Result {
	return Result{
		Dimension:      dimension,
		Verdict:        "unknown",
		Compatibility:  "unknown",
		Recommendation: "analysis failed: " + reason,
		Evidence:       map[string]string{"error": reason},
	}
}
