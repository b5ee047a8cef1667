// Package ndk infers the NDK toolchain that produced a shared object
// from the printable strings embedded in it. Direct NDK markers win;
// otherwise the embedded Clang (or LLVM) version is matched against a
// static NDK release table.
package ndk

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"socheck/internal/facts"
)

// Detection methods.
const (
	MethodDirect    = "direct"
	MethodInference = "clang_inference"
	MethodUnknown   = "unknown"
)

// Certainty labels for inferred facts.
const (
	CertaintyHigh    = "high"
	CertaintyMedium  = "medium"
	CertaintyLow     = "low"
	CertaintyUnknown = "unknown"
)

// Version is a dotted major.minor.patch compiler version.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// mapping pairs an NDK release with the Clang version it shipped.
// Source: https://developer.android.com/ndk/guides/other_build_systems
//
// Ordered newest to oldest. The order is load-bearing: nearest-match
// ties resolve to the first entry scanned, which must be the newer
// release for inference to stay deterministic.
type mapping struct {
	NDK   string
	Clang Version
}

var ndkClangTable = []mapping{
	{"r27", Version{18, 1, 0}},
	{"r26", Version{17, 0, 2}},
	{"r25", Version{14, 0, 7}},
	{"r24", Version{14, 0, 1}},
	{"r23", Version{12, 0, 9}},
	{"r22", Version{11, 0, 5}},
	{"r21", Version{9, 0, 9}},
	{"r20", Version{8, 0, 7}},
	{"r19", Version{7, 0, 2}},
	{"r18", Version{6, 0, 2}},
	{"r17", Version{6, 0, 2}},
	{"r16", Version{5, 0, 300080}},
	{"r15", Version{5, 0, 300080}},
	{"r14", Version{4, 0, 0}},
	{"r13", Version{3, 8, 275480}},
	{"r12", Version{3, 8, 256229}},
}

var (
	// Direct NDK release markers, tried in order; first match wins.
	ndkDirectPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Android NDK ([a-z][0-9]+[a-z]?)`),
		regexp.MustCompile(`(?i)NDK ([a-z][0-9]+[a-z]?)`),
		regexp.MustCompile(`(?i)android-ndk-([a-z][0-9]+[a-z]?)`),
	}

	clangPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)clang version ([0-9]+\.[0-9]+\.[0-9]+)`),
		regexp.MustCompile(`(?i)clang-([0-9]+\.[0-9]+\.[0-9]+)`),
	}

	// LLVM version is a substitute signal when no Clang marker exists;
	// the two usually move in lockstep.
	llvmPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)LLVM version ([0-9]+\.[0-9]+\.[0-9]+)`),
		regexp.MustCompile(`(?i)libLLVM-([0-9]+\.[0-9]+\.[0-9]+)`),
	}

	apiPatterns = []*regexp.Regexp{
		regexp.MustCompile(`__ANDROID_API__=([0-9]+)`),
		regexp.MustCompile(`(?i)android-([0-9]+)`),
	}
)

// Inference is the toolchain provenance derived from the string corpus.
// Absence of data is a valid terminal state: an empty corpus yields
// unknown everywhere, never an error.
type Inference struct {
	NDKVersion     string   `json:"ndk_version"`
	Certainty      string   `json:"ndk_version_certainty"`
	Method         string   `json:"detection_method"`
	ClangVersion   string   `json:"clang_version"`
	ClangFull      string   `json:"clang_version_full"`
	LLVMVersion    string   `json:"llvm_version,omitempty"`
	AndroidAPI     string   `json:"android_api,omitempty"`
	Recommendation string   `json:"recommendation"`
	Indicators     []string `json:"indicators,omitempty"`
}

// Infer runs the two-phase detection over the string corpus. Re-running
// over the same corpus always yields the same result.
func Infer(corpus facts.StringCorpus) Inference {
	text := string(corpus)
	inf := Inference{
		NDKVersion:   "unknown",
		Certainty:    CertaintyUnknown,
		Method:       MethodUnknown,
		ClangVersion: "unknown",
		ClangFull:    "unknown",
	}

	// Phase 1: direct NDK release marker.
	for _, re := range ndkDirectPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			inf.NDKVersion = strings.ToLower(m[1])
			inf.Certainty = CertaintyHigh
			inf.Method = MethodDirect
			inf.Indicators = append(inf.Indicators, "found direct NDK marker: "+inf.NDKVersion)
			break
		}
	}

	// Compiler version is collected either way; it is useful evidence
	// even when the direct marker already decided the NDK release.
	var compiler *Version
	for _, re := range clangPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, ok := parseVersion(m[1]); ok {
				compiler = &v
				inf.ClangVersion = m[1]
				inf.ClangFull = fullVersionLine(text, "clang version "+m[1])
				inf.Indicators = append(inf.Indicators, "found Clang version: "+m[1])
			}
			break
		}
	}
	if compiler == nil {
		for _, re := range llvmPatterns {
			if m := re.FindStringSubmatch(text); m != nil {
				if v, ok := parseVersion(m[1]); ok {
					compiler = &v
					inf.LLVMVersion = m[1]
					inf.ClangVersion = m[1]
					inf.ClangFull = "inferred from LLVM " + m[1]
					inf.Indicators = append(inf.Indicators, "found LLVM version: "+m[1])
				}
				break
			}
		}
	}

	// Phase 2: nearest-match inference, only when phase 1 found nothing.
	if inf.Method != MethodDirect && compiler != nil {
		ndkVersion, distance := nearestNDK(*compiler)
		inf.NDKVersion = ndkVersion
		inf.Method = MethodInference
		switch {
		case distance == 0:
			inf.Certainty = CertaintyHigh
		case distance < 5:
			inf.Certainty = CertaintyMedium
		default:
			inf.Certainty = CertaintyLow
		}
		inf.Indicators = append(inf.Indicators, fmt.Sprintf(
			"inferred from Clang %s (maps to NDK %s, certainty: %s)",
			inf.ClangVersion, ndkVersion, inf.Certainty))
	}

	for _, re := range apiPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			inf.AndroidAPI = m[1]
			inf.Indicators = append(inf.Indicators, "found Android API level: "+m[1])
			break
		}
	}

	inf.Recommendation = recommendation(inf.NDKVersion)
	return inf
}

// nearestNDK scans the release table for the entry whose Clang version
// is numerically closest. Major differences dominate; patch differences
// are ignored entirely. Ties keep the first (newest) entry scanned.
func nearestNDK(v Version) (ndkVersion string, distance int) {
	best := -1
	for _, entry := range ndkClangTable {
		d := abs(v.Major-entry.Clang.Major)*100 + abs(v.Minor-entry.Clang.Minor)
		if best < 0 || d < best {
			best = d
			ndkVersion = entry.NDK
		}
	}
	return ndkVersion, best
}

// recommendation maps the detected release to upgrade advice. Release
// IDs like "r27d" strip the letter suffix before comparison.
func recommendation(ndkVersion string) string {
	if ndkVersion == "unknown" {
		return "unable to determine NDK version; check the build configuration"
	}
	if major, ok := releaseMajor(ndkVersion); ok {
		switch {
		case major >= 27:
			return "NDK " + ndkVersion + " is current"
		case major >= 25:
			return "NDK " + ndkVersion + " is acceptable; consider upgrading to r27"
		default:
			return "NDK " + ndkVersion + " is old; upgrade to r27"
		}
	}
	return "NDK " + ndkVersion + " detected; release recency unknown"
}

// releaseMajor parses the numeric part of an NDK release id ("r26b" -> 26).
func releaseMajor(id string) (int, bool) {
	if len(id) < 2 {
		return 0, false
	}
	digits := strings.TrimRight(id[1:], "abcd")
	major, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return major, true
}

// fullVersionLine returns the first corpus line containing marker, so
// the report can show the vendor's full version banner.
func fullVersionLine(text, marker string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, marker) {
			return strings.TrimSpace(line)
		}
	}
	return marker
}

func parseVersion(s string) (Version, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, false
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, false
		}
		nums[i] = n
	}
	return Version{nums[0], nums[1], nums[2]}, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
