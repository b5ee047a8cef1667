// Package elftext tokenizes the textual reports produced by the external
// inspection tools (llvm-readelf, llvm-objdump, nm, strings) into typed
// facts. The tools intermix headers, blank lines, and footnotes with the
// rows we want, so every parser here skips lines it cannot shape rather
// than failing the run.
package elftext

import (
	"regexp"
	"strconv"
	"strings"

	"socheck/internal/facts"
)

var (
	reSegOff   = regexp.MustCompile(`off\s+0x([0-9a-fA-F]+)`)
	reSegVaddr = regexp.MustCompile(`vaddr\s+0x([0-9a-fA-F]+)`)
	reSegAlign = regexp.MustCompile(`align\s+2\*\*(\d+)`)

	reNeeded = regexp.MustCompile(`\(NEEDED\)\s+Shared library:\s+\[([^\]]+)\]`)
)

// ParseSections extracts section facts from readelf -S output.
//
// Rows are recognized by a leading bracketed index, e.g.
//
//	[ 6] .gnu.hash   GNU_HASH   0000000000002068 002068 000224 00  A  3  0  8
//
// Fields after the index are positional: name, type, address, offset,
// size, entry size. Size and entry size are hexadecimal without a 0x
// prefix. A row needs at least the size field to be accepted; the entry
// size is optional and defaults to zero. llvm-readelf pads single-digit
// indices inside the brackets ("[ 6]") but not double-digit ones
// ("[12]"), so the index is cut off before positional splitting.
func ParseSections(text string) []facts.SectionFact {
	var sections []facts.SectionFact
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "[") {
			continue
		}
		close := strings.IndexByte(line, ']')
		if close < 0 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(line[1:close]))
		if err != nil {
			// Column-header row ("[Nr] Name Type ...") or stray bracket.
			continue
		}
		fields := strings.Fields(line[close+1:])
		if len(fields) < 5 {
			continue
		}
		size, err := strconv.ParseUint(fields[4], 16, 64)
		if err != nil {
			continue
		}
		sec := facts.SectionFact{
			Index: index,
			Name:  fields[0],
			Type:  fields[1],
			Size:  size,
		}
		// Address and offset are diagnostic; a row with malformed hex
		// there still carries a usable size.
		sec.Address, _ = strconv.ParseUint(fields[2], 16, 64)
		sec.Offset, _ = strconv.ParseUint(fields[3], 16, 64)
		if len(fields) >= 6 {
			sec.EntrySize, _ = strconv.ParseUint(fields[5], 16, 64)
		}
		sections = append(sections, sec)
	}
	return sections
}

// ParseSegments extracts LOAD program-header facts from objdump -p output.
//
// A segment line carries the LOAD token with off/vaddr/align fields in
// free-form surrounding text:
//
//	LOAD off 0x0000000000000000 vaddr 0x0000000000000000 paddr ... align 2**14
//
// A line missing any of the three fields is dropped.
func ParseSegments(text string) []facts.SegmentFact {
	var segments []facts.SegmentFact
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "LOAD") || !strings.Contains(line, "off") || !strings.Contains(line, "vaddr") {
			continue
		}
		offMatch := reSegOff.FindStringSubmatch(line)
		vaddrMatch := reSegVaddr.FindStringSubmatch(line)
		alignMatch := reSegAlign.FindStringSubmatch(line)
		if offMatch == nil || vaddrMatch == nil || alignMatch == nil {
			continue
		}
		off, err := strconv.ParseUint(offMatch[1], 16, 64)
		if err != nil {
			continue
		}
		vaddr, err := strconv.ParseUint(vaddrMatch[1], 16, 64)
		if err != nil {
			continue
		}
		power, err := strconv.Atoi(alignMatch[1])
		if err != nil || power < 0 || power > 63 {
			continue
		}
		segments = append(segments, facts.SegmentFact{
			Kind:       "LOAD",
			Offset:     off,
			Vaddr:      vaddr,
			Alignment:  uint64(1) << uint(power),
			AlignPower: uint(power),
		})
	}
	return segments
}

// ParseSymbols extracts symbol facts from nm-style rows of
// "address kind name". Undefined symbols have no address column and are
// recorded with Address "N/A".
func ParseSymbols(text string) []facts.SymbolFact {
	var symbols []facts.SymbolFact
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		switch {
		case len(fields) >= 3 && len(fields[1]) == 1:
			symbols = append(symbols, facts.SymbolFact{
				Address: fields[0],
				Kind:    fields[1],
				Name:    strings.Join(fields[2:], " "),
			})
		case len(fields) == 2 && len(fields[0]) == 1:
			symbols = append(symbols, facts.SymbolFact{
				Address: "N/A",
				Kind:    fields[0],
				Name:    fields[1],
			})
		}
	}
	return symbols
}

// ParseNeeded extracts the NEEDED shared-library names from readelf -d
// output, in encounter order.
func ParseNeeded(text string) []string {
	var libs []string
	for _, line := range strings.Split(text, "\n") {
		if m := reNeeded.FindStringSubmatch(line); m != nil {
			libs = append(libs, m[1])
		}
	}
	return libs
}

// ParseHeader extracts "Key: value" pairs from readelf -h output.
// Only lines with a colon are kept; keys and values are trimmed.
func ParseHeader(text string) map[string]string {
	header := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		header[key] = value
	}
	return header
}
