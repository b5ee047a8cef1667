// Package render formats an analysis report for the terminal. All
// verdict logic lives in the classifiers; this layer only looks up
// presentation for verdicts it is handed.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"socheck/internal/analyze"
	"socheck/internal/check"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	labelStyle   = lipgloss.NewStyle().Bold(true)
	passStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	unknownStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func statusGlyph(s check.Status) string {
	switch s {
	case check.StatusPass:
		return passStyle.Render("PASS")
	case check.StatusFail:
		return failStyle.Render("FAIL")
	default:
		return unknownStyle.Render("????")
	}
}

// Report renders the full human-readable report.
func Report(rep *analyze.Report) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Android shared object compatibility report"))
	b.WriteString("\n\n")
	writeKV(&b, "File", rep.File.Path)
	if rep.File.SizeHuman != "" {
		writeKV(&b, "Size", fmt.Sprintf("%d bytes (%s)", rep.File.SizeBytes, rep.File.SizeHuman))
	}
	if rep.File.SHA256 != "" {
		writeKV(&b, "MD5", rep.File.MD5)
		writeKV(&b, "SHA1", rep.File.SHA1)
		writeKV(&b, "SHA256", rep.File.SHA256)
	}
	if machine, ok := rep.Header["Machine"]; ok {
		writeKV(&b, "Machine", machine)
	}
	if typ, ok := rep.Header["Type"]; ok {
		writeKV(&b, "Type", typ)
	}
	if len(rep.Needed) > 0 {
		writeKV(&b, "Depends on", strings.Join(rep.Needed, ", "))
	}
	if rep.Symbols.Total > 0 {
		writeKV(&b, "Exported symbols", fmt.Sprintf("%d (%s)", rep.Symbols.Total, kindBreakdown(rep.Symbols.ByKind)))
	}

	s := rep.Summary

	b.WriteString("\n" + sectionStyle.Render("16KB page alignment") + "\n")
	writeResult(&b, s.Statuses[check.DimAlignment], s.Alignment.Result)
	if len(s.Alignment.Segments) > 0 {
		b.WriteString(segmentTable(s.Alignment.Segments))
	}

	b.WriteString("\n" + sectionStyle.Render("Symbol hash table") + "\n")
	writeResult(&b, s.Statuses[check.DimHashStyle], s.HashStyle.Result)

	b.WriteString("\n" + sectionStyle.Render("Relocation packing") + "\n")
	writeResult(&b, s.Statuses[check.DimRelocation], s.Relocation.Result)
	if len(s.Relocation.Sections) > 0 {
		b.WriteString(relocTable(s.Relocation.Sections))
	}

	b.WriteString("\n" + sectionStyle.Render("NDK toolchain") + "\n")
	writeKV(&b, "NDK version", s.Toolchain.NDKVersion)
	writeKV(&b, "Certainty", s.Toolchain.Certainty)
	writeKV(&b, "Method", s.Toolchain.Method)
	if s.Toolchain.ClangVersion != "unknown" {
		writeKV(&b, "Clang", s.Toolchain.ClangFull)
	}
	if s.Toolchain.AndroidAPI != "" {
		writeKV(&b, "Android API", s.Toolchain.AndroidAPI)
	}
	for _, ind := range s.Toolchain.Indicators {
		b.WriteString(dimStyle.Render("    - "+ind) + "\n")
	}
	writeKV(&b, "Recommendation", s.Toolchain.Recommendation)

	b.WriteString("\n" + sectionStyle.Render("Summary") + "\n")
	for _, fs := range s.Flags {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statusGlyph(fs.Status), fs.Flag))
	}
	if len(s.Issues) > 0 {
		b.WriteString("\n" + sectionStyle.Render("Issues") + "\n")
		for i, issue := range s.Issues {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, issue.Description))
			b.WriteString(dimStyle.Render(fmt.Sprintf("     fix: %s", issue.Remediation)) + "\n")
		}
	} else if s.Clean() {
		b.WriteString(passStyle.Render("  all checks passed") + "\n")
	}

	for _, note := range rep.Notes {
		b.WriteString(dimStyle.Render("note: "+note) + "\n")
	}
	return b.String()
}

func writeResult(b *strings.Builder, status check.Status, r check.Result) {
	b.WriteString(fmt.Sprintf("  %s  verdict: %s\n", statusGlyph(status), r.Verdict))
	writeKV(b, "Compatibility", r.Compatibility)
	writeKV(b, "Recommendation", r.Recommendation)
	keys := make([]string, 0, len(r.Evidence))
	for k := range r.Evidence {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(dimStyle.Render(fmt.Sprintf("    %s: %s", k, r.Evidence[k])) + "\n")
	}
}

func writeKV(b *strings.Builder, label, value string) {
	b.WriteString(fmt.Sprintf("  %s: %s\n", labelStyle.Render(label), value))
}

func segmentTable(segments []check.SegmentCheck) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("    seg  offset              vaddr               align        16kb") + "\n")
	for i, seg := range segments {
		mark := "ok"
		if !seg.Alignment16KB {
			mark = "NO"
		}
		b.WriteString(fmt.Sprintf("    %-4d 0x%016x  0x%016x  2**%-2d (%d)  %s\n",
			i+1, seg.Offset, seg.Vaddr, seg.AlignPower, seg.Alignment, mark))
	}
	return b.String()
}

func relocTable(sections []check.RelocSection) string {
	var b strings.Builder
	b.WriteString(dimStyle.Render("    name            type           size        entsize  count") + "\n")
	for _, sec := range sections {
		b.WriteString(fmt.Sprintf("    %-15s %-14s %-11d %-8d %d\n",
			sec.Name, sec.Type, sec.Size, sec.EntrySize, sec.Count))
	}
	return b.String()
}

func kindBreakdown(byKind map[string]int) string {
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s:%d", k, byKind[k]))
	}
	return strings.Join(parts, " ")
}
