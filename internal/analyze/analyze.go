// Package analyze runs one end-to-end analysis of a shared object: it
// invokes the inspection tools through the resolver, parses their text
// into facts, classifies each compatibility dimension, and aggregates
// the summary. A run is synchronous and owns its fact model; failures
// are dimension-scoped, so a broken tool degrades only the dimensions it
// feeds.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"socheck/internal/check"
	"socheck/internal/elftext"
	"socheck/internal/facts"
	"socheck/internal/fileinfo"
	"socheck/internal/ndk"
	"socheck/internal/report"
	"socheck/internal/tool"
)

var (
	// ErrInputNotFound is the only fatal, whole-run-aborting error.
	ErrInputNotFound = errors.New("analyze: input file not found")
	// ErrParseGap means a tool ran but an expected fact was absent.
	ErrParseGap = errors.New("analyze: expected fact absent")
	// ErrNotSharedObject means the file lacks section markers entirely.
	ErrNotSharedObject = errors.New("analyze: not a shared object")
)

// SymbolStats summarizes the exported-symbol table.
type SymbolStats struct {
	Total  int            `json:"total"`
	ByKind map[string]int `json:"by_kind"`
}

// Report is the full analysis output for one file.
type Report struct {
	File        fileinfo.Info     `json:"file"`
	GeneratedAt time.Time         `json:"generated_at"`
	Header      map[string]string `json:"elf_header,omitempty"`
	Needed      []string          `json:"needed,omitempty"`
	Symbols     SymbolStats       `json:"symbols"`
	Summary     report.Summary    `json:"summary"`
	// Notes collects run-level observations that are not tied to a
	// single dimension (missing peripheral facts, suspicious inputs).
	Notes []string `json:"notes,omitempty"`
}

// Analyzer runs analyses. Tool selection is fixed at construction; no
// ambient environment is consulted during a run.
type Analyzer struct {
	Resolver tool.Resolver
	Timeout  time.Duration
	Log      zerolog.Logger
}

// Run analyzes the shared object at path. Only a missing input aborts
// the run; every other failure degrades its own dimension and the
// report still renders all four.
func (a *Analyzer) Run(ctx context.Context, path string) (*Report, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}

	rep := &Report{GeneratedAt: time.Now()}

	info, err := fileinfo.Collect(path)
	if err != nil {
		// Readable enough to stat but not to hash: keep going, the
		// tools may still manage.
		a.Log.Warn().Err(err).Msg("file info collection failed")
		info = fileinfo.Info{Path: path}
		rep.Notes = append(rep.Notes, "file hashing failed: "+err.Error())
	}
	rep.File = info

	model := a.collectFacts(ctx, path, rep)

	var (
		alignment check.AlignmentResult
		hash      check.HashStyleResult
		reloc     check.RelocationResult
		toolchain ndk.Inference
	)

	if model.segmentsErr != nil {
		alignment = check.AlignmentResult{Result: check.Failed(check.DimAlignment, model.segmentsErr.Error())}
	} else {
		alignment = check.Alignment(model.facts.Segments)
	}

	if model.sectionsErr != nil {
		reason := model.sectionsErr.Error()
		hash = check.HashStyleResult{Result: check.Failed(check.DimHashStyle, reason)}
		reloc = check.RelocationResult{Result: check.Failed(check.DimRelocation, reason)}
	} else {
		hash = check.HashStyle(model.facts.Sections)
		reloc = check.RelocationPacking(model.facts.Sections)
	}

	if model.stringsErr != nil {
		toolchain = ndk.Inference{
			NDKVersion:     "unknown",
			Certainty:      ndk.CertaintyUnknown,
			Method:         ndk.MethodUnknown,
			ClangVersion:   "unknown",
			ClangFull:      "unknown",
			Recommendation: "analysis failed: " + model.stringsErr.Error(),
			Indicators:     []string{model.stringsErr.Error()},
		}
	} else {
		toolchain = ndk.Infer(model.facts.Strings)
	}

	rep.Summary = report.Aggregate(alignment, hash, reloc, toolchain)
	return rep, nil
}

// runFacts holds the parsed model plus the per-collaborator errors so
// classification can degrade exactly the dimensions each tool feeds.
type runFacts struct {
	facts       facts.Model
	sectionsErr error
	segmentsErr error
	stringsErr  error
}

// collectFacts invokes each collaborator with its own bounded context.
// Peripheral facts (header, dependencies, symbols) record notes instead
// of degrading dimensions.
func (a *Analyzer) collectFacts(ctx context.Context, path string, rep *Report) runFacts {
	var m runFacts

	// Section table: feeds hash style and relocation packing.
	if text, err := a.run(ctx, tool.Readelf, "-S", path); err != nil {
		a.Log.Warn().Err(err).Msg("section table unavailable")
		m.sectionsErr = err
	} else {
		m.facts.Sections = elftext.ParseSections(text)
		if len(m.facts.Sections) == 0 {
			note := fmt.Sprintf("%v: no section headers in %s", ErrNotSharedObject, path)
			rep.Notes = append(rep.Notes, note)
		}
	}

	// Program headers: feeds alignment.
	if text, err := a.run(ctx, tool.Objdump, "-p", path); err != nil {
		a.Log.Warn().Err(err).Msg("program headers unavailable")
		m.segmentsErr = err
	} else {
		m.facts.Segments = elftext.ParseSegments(text)
		if len(m.facts.Segments) == 0 {
			rep.Notes = append(rep.Notes, fmt.Sprintf("%v: no LOAD segments in %s", ErrParseGap, path))
		}
	}

	// String corpus: feeds toolchain inference.
	if text, err := a.run(ctx, tool.Strings, path); err != nil {
		a.Log.Warn().Err(err).Msg("string extraction unavailable")
		m.stringsErr = err
	} else {
		m.facts.Strings = facts.StringCorpus(text)
	}

	// Peripheral blocks: header, dependencies, exported symbols.
	if text, err := a.run(ctx, tool.Readelf, "-h", path); err != nil {
		rep.Notes = append(rep.Notes, "ELF header unavailable: "+err.Error())
	} else {
		m.facts.Header = elftext.ParseHeader(text)
		rep.Header = m.facts.Header
		if t, ok := m.facts.Header["Type"]; ok && t != "DYN (Shared object file)" && t != "DYN" {
			rep.Notes = append(rep.Notes, fmt.Sprintf("%v: ELF type is %q", ErrNotSharedObject, t))
		}
	}

	if text, err := a.run(ctx, tool.Readelf, "-d", path); err != nil {
		rep.Notes = append(rep.Notes, "dynamic section unavailable: "+err.Error())
	} else {
		m.facts.Needed = elftext.ParseNeeded(text)
		rep.Needed = m.facts.Needed
	}

	if text, err := a.run(ctx, tool.NM, "-D", "--defined-only", path); err != nil {
		rep.Notes = append(rep.Notes, "symbol table unavailable: "+err.Error())
	} else {
		m.facts.Symbols = elftext.ParseSymbols(text)
		rep.Symbols = symbolStats(m.facts.Symbols)
	}

	return m
}

// run wraps one tool invocation with the per-call deadline.
func (a *Analyzer) run(ctx context.Context, name string, args ...string) (string, error) {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	a.Log.Debug().Str("tool", name).Strs("args", args).Msg("running inspection tool")
	return a.Resolver.Run(ctx, name, args...)
}

func symbolStats(symbols []facts.SymbolFact) SymbolStats {
	stats := SymbolStats{Total: len(symbols), ByKind: make(map[string]int)}
	for _, s := range symbols {
		stats.ByKind[s.Kind]++
	}
	return stats
}
