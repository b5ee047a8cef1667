// Package facts holds the typed, in-memory representation of everything
// extracted from the inspection tools. Pure data: no I/O, no tool
// invocation. A Model belongs to exactly one analysis run and is read-only
// once populated.
package facts

// SectionFact is one row of the section-header table.
type SectionFact struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Address   uint64 `json:"address"`
	Offset    uint64 `json:"offset"`
	Size      uint64 `json:"size"`
	EntrySize uint64 `json:"entry_size"`
}

// EntryCount returns Size/EntrySize, or 0 when either is zero.
// A section without a meaningful entry size carries no count.
func (s SectionFact) EntryCount() uint64 {
	if s.Size == 0 || s.EntrySize == 0 {
		return 0
	}
	return s.Size / s.EntrySize
}

// SegmentFact is one program-header entry. Only LOAD segments are
// recorded; the parser ignores every other kind.
type SegmentFact struct {
	Kind       string `json:"kind"`
	Offset     uint64 `json:"offset"`
	Vaddr      uint64 `json:"vaddr"`
	Alignment  uint64 `json:"alignment"`
	AlignPower uint   `json:"align_power"`
}

// SymbolFact is one nm-style symbol row. Address is the literal text
// from the tool, or "N/A" for undefined symbols that carry none.
type SymbolFact struct {
	Address string `json:"address"`
	Kind    string `json:"kind"`
	Name    string `json:"name"`
}

// symbolKinds maps the recognized nm kind codes to descriptions.
// Unrecognized codes are preserved on the fact but describe as empty.
var symbolKinds = map[string]string{
	"T": "exported function",
	"W": "weak symbol",
	"R": "read-only data",
	"D": "initialized data",
	"B": "uninitialized data",
	"U": "undefined (imported)",
	"V": "weak object",
	"w": "weak reference",
}

// KindDescription returns a human-readable description of the symbol
// kind, or "" for codes outside the recognized alphabet.
func (s SymbolFact) KindDescription() string {
	return symbolKinds[s.Kind]
}

// StringCorpus is the newline-delimited output of a string-extraction
// pass over the binary. It is only ever pattern-searched, never
// tokenized into a table.
type StringCorpus string

// Model is the snapshot of facts one analysis run works from.
// Classifiers borrow it read-only.
type Model struct {
	Sections []SectionFact
	Segments []SegmentFact
	Symbols  []SymbolFact
	Needed   []string
	Header   map[string]string
	Strings  StringCorpus
}

// SectionByName returns the first section with the exact name, or nil.
func (m *Model) SectionByName(name string) *SectionFact {
	for i := range m.Sections {
		if m.Sections[i].Name == name {
			return &m.Sections[i]
		}
	}
	return nil
}

// LoadSegments returns the segments in encounter order. The parser only
// emits LOAD segments, so this is the whole slice; the filter stays here
// in case other kinds are ever recorded.
func (m *Model) LoadSegments() []SegmentFact {
	var segs []SegmentFact
	for _, s := range m.Segments {
		if s.Kind == "LOAD" {
			segs = append(segs, s)
		}
	}
	return segs
}
