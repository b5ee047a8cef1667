package elftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sectionTable = `There are 28 section headers, starting at offset 0x12345:

Section Headers:
  [Nr] Name              Type            Address          Off    Size   ES Flg Lk Inf Al
  [ 0]                   NULL            0000000000000000 000000 000000 00      0   0  0
  [ 6] .gnu.hash         GNU_HASH        0000000000002068 002068 000224 00   A  3   0  8
  [ 9] .rela.dyn         RELA            0000000000005798 005798 0a2e40 18   A  3   0  8
  [12] .text             PROGBITS        00000000000b0000 0b0000 123456 00  AX  0   0 16
Key to Flags:
  W (write), A (alloc), X (execute)
`

func TestParseSectionsCanonicalRow(t *testing.T) {
	sections := ParseSections(sectionTable)
	require.Len(t, sections, 4)

	gnu := sections[1]
	assert.Equal(t, 6, gnu.Index)
	assert.Equal(t, ".gnu.hash", gnu.Name)
	assert.Equal(t, "GNU_HASH", gnu.Type)
	assert.Equal(t, uint64(0x2068), gnu.Address)
	assert.Equal(t, uint64(0x2068), gnu.Offset)
	assert.Equal(t, uint64(548), gnu.Size)
	assert.Equal(t, uint64(0), gnu.EntrySize)

	rela := sections[2]
	assert.Equal(t, ".rela.dyn", rela.Name)
	assert.Equal(t, uint64(0x0a2e40), rela.Size)
	assert.Equal(t, uint64(0x18), rela.EntrySize)
	assert.Equal(t, uint64(0x0a2e40/0x18), rela.EntryCount())
}

func TestParseSectionsDoubleDigitIndex(t *testing.T) {
	// llvm-readelf drops the inner padding once the index reaches two
	// digits; field positions must not shift.
	sections := ParseSections(sectionTable)
	text := sections[3]
	assert.Equal(t, 12, text.Index)
	assert.Equal(t, ".text", text.Name)
	assert.Equal(t, "PROGBITS", text.Type)
	assert.Equal(t, uint64(0x123456), text.Size)
}

func TestParseSectionsSkipsMalformedLines(t *testing.T) {
	input := "[ 1] .short PROGBITS 00\n" + // too few fields
		"[ 2] .badsize PROGBITS 0000 0000 zzzz 00\n" + // non-hex size
		"plain prose line\n" +
		"[ 3] .ok PROGBITS 0000 0000 0010 00\n"
	sections := ParseSections(input)
	require.Len(t, sections, 1)
	assert.Equal(t, ".ok", sections[0].Name)
	assert.Equal(t, uint64(0x10), sections[0].Size)
}

const segmentListing = `libtest.so:     file format elf64-littleaarch64

Program Header:
    LOAD off    0x0000000000000000 vaddr 0x0000000000000000 paddr 0x0000000000000000 align 2**14
         filesz 0x00000000000cb80c memsz 0x00000000000cb80c flags r-x
    LOAD off    0x00000000000cc000 vaddr 0x00000000000d0000 paddr 0x00000000000d0000 align 2**12
 DYNAMIC off    0x00000000000d1c78 vaddr 0x00000000000d5c78 paddr 0x00000000000d5c78 align 2**3
    LOAD off    0x0000000000001000 vaddr 0x0000000000001000 align
`

func TestParseSegments(t *testing.T) {
	segments := ParseSegments(segmentListing)
	require.Len(t, segments, 2)

	assert.Equal(t, "LOAD", segments[0].Kind)
	assert.Equal(t, uint64(0), segments[0].Offset)
	assert.Equal(t, uint64(0), segments[0].Vaddr)
	assert.Equal(t, uint64(16384), segments[0].Alignment)
	assert.Equal(t, uint(14), segments[0].AlignPower)

	assert.Equal(t, uint64(0xcc000), segments[1].Offset)
	assert.Equal(t, uint64(0xd0000), segments[1].Vaddr)
	assert.Equal(t, uint64(4096), segments[1].Alignment)
}

func TestParseSegmentsDropsIncompleteLines(t *testing.T) {
	// A LOAD line missing the align field contributes nothing.
	segments := ParseSegments("LOAD off 0x1000 vaddr 0x1000\n")
	assert.Empty(t, segments)
}

func TestParseSymbols(t *testing.T) {
	input := `0000000000001234 T JNI_OnLoad
0000000000005678 W _ZN3fooD1Ev
                 U __cxa_finalize
0000000000009abc X strange_kind
`
	symbols := ParseSymbols(input)
	require.Len(t, symbols, 4)

	assert.Equal(t, "0000000000001234", symbols[0].Address)
	assert.Equal(t, "T", symbols[0].Kind)
	assert.Equal(t, "JNI_OnLoad", symbols[0].Name)
	assert.Equal(t, "exported function", symbols[0].KindDescription())

	assert.Equal(t, "N/A", symbols[2].Address)
	assert.Equal(t, "U", symbols[2].Kind)

	// Unrecognized kind codes are preserved but carry no description.
	assert.Equal(t, "X", symbols[3].Kind)
	assert.Equal(t, "", symbols[3].KindDescription())
}

func TestParseNeeded(t *testing.T) {
	input := `Dynamic section at offset 0xd1c78 contains 30 entries:
  Tag                Type       Name/Value
  0x0000000000000001 (NEEDED)   Shared library: [liblog.so]
  0x0000000000000001 (NEEDED)   Shared library: [libc.so]
  0x000000000000000e (SONAME)   Library soname: [libtest.so]
`
	assert.Equal(t, []string{"liblog.so", "libc.so"}, ParseNeeded(input))
}

func TestParseHeader(t *testing.T) {
	input := `ELF Header:
  Class:                             ELF64
  Machine:                           AArch64
  Type:                              DYN (Shared object file)
`
	header := ParseHeader(input)
	assert.Equal(t, "ELF64", header["Class"])
	assert.Equal(t, "AArch64", header["Machine"])
	assert.Equal(t, "DYN (Shared object file)", header["Type"])
}
