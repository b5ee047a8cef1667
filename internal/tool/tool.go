// Package tool resolves and runs the external inspection binaries. Tool
// selection is an explicit configuration object handed to the analysis
// entry point; nothing in here reads the process environment.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

var (
	// ErrToolUnavailable means the inspection tool was not found on the
	// resolved search path.
	ErrToolUnavailable = errors.New("tool: inspection tool not found")
	// ErrToolFailure means the tool ran and exited non-zero, or the
	// bounded wait expired.
	ErrToolFailure = errors.New("tool: inspection tool failed")
)

// Platform selects the prebuilt toolchain directory inside an NDK root.
type Platform string

const (
	PlatformLinux   Platform = "linux-x86_64"
	PlatformDarwin  Platform = "darwin-x86_64"
	PlatformWindows Platform = "windows-x86_64"
)

// Tool names used by the analyzer.
const (
	Readelf = "readelf"
	Objdump = "objdump"
	Strings = "strings"
	NM      = "nm"
)

// bundledNames maps a generic tool name to the llvm-prefixed binary
// shipped inside the NDK.
var bundledNames = map[string]string{
	Readelf: "llvm-readelf",
	Objdump: "llvm-objdump",
	NM:      "llvm-nm",
	Strings: "llvm-strings",
}

// Resolver decides which concrete binary serves each tool name. With
// UseBundled set and a RootPath given, the NDK's prebuilt llvm tools are
// preferred; the system tool is the fallback either way.
type Resolver struct {
	UseBundled bool
	RootPath   string
	Platform   Platform
}

// Resolve returns the path to invoke for the named tool.
func (r Resolver) Resolve(name string) string {
	if r.UseBundled && r.RootPath != "" {
		bundled, ok := bundledNames[name]
		if !ok {
			bundled = name
		}
		p := filepath.Join(r.RootPath, "toolchains", "llvm", "prebuilt", string(r.Platform), "bin", bundled)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return name
}

// Run invokes the named tool with args and returns its stdout text.
// The context bounds the wait; expiry and non-zero exits both surface as
// ErrToolFailure so the caller can degrade just the dimensions this tool
// feeds. A missing binary is ErrToolUnavailable.
func (r Resolver) Run(ctx context.Context, name string, args ...string) (string, error) {
	path := r.Resolve(name)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	switch {
	case err == nil:
		return stdout.String(), nil
	case errors.Is(err, exec.ErrNotFound):
		return "", fmt.Errorf("%w: %s", ErrToolUnavailable, path)
	case ctx.Err() != nil:
		return "", fmt.Errorf("%w: %s: %v", ErrToolFailure, path, ctx.Err())
	default:
		msg := firstLine(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%w: %s: %s", ErrToolFailure, path, msg)
	}
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
