// Package fileinfo computes the basic file facts shown at the top of a
// report: size and content digests.
package fileinfo

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Info is the basic file block of the report.
type Info struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	SizeHuman string `json:"size_human"`
	MD5       string `json:"md5"`
	SHA1      string `json:"sha1"`
	SHA256    string `json:"sha256"`
}

// Collect stats and hashes the file in a single pass.
func Collect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("fileinfo: open: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("fileinfo: stat: %w", err)
	}

	md5h := md5.New()
	sha1h := sha1.New()
	sha256h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(md5h, sha1h, sha256h), f); err != nil {
		return Info{}, fmt.Errorf("fileinfo: read: %w", err)
	}

	return Info{
		Path:      path,
		SizeBytes: stat.Size(),
		SizeHuman: FormatSize(stat.Size()),
		MD5:       hex.EncodeToString(md5h.Sum(nil)),
		SHA1:      hex.EncodeToString(sha1h.Sum(nil)),
		SHA256:    hex.EncodeToString(sha256h.Sum(nil)),
	}, nil
}

// FormatSize renders a byte count with a binary unit suffix.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	case n < 1024*1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	default:
		return fmt.Sprintf("%.1f GB", float64(n)/(1024*1024*1024))
	}
}
