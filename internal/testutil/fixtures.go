// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// SampleText is the plain content of SampleBzip2.
const SampleText = "Jan 2 03:04:05 host systemctl restart sshd\nplain line\n2023-05-01T10:00:00Z shutdown -h now\n"

// SampleBzip2 is SampleText compressed with bzip2. The standard library
// can only decompress bzip2, so the fixture is stored pre-compressed.
var SampleBzip2 = []byte{
	0x42, 0x5a, 0x68, 0x39, 0x31, 0x41, 0x59, 0x26, 0x53, 0x59, 0xd7, 0xf3,
	0xe5, 0x88, 0x00, 0x00, 0x14, 0xdf, 0x80, 0x00, 0x10, 0x40, 0x02, 0x7e,
	0x10, 0x00, 0x10, 0x04, 0x10, 0x2e, 0x67, 0xde, 0xa0, 0x20, 0x00, 0x40,
	0xd5, 0x3d, 0x34, 0x09, 0xa7, 0xa8, 0xda, 0x10, 0x0d, 0x34, 0x28, 0x00,
	0x00, 0x00, 0x02, 0xfd, 0x4e, 0x73, 0x24, 0x2b, 0x71, 0x5b, 0x87, 0x4d,
	0x28, 0x36, 0x91, 0x98, 0x35, 0x51, 0x62, 0x75, 0x19, 0x02, 0x19, 0x46,
	0xad, 0x83, 0x75, 0xb6, 0xbd, 0x2b, 0x28, 0x5e, 0xce, 0xf3, 0x2e, 0xa4,
	0xfb, 0xbb, 0xbe, 0xdf, 0xe8, 0x6a, 0x27, 0x95, 0x6b, 0xd1, 0x82, 0xf2,
	0xc1, 0xab, 0x86, 0x0b, 0x09, 0x10, 0x7f, 0x8b, 0xb9, 0x22, 0x9c, 0x28,
	0x48, 0x6b, 0xf9, 0xf2, 0xc4, 0x00,
}

// WriteFile creates path (and its parents) with data.
func WriteFile(t testing.TB, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Gzip compresses data.
func Gzip(t testing.TB, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
