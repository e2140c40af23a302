package decode

import (
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/m3hr4nn/logboss/internal/model"
)

// ErrFileUnreadable wraps every failure to open or decompress a file.
var ErrFileUnreadable = errors.New("file unreadable")

// DefaultMmapThreshold is the plain-file size above which content is memory-mapped.
const DefaultMmapThreshold int64 = 64 << 20

// Content is the fully decoded byte content of one file.
// Data is only valid until Close is called.
type Content struct {
	Data    []byte
	Mapped  bool
	release func() error
}

// Close releases the content. It is safe to call more than once.
func (c *Content) Close() error {
	if c.release == nil {
		return nil
	}
	release := c.release
	c.release = nil
	c.Data = nil
	return release()
}

// Decoder turns a FileTask into raw bytes, reversing compression by format.
type Decoder struct {
	// MmapThreshold is the size above which plain files are memory-mapped.
	// Zero or negative disables mapping.
	MmapThreshold int64
}

// New returns a Decoder with the given mmap threshold.
func New(mmapThreshold int64) *Decoder {
	return &Decoder{MmapThreshold: mmapThreshold}
}

// Decode returns the decoded content of task. No charset handling is done here.
func (d *Decoder) Decode(task model.FileTask) (*Content, error) {
	f, err := os.Open(task.Path)
	if err != nil {
		return nil, unreadable(task.Path, err)
	}
	defer f.Close()

	switch task.Format {
	case model.FormatGzip:
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, unreadable(task.Path, err)
		}
		defer zr.Close()
		return readAll(task.Path, zr)

	case model.FormatBzip2:
		return readAll(task.Path, bzip2.NewReader(f))

	default:
		return d.decodePlain(task.Path, f)
	}
}

// decodePlain maps large files and reads small ones into memory.
func (d *Decoder) decodePlain(path string, f *os.File) (*Content, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, unreadable(path, err)
	}

	if d.MmapThreshold > 0 && info.Size() > d.MmapThreshold {
		data, unmap, err := mapFile(f, info.Size())
		if err == nil {
			return &Content{Data: data, Mapped: true, release: unmap}, nil
		}
		if !errors.Is(err, errMmapUnsupported) {
			return nil, unreadable(path, err)
		}
	}

	return readAll(path, f)
}

func readAll(path string, r io.Reader) (*Content, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, unreadable(path, err)
	}
	return &Content{Data: data}, nil
}

func unreadable(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFileUnreadable, path, err)
}
