//go:build !unix

package decode

import (
	"errors"
	"os"
)

var errMmapUnsupported = errors.New("mmap unsupported")

func mapFile(*os.File, int64) ([]byte, func() error, error) {
	return nil, nil, errMmapUnsupported
}
