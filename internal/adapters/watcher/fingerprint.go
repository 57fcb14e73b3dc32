package watcher

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a fast content hash of the file at path. Watch mode
// compares fingerprints across events so that saves which did not change the
// document's bytes do not trigger a rebuild.
func Fingerprint(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
