package ingest

import (
	"os"
	"path/filepath"
)

func openStaged(path string) (*os.File, error) {
	return os.Open(path)
}

func extOf(path string) string {
	return filepath.Ext(path)
}
