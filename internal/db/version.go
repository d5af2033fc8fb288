package db

import (
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/sample-graph/sample-graph-api/internal/db/migrations"
)

// SchemaVersion returns the highest migration version embedded in the binary,
// or 0 when none can be read.
func SchemaVersion() int64 {
	return latestVersion(migrations.FS)
}

func latestVersion(fsys fs.FS) int64 {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return 0
	}

	var latest int64
	for _, name := range names {
		v, err := goose.NumericComponent(name)
		if err != nil {
			continue
		}
		if v > latest {
			latest = v
		}
	}

	return latest
}
