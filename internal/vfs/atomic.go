package vfs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/corvidaudio/metatag/internal/metaerr"
)

// WriteResult is the envelope returned by Write/WriteAsync (spec §4.B).
type WriteResult struct {
	Success bool
	Error   error
}

// Write persists data to path atomically: the bytes go to a sibling
// temporary file first, then that file is renamed onto path. On any
// failure after the temp file is created, the temp file is removed on a
// best-effort basis so a failed write never leaves partial garbage next to
// the target nor disturbs the original file.
func Write(fs FS, path string, data []byte) WriteResult {
	tmp := tempName(path)

	if err := fs.WriteAll(tmp, data); err != nil {
		return WriteResult{Error: metaerr.Wrap(metaerr.IoFailure, "writing temp file", err)}
	}

	if err := fs.MoveReplace(tmp, path); err != nil {
		_ = fs.Delete(tmp)
		return WriteResult{Error: metaerr.Wrap(metaerr.IoFailure, "renaming temp file into place", err)}
	}

	return WriteResult{Success: true}
}

// WriteAsync is as Write but cooperatively honors ctx: cancellation
// observed between the temp-file write and the rename is treated as a
// failure and the temp file is best-effort deleted (spec §5 Cancellation).
func WriteAsync(ctx context.Context, fs FS, path string, data []byte) WriteResult {
	if err := checkContext(ctx); err != nil {
		return WriteResult{Error: err}
	}

	tmp := tempName(path)
	if err := fs.WriteAll(tmp, data); err != nil {
		return WriteResult{Error: metaerr.Wrap(metaerr.IoFailure, "writing temp file", err)}
	}

	if err := checkContext(ctx); err != nil {
		_ = fs.Delete(tmp)
		return WriteResult{Error: err}
	}

	if err := fs.MoveReplace(tmp, path); err != nil {
		_ = fs.Delete(tmp)
		return WriteResult{Error: metaerr.Wrap(metaerr.IoFailure, "renaming temp file into place", err)}
	}

	return WriteResult{Success: true}
}

func tempName(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%d.tmp", base, time.Now().UnixNano()))
}
