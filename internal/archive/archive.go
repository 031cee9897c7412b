// Package archive zstd-compresses a pristine copy of a rollout log before
// any compaction pass touches it, for the `compact archive` subcommand
// (spec.md §1 scope: backup-file rotation is explicitly "an external
// collaborator accessing the core through the interfaces in §6", never
// invoked implicitly by the pipeline itself).
package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Archive compresses srcPath into archiveDir/<session-key>-<unixTS>.jsonl.zst
// and returns the archive path. unixTS is caller-supplied so this function
// stays a pure function of its inputs — it never reads the wall clock
// itself, the CLI layer does.
func Archive(srcPath, archiveDir string, unixTS int64) (string, error) {
	key := SessionKey(srcPath)
	if key == "" {
		return "", fmt.Errorf("cannot derive a session key from %s", srcPath)
	}

	destPath := ArchivePath(archiveDir, key, unixTS)

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return "", fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		return "", fmt.Errorf("compress: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("finalize compression: %w", err)
	}

	return destPath, nil
}

// Decompress decompresses archivePath to a temp file. Returns the temp
// file path and a cleanup function the caller must defer.
func Decompress(archivePath string) (string, func(), error) {
	src, err := os.Open(archivePath)
	if err != nil {
		return "", nil, fmt.Errorf("open archive: %w", err)
	}
	defer src.Close()

	decoder, err := zstd.NewReader(src)
	if err != nil {
		return "", nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()

	tmp, err := os.CreateTemp("", "supercompact-decompress-*.jsonl")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, decoder); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("decompress: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("close temp: %w", err)
	}

	cleanup := func() { os.Remove(tmp.Name()) }
	return tmp.Name(), cleanup, nil
}

// HasArchive reports whether any archive exists for the given session key,
// regardless of the timestamp suffix an earlier pass gave it.
func HasArchive(archiveDir, sessionKey string) bool {
	matches, err := filepath.Glob(filepath.Join(archiveDir, sessionKey+"-*.jsonl.zst"))
	return err == nil && len(matches) > 0
}

// ArchivePath returns the deterministic archive path for a session key and
// timestamp.
func ArchivePath(archiveDir, sessionKey string, unixTS int64) string {
	return filepath.Join(archiveDir, fmt.Sprintf("%s-%d.jsonl.zst", sessionKey, unixTS))
}

// SessionKey derives a stable key from a rollout log's filename, stripping
// the .jsonl or .jsonl.zst suffix.
func SessionKey(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".jsonl") {
		return strings.TrimSuffix(base, ".jsonl")
	}
	if strings.HasSuffix(base, ".jsonl.zst") {
		return strings.TrimSuffix(base, ".jsonl.zst")
	}
	return ""
}
