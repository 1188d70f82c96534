package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Archive compresses a processed chat export into
// archiveDir/{name}.csv.zst. Returns the archive path. The source file
// is left in place; removal is the caller's decision.
func Archive(srcPath, archiveDir string) (string, error) {
	name := baseName(srcPath)
	if name == "" {
		return "", fmt.Errorf("not a csv export: %s", srcPath)
	}

	destPath := Path(name, archiveDir)

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

// Decompress decompresses archivePath to a temp file.
// Returns the temp file path and a cleanup function the caller must defer.
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

	tmp, err := os.CreateTemp("", "chatlens-decompress-*.csv")
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

// IsArchived returns true if an archive exists for the given export name.
func IsArchived(name, archiveDir string) bool {
	_, err := os.Stat(Path(name, archiveDir))
	return err == nil
}

// Path returns the deterministic archive path for an export name.
func Path(name, archiveDir string) string {
	return filepath.Join(archiveDir, name+".csv.zst")
}

// baseName strips the csv extensions off a source or archive path.
func baseName(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	if strings.HasSuffix(lower, ".csv.zst") {
		return base[:len(base)-len(".csv.zst")]
	}
	if strings.HasSuffix(lower, ".csv") {
		return base[:len(base)-len(".csv")]
	}
	return ""
}
