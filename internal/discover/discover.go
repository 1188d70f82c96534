package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// InputFile represents a discovered chat export on disk.
type InputFile struct {
	Path    string
	Name    string // basename, the stable identifier used in records
	Size    int64
	ModTime int64 // unix timestamp
}

// Discover walks dir recursively and returns all CSV exports, sorted by
// basename. Name order, not modification time, keeps runs over the same
// corpus deterministic regardless of how the files were copied in.
func Discover(dir string) ([]InputFile, error) {
	var results []InputFile

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if info.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}

		results = append(results, InputFile{
			Path:    path,
			Name:    filepath.Base(path),
			Size:    info.Size(),
			ModTime: info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	return results, nil
}

// Sample caps the file list for trial runs. n <= 0 means no cap. The
// input is already name-sorted, so a sample is always the same prefix.
func Sample(files []InputFile, n int) []InputFile {
	if n <= 0 || n >= len(files) {
		return files
	}
	return files[:n]
}
