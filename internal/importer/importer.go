// Package importer reads bank export files into rows of cells, locates the
// header row, and extracts canonical transactions from the data rows.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Reader converts a tabular bank export into rows of cells.
type Reader interface {
	Read(r io.Reader) ([][]Cell, error)
	Format() string
}

// Registry holds readers keyed by format (file extension without the dot).
type Registry struct {
	readers map[string]Reader
}

// FileInfo describes a bank export in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate format.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(format)]
}

// ForFile returns the reader matching a file name's extension.
func (r *Registry) ForFile(name string) (Reader, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return nil, fmt.Errorf("file %q has no extension", name)
	}
	rd := r.Get(ext)
	if rd == nil {
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}
	return rd, nil
}

// Supports reports whether a file name has a registered extension.
func (r *Registry) Supports(name string) bool {
	_, err := r.ForFile(name)
	return err == nil
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVReader{Name: "csv"})
	r.Register(&CSVReader{Name: "tsv", Comma: '\t'})
	r.Register(&CSVReader{Name: "txt"})
	r.Register(&XLSXReader{})
	return r
}

// importDir is the subdirectory for bank exports awaiting import.
const importDir = "import"

// processedDir is the subdirectory for imported exports.
const processedDir = "import/processed"

// Scan returns supported files in <repoRoot>/import/.
func Scan(repoRoot string, reg *Registry) ([]FileInfo, error) {
	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !reg.Supports(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
