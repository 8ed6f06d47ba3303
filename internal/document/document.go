// Package document loads source files into the in-memory handles the
// extraction pipeline works on, and enforces page-scope boundaries on
// PDFs before they reach the model.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/freightops/invoice-audit/constants"
	"github.com/freightops/invoice-audit/internal/llm"
)

// ReadError means the input file could not be loaded before any model
// call was made. It is scoped to one document and never aborts a batch.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read document %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Load reads a file into a Document. The extension must be on the
// allow-list in constants.AllowedExtensions.
func Load(path string) (llm.Document, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return llm.Document{}, &ReadError{Path: path, Err: fmt.Errorf("unsupported extension %q", ext)}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return llm.Document{}, &ReadError{Path: path, Err: err}
	}
	if len(b) == 0 {
		return llm.Document{}, &ReadError{Path: path, Err: fmt.Errorf("empty file")}
	}
	return llm.Document{
		Filename:    filepath.Base(path),
		ContentType: constants.ContentTypeForExt(ext),
		Bytes:       b,
	}, nil
}

// ScanDirectory walks root and returns the candidate document paths in
// deterministic order. Hidden files and directories are skipped when
// skipHidden is set; non-matching extensions are ignored silently.
func ScanDirectory(root string, skipHidden bool) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("root path is required")
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if skipHidden && strings.HasPrefix(filepath.Base(path), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return paths, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// HashHex returns the SHA-256 of the document content, for log
// correlation across retries of the same file.
func HashHex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
