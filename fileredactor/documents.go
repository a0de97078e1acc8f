package fileredactor

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bitrise-io/go-utils/v2/pathutil"
)

var documentExtensions = []string{".html", ".htm", ".txt", ".xml"}

// DocumentCollector lists the text documents of a report directory.
type DocumentCollector interface {
	CollectDocuments(dir string) ([]string, error)
}

type documentCollector struct {
	pathModifier pathutil.PathModifier
	pathChecker  pathutil.PathChecker
}

// NewDocumentCollector ...
func NewDocumentCollector(modifier pathutil.PathModifier, checker pathutil.PathChecker) DocumentCollector {
	return documentCollector{
		pathModifier: modifier,
		pathChecker:  checker,
	}
}

// CollectDocuments returns the absolute paths of the redactable documents under dir, sorted.
// Binary resources such as screenshots are left out.
func (d documentCollector) CollectDocuments(dir string) ([]string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("no report directory provided")
	}

	absDir, err := d.pathModifier.AbsPath(dir)
	if err != nil {
		return nil, err
	}

	isDir, err := d.pathChecker.IsDirExists(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to check if path (%s) is a directory: %w", absDir, err)
	}
	if !isDir {
		return nil, fmt.Errorf("report directory (%s) does not exist", absDir)
	}

	var documents []string
	if err := filepath.WalkDir(absDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !isDocument(entry.Name()) {
			return nil
		}
		documents = append(documents, path)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to list documents of %s: %w", absDir, err)
	}

	sort.Strings(documents)

	return documents, nil
}

func isDocument(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, documentExt := range documentExtensions {
		if ext == documentExt {
			return true
		}
	}
	return false
}
