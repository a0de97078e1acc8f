package deployment

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/ziputil"
	"github.com/docker/go-units"
)

// ArchiveDirFunction ...
type ArchiveDirFunction func(sourceDirPath, outputPath string, isContentOnly bool) error

// IsDirFunction ...
type IsDirFunction func(path string) (bool, error)

// DefaultIsDirFunction ...
func DefaultIsDirFunction(path string) (bool, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	return fileInfo.IsDir(), nil
}

// DefaultArchiveDirFunction zips the content of the source directory.
func DefaultArchiveDirFunction(sourceDirPath, outputPath string, isContentOnly bool) error {
	return ziputil.ZipDir(sourceDirPath, outputPath, isContentOnly)
}

// ArchiveResult ...
type ArchiveResult struct {
	Path      string
	Size      int64
	Unchanged bool
}

// Archiver packs a report directory into a zip archive.
type Archiver struct {
	isDirFunction      IsDirFunction
	archiveDirFunction ArchiveDirFunction
	comparator         ZipComparator
	logger             log.Logger
}

// NewArchiver ...
func NewArchiver(isDirFunction IsDirFunction, archiveDirFunction ArchiveDirFunction, comparator ZipComparator, logger log.Logger) Archiver {
	return Archiver{
		isDirFunction:      isDirFunction,
		archiveDirFunction: archiveDirFunction,
		comparator:         comparator,
		logger:             logger,
	}
}

// NewDefaultArchiver ...
func NewDefaultArchiver(logger log.Logger) Archiver {
	return NewArchiver(DefaultIsDirFunction, DefaultArchiveDirFunction, NewZipComparator(DefaultReadZipFunction), logger)
}

// ArchiveReport zips reportDir into outputPath.
// An existing archive with the same entries is kept and reported as unchanged.
func (a Archiver) ArchiveReport(reportDir, outputPath string) (ArchiveResult, error) {
	isDir, err := a.isDirFunction(reportDir)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("failed to check report directory (%s): %w", reportDir, err)
	}
	if !isDir {
		return ArchiveResult{}, fmt.Errorf("report path (%s) is not a directory", reportDir)
	}

	if rel, err := filepath.Rel(reportDir, outputPath); err == nil && filepath.IsLocal(rel) {
		return ArchiveResult{}, fmt.Errorf("archive (%s) can not be created inside the report directory", outputPath)
	}

	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		if err := a.archiveDirFunction(reportDir, outputPath, true); err != nil {
			return ArchiveResult{}, fmt.Errorf("failed to archive report directory: %w", err)
		}
		return a.result(outputPath, false)
	} else if err != nil {
		return ArchiveResult{}, err
	}

	tmpDir, err := os.MkdirTemp("", "report-archive")
	if err != nil {
		return ArchiveResult{}, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			a.logger.Warnf("Failed to remove temporary directory: %s", err)
		}
	}()

	newArchive := filepath.Join(tmpDir, filepath.Base(outputPath))
	if err := a.archiveDirFunction(reportDir, newArchive, true); err != nil {
		return ArchiveResult{}, fmt.Errorf("failed to archive report directory: %w", err)
	}

	diff, err := a.comparator.Diff(outputPath, newArchive)
	if err != nil {
		return ArchiveResult{}, err
	}
	if diff.Empty() {
		return a.result(outputPath, true)
	}
	a.logger.Debugf("Archive content changed:\n%s", diff)

	if err := moveFile(newArchive, outputPath); err != nil {
		return ArchiveResult{}, err
	}

	return a.result(outputPath, false)
}

func (a Archiver) result(pth string, unchanged bool) (ArchiveResult, error) {
	info, err := os.Stat(pth)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("failed to stat archive (%s): %w", pth, err)
	}

	a.logger.Printf("Archive: %s (%s)", pth, units.HumanSize(float64(info.Size())))

	return ArchiveResult{Path: pth, Size: info.Size(), Unchanged: unchanged}, nil
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	// The temp dir can be on a different device
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
