package upload

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/sliceutil"
)

const suiteReportPrefix = "SuiteResults_"

var ignoredFileNames = []string{".DS_Store", "Thumbs.db"}

func collectReport(dir, title string) (Report, error) {
	report := Report{Title: title}
	type suiteReport struct {
		asset   Asset
		modTime time.Time
	}
	var suiteReports []suiteReport

	fn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || sliceutil.IsStringInSlice(d.Name(), ignoredFileNames) {
			return nil
		}

		relativePath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		asset := Asset{
			Path:         path,
			RelativePath: filepath.ToSlash(relativePath),
			FileSize:     info.Size(),
			ContentType:  detectContentType(path),
		}
		report.Assets = append(report.Assets, asset)

		if asset.RelativePath == d.Name() && strings.HasPrefix(d.Name(), suiteReportPrefix) && filepath.Ext(d.Name()) == ".html" {
			suiteReports = append(suiteReports, suiteReport{asset: asset, modTime: info.ModTime()})
		}

		return nil
	}
	if err := filepath.WalkDir(dir, fn); err != nil {
		return Report{}, fmt.Errorf("failed to collect report files from %s: %w", dir, err)
	}

	if !report.HasIndex() && len(suiteReports) > 0 {
		// The most recently written suite report becomes the entry page.
		sort.SliceStable(suiteReports, func(i, j int) bool {
			if suiteReports[i].modTime.Equal(suiteReports[j].modTime) {
				return suiteReports[i].asset.RelativePath < suiteReports[j].asset.RelativePath
			}
			return suiteReports[i].modTime.Before(suiteReports[j].modTime)
		})
		index := suiteReports[len(suiteReports)-1].asset
		index.RelativePath = IndexName
		report.Assets = append(report.Assets, index)
	}

	return report, nil
}

func detectContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	}

	fallbackType := "application/octet-stream"

	file, err := os.Open(path)
	if err != nil {
		return fallbackType
	}
	defer func() {
		_ = file.Close()
	}()

	// At most the first 512 bytes are considered by the sniffer
	buff := make([]byte, 512)
	bytesRead, err := file.Read(buff)
	if err != nil && err != io.EOF {
		return fallbackType
	}

	return http.DetectContentType(buff[:bytesRead])
}
