// Package testasset classifies the attachment files found next to test results.
package testasset

import (
	"path/filepath"
	"slices"
	"strings"
)

// AssetTypes are the attachment extensions picked up from test directories.
var AssetTypes = []string{".jpg", ".jpeg", ".png", ".gif", ".txt", ".log", ".mp4", ".webm", ".ogg"}

// ImageTypes are the attachment extensions embedded into the HTML report as images.
var ImageTypes = []string{".jpg", ".jpeg", ".png", ".gif"}

// IsSupportedAssetType ...
func IsSupportedAssetType(fileName string) bool {
	return slices.Contains(AssetTypes, strings.ToLower(filepath.Ext(fileName)))
}

// IsImage ...
func IsImage(fileName string) bool {
	return slices.Contains(ImageTypes, strings.ToLower(filepath.Ext(fileName)))
}

// BelongsTo reports whether the attachment file name mentions the test case name,
// for example CanLogin_failure.png for the CanLogin test.
func BelongsTo(fileName, testName string) bool {
	testName = strings.TrimSuffix(strings.TrimSpace(testName), "()")
	if testName == "" {
		return false
	}
	return strings.Contains(strings.ToLower(filepath.Base(fileName)), strings.ToLower(testName))
}
