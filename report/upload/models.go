package upload

// IndexName is the entry document of an uploaded report.
const IndexName = "index.html"

// Report is a report directory prepared for upload.
type Report struct {
	Title  string
	Assets []Asset
}

// Asset ...
type Asset struct {
	Path         string
	RelativePath string
	FileSize     int64
	ContentType  string
}

// HasIndex ...
func (r Report) HasIndex() bool {
	for _, asset := range r.Assets {
		if asset.RelativePath == IndexName {
			return true
		}
	}
	return false
}

// Size ...
func (r Report) Size() int64 {
	var size int64
	for _, asset := range r.Assets {
		size += asset.FileSize
	}
	return size
}
