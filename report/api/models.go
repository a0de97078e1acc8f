package api

// CreateReportParameters ...
type CreateReportParameters struct {
	Title  string              `json:"title"`
	Assets []CreateReportAsset `json:"assets"`
}

// CreateReportAsset ...
type CreateReportAsset struct {
	RelativePath string `json:"relative_path"`
	FileSize     int64  `json:"file_size_bytes"`
	ContentType  string `json:"content_type"`
}

// CreateReportResponse ...
type CreateReportResponse struct {
	Identifier string            `json:"id"`
	AssetURLs  []CreateReportURL `json:"assets"`
}

// CreateReportURL ...
type CreateReportURL struct {
	RelativePath string `json:"relative_path"`
	URL          string `json:"upload_url"`
}

// NewCreateReportAsset ...
func NewCreateReportAsset(relativePath string, size int64, contentType string) CreateReportAsset {
	return CreateReportAsset{
		RelativePath: relativePath,
		FileSize:     size,
		ContentType:  contentType,
	}
}

// TotalSize returns the summed size of the assets in bytes.
func (p CreateReportParameters) TotalSize() int64 {
	var size int64
	for _, asset := range p.Assets {
		size += asset.FileSize
	}
	return size
}

// UploadURLFor returns the upload url issued for the given relative path.
func (r CreateReportResponse) UploadURLFor(relativePath string) (string, bool) {
	for _, asset := range r.AssetURLs {
		if asset.RelativePath == relativePath {
			return asset.URL, true
		}
	}
	return "", false
}
