package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"

	"github.com/bitrise-io/go-utils/urlutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/retryhttp"
	"github.com/hashicorp/go-retryablehttp"
)

// ClientAPI ...
type ClientAPI interface {
	CreateReport(params CreateReportParameters) (CreateReportResponse, error)
	UploadAsset(url, path, contentType string) error
	FinishReport(identifier string, allAssetsUploaded bool) error
}

// HTTPClient ...
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TestReportClient talks to the HTML report endpoints of a build.
type TestReportClient struct {
	logger       log.Logger
	httpClient   HTTPClient
	uploadClient *retryablehttp.Client
	buildURL     string
	authToken    string
}

// NewTestReportClient ...
func NewTestReportClient(buildURL, authToken string, logger log.Logger) *TestReportClient {
	retryClient := retryhttp.NewClient(logger)

	return &TestReportClient{
		logger:       logger,
		httpClient:   retryClient.StandardClient(),
		uploadClient: retryClient,
		buildURL:     buildURL,
		authToken:    authToken,
	}
}

// CreateReport ...
func (t *TestReportClient) CreateReport(params CreateReportParameters) (CreateReportResponse, error) {
	url, err := urlutil.Join(t.buildURL, "html_reports.json")
	if err != nil {
		return CreateReportResponse{}, err
	}

	body, err := json.Marshal(params)
	if err != nil {
		return CreateReportResponse{}, err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return CreateReportResponse{}, err
	}

	respBody, err := t.perform(req)
	if err != nil {
		return CreateReportResponse{}, err
	}

	var response CreateReportResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return CreateReportResponse{}, fmt.Errorf("failed to parse create report response: %w", err)
	}

	return response, nil
}

// UploadAsset streams the file at path to the pre-signed upload url.
func (t *TestReportClient) UploadAsset(url, path, contentType string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open asset (%s): %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			t.logger.Warnf("Failed to close asset: %s", err)
		}
	}()

	// Content length is part of the signature of pre-signed urls
	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file info for %s: %w", path, err)
	}

	req, err := retryablehttp.NewRequest(http.MethodPut, url, file)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.ContentLength = fileInfo.Size()

	resp, err := t.uploadClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload asset (%s): %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.logger.Warnf("Failed to close response body: %s", err)
		}
	}()

	if resp.StatusCode < 200 || 299 < resp.StatusCode {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.logger.Warnf("Failed to read response: %s", err)
		}
		return fmt.Errorf("failed to upload asset (%s): status code %d, response: %s", path, resp.StatusCode, body)
	}

	return nil
}

// FinishReport ...
func (t *TestReportClient) FinishReport(identifier string, allAssetsUploaded bool) error {
	url, err := urlutil.Join(t.buildURL, "html_reports", identifier+".json")
	if err != nil {
		return err
	}

	type parameters struct {
		Uploaded bool `json:"is_uploaded"`
	}
	params := parameters{Uploaded: allAssetsUploaded}

	body, err := json.Marshal(params)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPatch, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	_, err = t.perform(req)
	return err
}

func (t *TestReportClient) perform(request *http.Request) ([]byte, error) {
	request.Header.Set("Content-Type", "application/json; charset=UTF-8")
	// Header.Set canonizes the keys, so we need to set the token this way.
	request.Header["BUILD_API_TOKEN"] = []string{t.authToken}

	dump, err := httputil.DumpRequest(request, false)
	if err != nil {
		t.logger.Warnf("Request dump failed: %s", err)
	} else {
		t.logger.Debugf("Request dump: %s", string(dump))
	}

	resp, err := t.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.logger.Warnf("Failed to close response body: %s", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	t.logger.Debugf("Response (%d): %s", resp.StatusCode, string(body))

	if resp.StatusCode >= 300 || resp.StatusCode < 200 {
		message, err := parseErrorMessage(body)
		if err != nil {
			t.logger.Warnf("Failed to parse error message from the response: %s", err)
		}

		return nil, fmt.Errorf("request to %s failed: status code should be 2xx (%d): %s", request.URL, resp.StatusCode, message)
	}

	return body, nil
}

func parseErrorMessage(body []byte) (string, error) {
	type errorResponse struct {
		Message string `json:"error_msg"`
	}

	var response errorResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}

	return response.Message, nil
}
