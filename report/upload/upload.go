package upload

import (
	"fmt"
	"sync"
	"time"

	"github.com/bitrise-io/go-utils/retry"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/docker/go-units"

	"github.com/Itsnoby/NUnitReporter-stub/report/api"
)

// HTMLReportUploader uploads a generated report directory as a single HTML report.
type HTMLReportUploader struct {
	client      api.ClientAPI
	logger      log.Logger
	reportDir   string
	title       string
	concurrency int
	retryWait   time.Duration
}

// NewHTMLReportUploader ...
func NewHTMLReportUploader(client api.ClientAPI, reportDir, title string, concurrency int, logger log.Logger) *HTMLReportUploader {
	if concurrency < 1 {
		concurrency = 1
	}

	return &HTMLReportUploader{
		client:      client,
		logger:      logger,
		reportDir:   reportDir,
		title:       title,
		concurrency: concurrency,
		retryWait:   5 * time.Second,
	}
}

// DeployReport collects, validates and uploads the report directory.
func (h *HTMLReportUploader) DeployReport() []error {
	report, err := collectReport(h.reportDir, h.title)
	if err != nil {
		return []error{err}
	}

	h.logger.Printf("Found report files (%d, %s):", len(report.Assets), units.HumanSize(float64(report.Size())))
	for _, asset := range report.Assets {
		h.logger.Printf("- %s", asset.RelativePath)
	}

	if !report.HasIndex() {
		return []error{fmt.Errorf("missing %s or suite report in %s", IndexName, h.reportDir)}
	}

	if err := h.uploadReport(report); err != nil {
		return []error{err}
	}

	return nil
}

func (h *HTMLReportUploader) uploadReport(report Report) error {
	h.logger.Println()
	h.logger.Printf("Uploading %s", report.Title)

	params := api.CreateReportParameters{Title: report.Title}
	for _, asset := range report.Assets {
		params.Assets = append(params.Assets, api.NewCreateReportAsset(asset.RelativePath, asset.FileSize, asset.ContentType))
	}

	serverReport, err := h.client.CreateReport(params)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	allAssetsUploaded := true
	if errs := h.uploadAssets(report.Assets, serverReport); len(errs) > 0 {
		h.logger.Warnf("Asset upload failed:")
		for _, uploadError := range errs {
			h.logger.Warnf("- %s", uploadError)
		}
		h.logger.Warnf("Html report will be marked unsuccessful as some assets could not be saved")

		allAssetsUploaded = false
	}

	return retry.Times(3).Wait(h.retryWait).Try(func(attempt uint) error {
		if attempt > 0 {
			h.logger.Warnf("%d attempt to finish the report failed", attempt)
		}
		return h.client.FinishReport(serverReport.Identifier, allAssetsUploaded)
	})
}

func (h *HTMLReportUploader) uploadAssets(assets []Asset, serverReport api.CreateReportResponse) []error {
	var (
		errs []error
		mu   sync.Mutex
		wg   sync.WaitGroup
	)
	addError := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}

	jobs := make(chan bool, h.concurrency)

	for _, item := range assets {
		wg.Add(1)

		go func(asset Asset) {
			defer wg.Done()

			jobs <- true
			defer func() {
				<-jobs
			}()

			h.logger.Debugf("Uploading %s", asset.RelativePath)

			url, ok := serverReport.UploadURLFor(asset.RelativePath)
			if !ok {
				addError(fmt.Errorf("missing upload url for %s", asset.RelativePath))
				return
			}

			if err := h.client.UploadAsset(url, asset.Path, asset.ContentType); err != nil {
				addError(err)
			}
		}(item)
	}

	wg.Wait()

	return errs
}
