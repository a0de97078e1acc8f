package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-steputils/stepconf"
	"github.com/bitrise-io/go-steputils/tools"
	"github.com/bitrise-io/go-utils/log"
	"github.com/bitrise-io/go-utils/pathutil"
	"github.com/bitrise-io/go-utils/pretty"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/fileutil"
	v2log "github.com/bitrise-io/go-utils/v2/log"
	v2pathutil "github.com/bitrise-io/go-utils/v2/pathutil"

	"github.com/Itsnoby/NUnitReporter-stub/capture"
	"github.com/Itsnoby/NUnitReporter-stub/deployment"
	"github.com/Itsnoby/NUnitReporter-stub/fileredactor"
	"github.com/Itsnoby/NUnitReporter-stub/listener"
	"github.com/Itsnoby/NUnitReporter-stub/report/api"
	"github.com/Itsnoby/NUnitReporter-stub/report/upload"
	"github.com/Itsnoby/NUnitReporter-stub/reporting"
	"github.com/Itsnoby/NUnitReporter-stub/reporting/console"
	"github.com/Itsnoby/NUnitReporter-stub/reporting/htmlreport"
	"github.com/Itsnoby/NUnitReporter-stub/reporting/tracker"
	"github.com/Itsnoby/NUnitReporter-stub/test"
)

const (
	suiteReportEnvKey = "NUNIT_REPORTER_SUITE_REPORT"
	archiveEnvKey     = "NUNIT_REPORTER_ARCHIVE"
	defaultSuiteTitle = "Test Results"
)

// Config ...
type Config struct {
	TestResultsDir      string          `env:"test_results_dir,required"`
	ReportDir           string          `env:"report_dir,required"`
	SuiteTitle          string          `env:"suite_title"`
	ScreenshotCommand   string          `env:"screenshot_command"`
	SecretsToRedact     stepconf.Secret `env:"secrets_to_redact"`
	IsCompress          bool            `env:"is_compress,opt[true,false]"`
	HTMLReportUploadURL string          `env:"html_report_upload_url"`
	BuildAPIToken       stepconf.Secret `env:"build_api_token"`
	UploadConcurrency   int             `env:"upload_concurrency,range[1..20]"`
	EnableAnalytics     bool            `env:"enable_analytics,opt[true,false]"`
	DebugMode           bool            `env:"debug_mode,opt[true,false]"`
}

func fail(format string, v ...interface{}) {
	log.Errorf(format, v...)
	os.Exit(1)
}

func main() {
	var config Config
	if err := stepconf.Parse(&config); err != nil {
		fail("Issue with input: %s", err)
	}

	stepconf.Print(config)
	fmt.Println()
	log.SetEnableDebugLog(config.DebugMode)

	logger := v2log.NewLogger()
	logger.EnableDebugLog(config.DebugMode)

	absResultsDir, err := pathutil.AbsPath(config.TestResultsDir)
	if err != nil {
		fail("Failed to expand path: %s, error: %s", config.TestResultsDir, err)
	}
	absReportDir, err := pathutil.AbsPath(config.ReportDir)
	if err != nil {
		fail("Failed to expand path: %s, error: %s", config.ReportDir, err)
	}

	log.Infof("Parsing test results")
	results, err := test.ParseTestResults(absResultsDir, logger)
	if err != nil {
		fail("Failed to parse test results: %s", err)
	}
	if len(results) == 0 {
		log.Warnf("No test results found in %s", absResultsDir)
		return
	}
	log.Printf("Found %d test results with %d tests", len(results), results.TestCount())
	log.Debugf("Test results:\n%s", pretty.Object(results))

	title := suiteTitle(config.SuiteTitle, results)
	htmlBackend := htmlreport.New(v2pathutil.NewPathModifier())

	fmt.Println()
	log.Infof("Generating report")
	reporter := reporting.New(logger)
	l := listener.New(reporter, setupReporting(config, absReportDir, title, htmlBackend, logger), logger)
	l.Describe = listener.PropertyDescriptions(results)
	listener.Replay(l, title, results)

	suiteReport := htmlBackend.LastSuiteReport()
	if suiteReport == "" {
		fail("No suite report was generated in %s", absReportDir)
	}
	log.Printf("Generated %d test documents, suite report: %s", len(htmlBackend.Documents()), suiteReport)
	log.Debugf("Reporting properties:\n%s", pretty.Object(reporter.Properties().Snapshot()))
	exports := map[string]string{suiteReportEnvKey: suiteReport}

	if err := redactReport(absReportDir, string(config.SecretsToRedact), logger); err != nil {
		fail("%s", err)
	}

	if config.IsCompress {
		fmt.Println()
		log.Infof("Archiving report")
		archivePath := filepath.Join(filepath.Dir(absReportDir), filepath.Base(absReportDir)+".zip")
		result, err := deployment.NewDefaultArchiver(logger).ArchiveReport(absReportDir, archivePath)
		if err != nil {
			fail("Failed to archive report: %s", err)
		}
		if result.Unchanged {
			log.Printf("Archive content did not change")
		}
		exports[archiveEnvKey] = result.Path
	}

	if config.HTMLReportUploadURL != "" {
		fmt.Println()
		log.Infof("Uploading report")
		client := api.NewTestReportClient(config.HTMLReportUploadURL, string(config.BuildAPIToken), logger)
		uploader := upload.NewHTMLReportUploader(client, absReportDir, title, config.UploadConcurrency, logger)
		if errs := uploader.DeployReport(); len(errs) > 0 {
			for _, err := range errs {
				log.Warnf("- %s", err)
			}
			fail("Failed to upload report")
		}
	}

	fmt.Println()
	for _, key := range []string{suiteReportEnvKey, archiveEnvKey} {
		value, ok := exports[key]
		if !ok {
			continue
		}
		if err := tools.ExportEnvironmentWithEnvman(key, value); err != nil {
			fail("Failed to export %s: %s", key, err)
		}
		log.Printf("The %s is now available in the Environment Variable: %s (value: %s)", filepath.Base(value), key, value)
	}

	fmt.Println()
	log.Donef("Success")
}

func suiteTitle(configured string, results test.Results) string {
	if configured != "" {
		return configured
	}
	for _, result := range results {
		if result.StepInfo.Title != "" {
			return result.StepInfo.Title
		}
	}
	return defaultSuiteTitle
}

func setupReporting(config Config, reportDir, title string, htmlBackend *htmlreport.Backend, logger v2log.Logger) listener.SetupFunc {
	return func(reporter *reporting.Reporter) error {
		reporter.SetProperty(reporting.WorkingDirectory, reportDir)
		reporter.SetProperty(reporting.SuiteTitle, title)

		reporter.AddBackend(console.New(logger))
		reporter.AddBackend(htmlBackend)

		if config.EnableAnalytics {
			reporter.AddBackend(tracker.New(tracker.NewDefaultTracker(env.NewRepository(), logger)))
		}

		if config.ScreenshotCommand != "" {
			capturer, err := capture.NewCommandCapturer(config.ScreenshotCommand)
			if err != nil {
				return fmt.Errorf("invalid screenshot command: %w", err)
			}
			reporter.AddExtension(capturer)
		}

		return nil
	}
}

func redactReport(reportDir, secretsInput string, logger v2log.Logger) error {
	secrets := fileredactor.HTMLSecrets(fileredactor.ParseSecrets(secretsInput))
	if len(secrets) == 0 {
		return nil
	}

	collector := fileredactor.NewDocumentCollector(v2pathutil.NewPathModifier(), v2pathutil.NewPathChecker())
	documents, err := collector.CollectDocuments(reportDir)
	if err != nil {
		return fmt.Errorf("failed to collect report documents: %w", err)
	}

	log.Printf("Redacting secrets from %d documents", len(documents))

	redactor := fileredactor.NewFileRedactor(fileutil.NewFileManager(), logger)
	if err := redactor.RedactFiles(documents, secrets); err != nil {
		return err
	}

	return nil
}
