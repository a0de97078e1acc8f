package fileredactor

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/redactwriter"
)

// FileRedactor replaces the given secrets in the given files in place.
type FileRedactor interface {
	RedactFiles(filePaths []string, secrets []string) error
}

type fileRedactor struct {
	fileManager fileutil.FileManager
	logger      log.Logger
}

// NewFileRedactor ...
func NewFileRedactor(manager fileutil.FileManager, logger log.Logger) FileRedactor {
	return fileRedactor{
		fileManager: manager,
		logger:      logger,
	}
}

// ParseSecrets splits a newline separated secret list, dropping blank lines.
func ParseSecrets(input string) []string {
	var secrets []string
	for _, line := range strings.Split(input, "\n") {
		if secret := strings.TrimSpace(line); secret != "" {
			secrets = append(secrets, secret)
		}
	}
	return secrets
}

var escapeTemplate = template.Must(template.New("escape").Parse("{{.}}"))

// HTMLSecrets extends secrets with the escaped forms they take in documents rendered by html/template.
func HTMLSecrets(secrets []string) []string {
	seen := map[string]bool{}
	var all []string
	add := func(secret string) {
		if secret == "" || seen[secret] {
			return
		}
		seen[secret] = true
		all = append(all, secret)
	}

	for _, secret := range secrets {
		add(secret)
		add(template.HTMLEscapeString(secret))

		var buf bytes.Buffer
		if err := escapeTemplate.Execute(&buf, secret); err == nil {
			add(buf.String())
		}
	}

	return all
}

func (f fileRedactor) RedactFiles(filePaths []string, secrets []string) error {
	if len(secrets) == 0 {
		return nil
	}

	for _, path := range filePaths {
		f.logger.Debugf("Redacting %s", path)
		if err := f.redactFile(path, secrets); err != nil {
			return fmt.Errorf("failed to redact file (%s): %w", path, err)
		}
	}

	return nil
}

func (f fileRedactor) redactFile(path string, secrets []string) error {
	source, err := f.fileManager.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file for redaction (%s): %w", path, err)
	}
	defer func() {
		if err := source.Close(); err != nil {
			f.logger.Warnf("Failed to close file: %s", err)
		}
	}()

	destination, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.redacted")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for redaction: %w", err)
	}
	tmpPath := destination.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			f.logger.Warnf("Failed to remove temporary file: %s", err)
		}
	}()

	redactWriter := redactwriter.New(secrets, destination, f.logger)
	if _, err := io.Copy(redactWriter, source); err != nil {
		_ = destination.Close()
		return fmt.Errorf("failed to redact secrets: %w", err)
	}

	if err := redactWriter.Close(); err != nil {
		_ = destination.Close()
		return fmt.Errorf("failed to close redact writer: %w", err)
	}

	if err := destination.Close(); err != nil {
		return fmt.Errorf("failed to close redacted file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to overwrite old file (%s) with redacted file: %w", path, err)
	}

	return nil
}
