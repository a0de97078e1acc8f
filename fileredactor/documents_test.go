package fileredactor

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Itsnoby/NUnitReporter-stub/mocks"
)

func Test_CollectDocuments(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"SuiteResults_01-March-2024_10-00-00.000.html",
		"tests/LoginTests_01-March-2024_10-00-00.000.html",
		"res/screenshot1.png",
		"res/notes.TXT",
	} {
		pth := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(pth), 0700))
		require.NoError(t, os.WriteFile(pth, []byte("content"), 0600))
	}

	collector := NewDocumentCollector(pathutil.NewPathModifier(), pathutil.NewPathChecker())
	documents, err := collector.CollectDocuments(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "SuiteResults_01-March-2024_10-00-00.000.html"),
		filepath.Join(dir, "res/notes.TXT"),
		filepath.Join(dir, "tests/LoginTests_01-March-2024_10-00-00.000.html"),
	}, documents)
}

func Test_CollectDocuments_Errors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		setup     func(modifier *mocks.PathModifier, checker *mocks.PathChecker)
		outputErr string
	}{
		{
			name:      "Empty input",
			input:     "   ",
			outputErr: "no report directory provided",
		},
		{
			name:  "Invalid path",
			input: "reports",
			setup: func(modifier *mocks.PathModifier, checker *mocks.PathChecker) {
				modifier.On("AbsPath", "reports").Return("", fmt.Errorf("no home directory"))
			},
			outputErr: "no home directory",
		},
		{
			name:  "Check fails",
			input: "reports",
			setup: func(modifier *mocks.PathModifier, checker *mocks.PathChecker) {
				modifier.On("AbsPath", "reports").Return("/abs/reports", nil)
				checker.On("IsDirExists", "/abs/reports").Return(false, fmt.Errorf("permission denied"))
			},
			outputErr: "failed to check if path (/abs/reports) is a directory: permission denied",
		},
		{
			name:  "Missing directory",
			input: "reports",
			setup: func(modifier *mocks.PathModifier, checker *mocks.PathChecker) {
				modifier.On("AbsPath", "reports").Return("/abs/reports", nil)
				checker.On("IsDirExists", "/abs/reports").Return(false, nil)
			},
			outputErr: "report directory (/abs/reports) does not exist",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			modifier := mocks.NewPathModifier(t)
			checker := mocks.NewPathChecker(t)
			if tt.setup != nil {
				tt.setup(modifier, checker)
			}

			documents, err := NewDocumentCollector(modifier, checker).CollectDocuments(tt.input)
			assert.EqualError(t, err, tt.outputErr)
			assert.Nil(t, documents)
		})
	}
}
