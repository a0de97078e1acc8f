// Package capture provides screenshot extensions for the reporting backends.
package capture

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitrise-io/go-utils/command"
	"github.com/bitrise-io/go-utils/errorutil"
	"github.com/bitrise-io/go-utils/pathutil"
)

// PathPlaceholder is replaced with the screenshot path in the command arguments.
// Without a placeholder the path is appended as the last argument.
const PathPlaceholder = "{path}"

// CommandCapturer captures the screen by running an external command, for example
// `screencapture -x {path}` on macOS or `import -window root {path}` on X11.
type CommandCapturer struct {
	name string
	args []string
	now  func() time.Time
}

// NewCommandCapturer parses a whitespace separated command line.
func NewCommandCapturer(commandLine string) (*CommandCapturer, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty screenshot command")
	}

	return &CommandCapturer{
		name: fields[0],
		args: fields[1:],
		now:  time.Now,
	}, nil
}

// Name ...
func (c *CommandCapturer) Name() string {
	return "screenshot command (" + c.name + ")"
}

// CaptureScreen runs the command and returns the name of the created file.
func (c *CommandCapturer) CaptureScreen(dir string) (string, error) {
	name := fmt.Sprintf("screenshot%d.png", c.now().UnixNano())
	pth := filepath.Join(dir, name)

	cmd := command.New(c.name, c.argsFor(pth)...)
	out, err := cmd.RunAndReturnTrimmedCombinedOutput()
	if err != nil {
		if errorutil.IsExitStatusError(err) {
			return "", fmt.Errorf("%s failed: %s", cmd.PrintableCommandArgs(), out)
		}
		return "", fmt.Errorf("%s failed: %w", cmd.PrintableCommandArgs(), err)
	}

	exists, err := pathutil.IsPathExists(pth)
	if err != nil {
		return "", fmt.Errorf("failed to check screenshot (%s): %w", pth, err)
	}
	if !exists {
		return "", fmt.Errorf("%s did not create %s", cmd.PrintableCommandArgs(), pth)
	}

	return name, nil
}

func (c *CommandCapturer) argsFor(pth string) []string {
	args := make([]string, 0, len(c.args)+1)
	replaced := false
	for _, arg := range c.args {
		if strings.Contains(arg, PathPlaceholder) {
			arg = strings.ReplaceAll(arg, PathPlaceholder, pth)
			replaced = true
		}
		args = append(args, arg)
	}
	if !replaced {
		args = append(args, pth)
	}
	return args
}
