package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/iptrace/internal/core/domain"
)

// ToolName is the poppler binary used by ToolReader.
const ToolName = "pdftotext"

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Ensure ToolReader implements the interface.
var _ PageReader = (*ToolReader)(nil)

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

// ToolReader extracts page text by running pdftotext.
type ToolReader struct {
	runner CommandRunner
}

// NewToolReader creates a reader that runs the installed pdftotext.
func NewToolReader() (*ToolReader, error) {
	if err := CheckAvailable(); err != nil {
		return nil, err
	}
	return NewToolReaderWithRunner(execRunner{}), nil
}

// NewToolReaderWithRunner creates a reader with a custom command runner.
func NewToolReaderWithRunner(runner CommandRunner) *ToolReader {
	return &ToolReader{runner: runner}
}

// ReadPages runs pdftotext on path and splits its output into pages.
// pdftotext ends every page with a form feed.
func (r *ToolReader) ReadPages(ctx context.Context, path string) ([]string, error) {
	out, err := r.runner.Run(ctx, ToolName, "-enc", "UTF-8", "-layout", path, "-")
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnreadable, ToolName, err)
	}

	pages := strings.Split(string(out), "\f")
	if n := len(pages); n > 0 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages, nil
}

// CheckAvailable reports whether pdftotext can be found in PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(ToolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns how to install pdftotext on common platforms.
func InstallInstructions() string {
	return `pdftotext is provided by poppler:
  macOS:          brew install poppler
  Debian/Ubuntu:  apt install poppler-utils
  Fedora:         dnf install poppler-utils`
}
