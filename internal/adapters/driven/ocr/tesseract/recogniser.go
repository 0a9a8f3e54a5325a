package tesseract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
)

// BinaryName is the tesseract executable.
const BinaryName = "tesseract"

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "eng"

// ErrTesseractNotFound indicates tesseract is not installed.
var ErrTesseractNotFound = errors.New("tesseract not found in PATH")

// Ensure Recogniser implements the interface.
var _ driven.TextRecogniser = (*Recogniser)(nil)

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

// Recogniser runs tesseract on image files.
type Recogniser struct {
	runner   CommandRunner
	language string
}

// New creates a recogniser for the installed tesseract binary.
func New(language string) (*Recogniser, error) {
	if _, err := exec.LookPath(BinaryName); err != nil {
		return nil, ErrTesseractNotFound
	}
	return NewWithRunner(execRunner{}, language), nil
}

// NewWithRunner creates a recogniser with a custom command runner.
func NewWithRunner(runner CommandRunner, language string) *Recogniser {
	if language == "" {
		language = DefaultLanguage
	}
	return &Recogniser{runner: runner, language: language}
}

// Recognise returns the text tesseract finds in the image at path.
func (r *Recogniser) Recognise(ctx context.Context, path string) (string, error) {
	out, err := r.runner.Run(ctx, BinaryName, path, "stdout", "-l", r.language)
	if err != nil {
		return "", fmt.Errorf("tesseract %s: %w", path, err)
	}
	return string(out), nil
}

// InstallInstructions returns how to install tesseract on common platforms.
func InstallInstructions() string {
	return `tesseract enables OCR of image text:
  macOS:          brew install tesseract
  Debian/Ubuntu:  apt install tesseract-ocr`
}
