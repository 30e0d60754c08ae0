package operations

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TextRecognizer extracts text from an image file.
type TextRecognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// TesseractRecognizer runs the tesseract CLI.
type TesseractRecognizer struct {
	// Binary is the executable name or path. Defaults to "tesseract".
	Binary string
}

// NewTesseractRecognizer returns a recognizer using tesseract from PATH.
func NewTesseractRecognizer() *TesseractRecognizer {
	return &TesseractRecognizer{Binary: "tesseract"}
}

// Recognize runs `tesseract <image> stdout` and returns its output.
func (r *TesseractRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	bin := r.Binary
	if bin == "" {
		bin = "tesseract"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, imagePath, "stdout")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("tesseract failed: %w", err)
		}
		return "", fmt.Errorf("tesseract failed: %w: %s", err, msg)
	}
	return stdout.String(), nil
}
