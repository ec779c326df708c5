package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/apdesk/invoicelines/internal/common"
)

// Engine recognizes text in a rendered page image. Recognition is the
// long-latency step of a run (seconds per page).
type Engine interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// Progress is an optional side channel reporting a status label and a
// fractional progress value. Correctness never depends on it.
type Progress func(status string, fraction float64)

// Tesseract shells out to the tesseract binary. The engine is a shared
// resource initialized lazily at most once per session, so repeated runs
// reuse the same verified installation.
type Tesseract struct {
	cfg      common.OCRConfig
	runner   Runner
	logger   *slog.Logger
	progress Progress

	initOnce sync.Once
	initErr  error
}

func NewTesseract(cfg common.OCRConfig, logger *slog.Logger, progress Progress) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &Tesseract{cfg: cfg, runner: ExecRunner{}, logger: logger, progress: progress}
}

// NewTesseractWithRunner is used by tests to stub the external command.
func NewTesseractWithRunner(cfg common.OCRConfig, r Runner, logger *slog.Logger) *Tesseract {
	t := NewTesseract(cfg, logger, nil)
	t.runner = r
	return t
}

// ensureInit verifies the binary once. sync.Once gates the check so
// concurrent callers cannot double-initialize.
func (t *Tesseract) ensureInit(ctx context.Context) error {
	t.initOnce.Do(func() {
		t.report("initializing ocr", 0)
		_, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, "--version")
		if err != nil {
			t.initErr = fmt.Errorf("tesseract unavailable: %w (%s)", err, truncate(string(errb), 512))
			return
		}
		t.logger.Debug("ocr.init.ok", "binary", t.cfg.Tesseract, "lang", t.cfg.Language)
	})
	return t.initErr
}

// Recognize runs OCR over one page image and returns the recognized text.
func (t *Tesseract) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := t.ensureInit(ctx); err != nil {
		return "", err
	}
	t.report("recognizing text", 0)

	args := []string{imagePath, "stdout", "-l", t.cfg.Language}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	t.report("recognizing text", 1)
	return string(out), nil
}

func (t *Tesseract) report(status string, fraction float64) {
	if t.progress != nil {
		t.progress(status, fraction)
	}
}
