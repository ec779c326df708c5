package ocr

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner abstracts the external binaries the extractor shells out to (the
// poppler tools and tesseract), so tests can substitute canned output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// maxLoggedStderr caps how much tool stderr ends up in a log record; tesseract
// in particular can be chatty about missing language packs.
const maxLoggedStderr = 8 << 10

// ExecRunner invokes the real binaries. One instance serves both the PDF
// source and the OCR engine over a run; it holds no state, so sharing is free.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	attrs := []any{
		"cmd", name,
		"args", strings.Join(args, " "),
		"elapsed_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		slog.Error("exec.run.failed", append(attrs,
			"error", err,
			"stderr", truncate(stderr.String(), maxLoggedStderr))...)
		return stdout.Bytes(), stderr.Bytes(), err
	}
	slog.Debug("exec.run.ok", append(attrs,
		"stdout_bytes", stdout.Len(),
		"stderr_bytes", stderr.Len())...)
	return stdout.Bytes(), stderr.Bytes(), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
