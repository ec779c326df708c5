package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/apdesk/invoicelines/internal/common"
)

// Source is the PDF-reading collaborator: given a page index it returns
// either the digital text layer or a rendered page image for OCR. Pages are
// zero-indexed.
type Source interface {
	PageCount() int
	// PageText returns the digital text layer for a page; it may be empty for
	// scanned documents.
	PageText(ctx context.Context, page int) (string, error)
	// RenderPage rasterizes a page to a PNG at the given scale factor and
	// returns its path plus a cleanup func for the temp file.
	RenderPage(ctx context.Context, page int, scale float64) (string, func(), error)
}

// Runner mirrors ocr.Runner so the poppler commands can be stubbed in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// Poppler reads pages through the poppler-utils binaries: pdfinfo for the
// page count, pdftotext for the digital layer, pdftoppm for rasterization.
type Poppler struct {
	cfg    common.PDFConfig
	path   string
	pages  int
	runner Runner
	logger *slog.Logger
}

var rePageCount = regexp.MustCompile(`(?m)^Pages:\s+(\d+)\s*$`)

// Open validates the document and reads its page count. A document pdfinfo
// cannot parse aborts the whole run.
func Open(ctx context.Context, cfg common.PDFConfig, runner Runner, path string, logger *slog.Logger) (*Poppler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdfinfo == "" {
		cfg.Pdfinfo = "pdfinfo"
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 150
	}

	out, _, err := runner.Run(ctx, cfg.Pdfinfo, path)
	if err != nil {
		return nil, common.NewAppError("SOURCE_OPEN", fmt.Sprintf("cannot open %s", filepath.Base(path)), common.ErrSourceOpen)
	}
	m := rePageCount.FindStringSubmatch(string(out))
	if m == nil {
		return nil, common.NewAppError("SOURCE_OPEN", "pdfinfo reported no page count", common.ErrSourceOpen)
	}
	pages, _ := strconv.Atoi(m[1])

	return &Poppler{cfg: cfg, path: path, pages: pages, runner: runner, logger: logger}, nil
}

func (p *Poppler) PageCount() int { return p.pages }

func (p *Poppler) PageText(ctx context.Context, page int) (string, error) {
	n := strconv.Itoa(page + 1)
	// pdftotext -f N -l N -enc UTF-8 -eol unix <path> -
	out, errb, err := p.runner.Run(ctx, p.cfg.Pdftotext,
		"-f", n, "-l", n, "-enc", "UTF-8", "-eol", "unix", p.path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext page %d: %w (%s)", page+1, err, strings.TrimSpace(string(errb)))
	}
	return string(out), nil
}

func (p *Poppler) RenderPage(ctx context.Context, page int, scale float64) (string, func(), error) {
	if scale <= 0 {
		scale = 1
	}
	tmpDir, err := os.MkdirTemp("", "il-page-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	n := strconv.Itoa(page + 1)
	dpi := strconv.Itoa(int(float64(p.cfg.DPI) * scale))
	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f N -l N -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := p.runner.Run(ctx, p.cfg.Pdftoppm,
		"-f", n, "-l", n, "-r", dpi, "-png", p.path, prefix)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("pdftoppm page %d: %w (%s)", page+1, err, strings.TrimSpace(string(errb)))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		cleanup()
		return "", nil, fmt.Errorf("pdftoppm produced no image for page %d", page+1)
	}
	return matches[0], cleanup, nil
}
