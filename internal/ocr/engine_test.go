package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/apdesk/invoicelines/internal/common"
)

type stubRunner struct {
	calls  [][]string
	output map[string]string // first arg -> stdout
	fail   bool
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	if s.fail {
		return nil, []byte("boom"), errors.New("exit status 1")
	}
	key := ""
	if len(args) > 0 {
		key = args[0]
	}
	return []byte(s.output[key]), nil, nil
}

func TestTesseractRecognize(t *testing.T) {
	r := &stubRunner{output: map[string]string{"page.png": "Invoice No: INV-1"}}
	eng := NewTesseractWithRunner(common.OCRConfig{Language: "eng"}, r, nil)

	got, err := eng.Recognize(context.Background(), "page.png")
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if got != "Invoice No: INV-1" {
		t.Errorf("text = %q", got)
	}

	// first call is the one-time init (--version), second the recognition
	if len(r.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(r.calls))
	}
	if r.calls[0][1] != "--version" {
		t.Errorf("init call = %v", r.calls[0])
	}
	if strings.Join(r.calls[1], " ") != "tesseract page.png stdout -l eng" {
		t.Errorf("recognize call = %v", r.calls[1])
	}
}

func TestTesseractInitOnce(t *testing.T) {
	r := &stubRunner{output: map[string]string{}}
	eng := NewTesseractWithRunner(common.OCRConfig{}, r, nil)

	for i := 0; i < 3; i++ {
		if _, err := eng.Recognize(context.Background(), "p.png"); err != nil {
			t.Fatalf("Recognize #%d: %v", i, err)
		}
	}
	inits := 0
	for _, c := range r.calls {
		if len(c) > 1 && c[1] == "--version" {
			inits++
		}
	}
	if inits != 1 {
		t.Errorf("init ran %d times, want exactly once", inits)
	}
}

func TestTesseractInitFailureSticks(t *testing.T) {
	r := &stubRunner{fail: true}
	eng := NewTesseractWithRunner(common.OCRConfig{}, r, nil)

	if _, err := eng.Recognize(context.Background(), "p.png"); err == nil {
		t.Fatal("expected init failure")
	}
	calls := len(r.calls)
	if _, err := eng.Recognize(context.Background(), "p.png"); err == nil {
		t.Fatal("expected cached init failure")
	}
	if len(r.calls) != calls {
		t.Errorf("failed init retried: %d calls, want %d", len(r.calls), calls)
	}
}

func TestTesseractTessdataDir(t *testing.T) {
	r := &stubRunner{output: map[string]string{}}
	eng := NewTesseractWithRunner(common.OCRConfig{TessdataDir: "/opt/tessdata"}, r, nil)
	if _, err := eng.Recognize(context.Background(), "p.png"); err != nil {
		t.Fatal(err)
	}
	last := strings.Join(r.calls[len(r.calls)-1], " ")
	if !strings.Contains(last, "--tessdata-dir /opt/tessdata") {
		t.Errorf("tessdata dir not passed: %q", last)
	}
}
