package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/apdesk/invoicelines/internal/common"
	"github.com/apdesk/invoicelines/internal/invoice"
)

// Options are the recognized per-run settings.
type Options struct {
	Layout invoice.Layout

	// ExcludeDraftInvoices filters rows whose invoice status is "draft".
	ExcludeDraftInvoices bool

	// ForceOCR bypasses the digital text layer even when present.
	ForceOCR bool

	// MinDigitalTextLen is the digital-text length below which a page falls
	// back to OCR.
	MinDigitalTextLen int

	// OCRScale is the rasterization scale factor for OCR'd pages.
	OCRScale float64

	// NormalizeCurrencyTo optionally rewrites the currency column to a fixed
	// code on every row.
	NormalizeCurrencyTo string
}

// DefaultOptions mirror the source documents' tuning.
func DefaultOptions() Options {
	return Options{
		Layout:            invoice.LayoutStandard,
		MinDigitalTextLen: 20,
		OCRScale:          2,
	}
}

const optionsSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "layout":                 {"type": "string", "enum": ["standard", "taxed"]},
    "exclude_draft_invoices": {"type": "boolean"},
    "force_ocr":              {"type": "boolean"},
    "min_digital_text_len":   {"type": "integer", "minimum": 0},
    "ocr_scale":              {"type": "number", "exclusiveMinimum": 0},
    "normalize_currency_to":  {"type": "string", "pattern": "^[A-Z]{3}$"}
  }
}`

type optionsFile struct {
	Layout               *string  `json:"layout"`
	ExcludeDraftInvoices *bool    `json:"exclude_draft_invoices"`
	ForceOCR             *bool    `json:"force_ocr"`
	MinDigitalTextLen    *int     `json:"min_digital_text_len"`
	OCRScale             *float64 `json:"ocr_scale"`
	NormalizeCurrencyTo  *string  `json:"normalize_currency_to"`
}

// LoadOptionsFile reads a JSON options file, validates it against the
// embedded schema, and overlays it onto the defaults. Absent keys keep their
// defaults.
func LoadOptionsFile(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, common.WrapError(err, "read options file")
	}

	sch, err := jsonschema.CompileString("options.schema.json", optionsSchema)
	if err != nil {
		return opts, common.WrapError(err, "compile options schema")
	}
	var doc any
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return opts, common.NewAppError("OPTIONS_INVALID", "options file is not valid JSON", err)
	}
	if err := sch.Validate(doc); err != nil {
		return opts, common.NewAppError("OPTIONS_INVALID", "options file rejected by schema", err)
	}

	var of optionsFile
	if err := json.Unmarshal(data, &of); err != nil {
		return opts, common.WrapError(err, "decode options file")
	}
	if of.Layout != nil {
		layout, err := invoice.ParseLayout(*of.Layout)
		if err != nil {
			return opts, fmt.Errorf("options file: %w", err)
		}
		opts.Layout = layout
	}
	if of.ExcludeDraftInvoices != nil {
		opts.ExcludeDraftInvoices = *of.ExcludeDraftInvoices
	}
	if of.ForceOCR != nil {
		opts.ForceOCR = *of.ForceOCR
	}
	if of.MinDigitalTextLen != nil {
		opts.MinDigitalTextLen = *of.MinDigitalTextLen
	}
	if of.OCRScale != nil {
		opts.OCRScale = *of.OCRScale
	}
	if of.NormalizeCurrencyTo != nil {
		opts.NormalizeCurrencyTo = *of.NormalizeCurrencyTo
	}
	return opts, nil
}
