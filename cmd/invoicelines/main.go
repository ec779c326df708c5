package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/apdesk/invoicelines/internal/common"
	"github.com/apdesk/invoicelines/internal/export"
	"github.com/apdesk/invoicelines/internal/invoice"
	"github.com/apdesk/invoicelines/internal/ocr"
	"github.com/apdesk/invoicelines/internal/pdf"
	"github.com/apdesk/invoicelines/internal/pipeline"
)

var (
	flagOut         string
	flagOptionsFile string
	flagLayout      string
	flagExclDraft   bool
	flagForceOCR    bool
	flagMinTextLen  int
	flagCurrency    string
	flagPreview     bool
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:   "invoicelines",
		Short: "Convert invoice PDFs or pasted invoice text into XLSX line-item rows",
		Long: `invoicelines extracts structured invoice records (header fields, line
items, totals) from digital or scanned invoice PDFs and writes one
spreadsheet row per line item.`,
		SilenceUsage: true,
	}
	root.AddCommand(newConvertCmd(logger), newTextCmd(logger))

	if err := root.Execute(); err != nil {
		if errors.Is(err, common.ErrNoLineItems) {
			fmt.Fprintln(os.Stderr, "No line items were found. Try again with --force-ocr.")
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "output .xlsx path (default: <input>_converted.xlsx)")
	cmd.Flags().StringVar(&flagOptionsFile, "options", "", "JSON options file (schema-validated)")
	cmd.Flags().StringVar(&flagLayout, "layout", "", "layout variant: standard | taxed")
	cmd.Flags().BoolVar(&flagExclDraft, "exclude-draft", false, "drop invoices whose status is Draft")
	cmd.Flags().BoolVar(&flagForceOCR, "force-ocr", false, "always OCR pages, even with a digital text layer")
	cmd.Flags().IntVar(&flagMinTextLen, "min-text-len", 0, "digital-text length below which a page is OCR'd")
	cmd.Flags().StringVar(&flagCurrency, "currency", "", "normalize the currency column to this code (e.g. SGD)")
	cmd.Flags().BoolVar(&flagPreview, "preview", false, "print the first 800 chars of extracted text")
}

func buildOptions(cmd *cobra.Command) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if flagOptionsFile != "" {
		var err error
		if opts, err = pipeline.LoadOptionsFile(flagOptionsFile); err != nil {
			return opts, err
		}
	}
	if cmd.Flags().Changed("layout") {
		layout, err := invoice.ParseLayout(flagLayout)
		if err != nil {
			return opts, err
		}
		opts.Layout = layout
	}
	if cmd.Flags().Changed("exclude-draft") {
		opts.ExcludeDraftInvoices = flagExclDraft
	}
	if cmd.Flags().Changed("force-ocr") {
		opts.ForceOCR = flagForceOCR
	}
	if cmd.Flags().Changed("min-text-len") {
		opts.MinDigitalTextLen = flagMinTextLen
	}
	if cmd.Flags().Changed("currency") {
		opts.NormalizeCurrencyTo = flagCurrency
	}
	return opts, nil
}

func newConvertCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <invoice.pdf>",
		Short: "Extract line items from an invoice PDF and write an XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(cmd)
			if err != nil {
				return err
			}
			cfg := common.LoadConfig()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			runner := ocr.ExecRunner{}
			src, err := pdf.Open(ctx, cfg.PDF, runner, args[0], logger)
			if err != nil {
				return err
			}

			engine := ocr.NewTesseract(cfg.OCR, logger, func(status string, fraction float64) {
				fmt.Fprintf(os.Stderr, "\r%s %.0f%%", status, fraction*100)
			})

			p := pipeline.New(logger, engine)
			res, err := p.Run(ctx, src, opts)
			if err != nil {
				return err
			}
			return writeResult(logger, res, opts, outPath(args[0]))
		},
	}
	addRunFlags(cmd)
	return cmd
}

func newTextCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text [pasted.txt]",
		Short: "Extract line items from pasted invoice text (file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(cmd)
			if err != nil {
				return err
			}

			var data []byte
			name := "pasted_text"
			if len(args) == 1 {
				if data, err = os.ReadFile(args[0]); err != nil {
					return err
				}
				name = args[0]
			} else if data, err = readAll(os.Stdin); err != nil {
				return err
			}
			if strings.TrimSpace(string(data)) == "" {
				return common.NewAppError("EMPTY_INPUT", "no text to convert", common.ErrInvalidInput)
			}

			p := pipeline.New(logger, nil)
			res, err := p.RunText(cmd.Context(), string(data), opts)
			if err != nil {
				return err
			}
			return writeResult(logger, res, opts, outPath(name))
		},
	}
	addRunFlags(cmd)
	return cmd
}

func writeResult(logger *slog.Logger, res pipeline.Result, opts pipeline.Options, defaultOut string) error {
	if flagPreview {
		preview := res.RawText
		if len(preview) > 800 {
			preview = preview[:800] + "…"
		}
		fmt.Fprintln(os.Stderr, preview)
	}

	out := flagOut
	if out == "" {
		out = defaultOut
	}
	svc := export.NewService(logger)
	buf, err := svc.WriteWorkbook(res.Headers, res.Rows, opts.Layout)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("Parsed %d line item row(s) across %d invoice(s) -> %s\n", len(res.Rows), res.Invoices, out)
	return nil
}

func outPath(input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return base + "_converted.xlsx"
}

func readAll(f *os.File) ([]byte, error) {
	return io.ReadAll(f)
}
