package common

import (
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	PDF PDFConfig
	OCR OCRConfig
}

// PDFConfig holds the poppler binaries used to read PDF pages.
type PDFConfig struct {
	Pdfinfo   string
	Pdftotext string
	Pdftoppm  string
	DPI       int // rasterization DPI at scale 1.0
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Tesseract   string
	Language    string
	TessdataDir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		PDF: PDFConfig{
			Pdfinfo:   getEnv("PDFINFO", "pdfinfo"),
			Pdftotext: getEnv("PDFTOTEXT", "pdftotext"),
			Pdftoppm:  getEnv("PDFTOPPM", "pdftoppm"),
			DPI:       getEnvAsInt("PDF_DPI", 150),
		},
		OCR: OCRConfig{
			Tesseract:   getEnv("TESSERACT", "tesseract"),
			Language:    getEnv("TESSERACT_LANG", "eng"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
