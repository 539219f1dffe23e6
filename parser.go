package darf

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Config carries the tunables of the extraction pipeline. The zero value
// selects the defaults, so Parser instances share no ambient state and the
// engine is safe to call from concurrent contexts.
type Config struct {
	// GapThreshold is the vertical distance above which two consecutive
	// tokens are placed on separate lines. Zero selects
	// DefaultGapThreshold.
	GapThreshold float64

	// SentinelDate replaces date strings that match no known shape. Empty
	// selects DefaultSentinelDate.
	SentinelDate string

	// DecodeBarcode enables decoding of the ITF payment barcode from
	// rendered page images.
	DecodeBarcode bool

	// Debug dumps the reconstructed text at debug level.
	Debug bool

	// Logger receives recoverable-anomaly warnings. Nil selects
	// log.Default().
	Logger *log.Logger
}

// Parser extracts tax charges from DARF and Situação Fiscal PDFs.
type Parser struct {
	cfg Config
	log *log.Logger
}

// NewParser creates a Parser with the default configuration.
func NewParser() *Parser {
	return NewParserWith(Config{})
}

// NewParserWith creates a Parser with the given configuration, filling in
// defaults for zero-valued fields.
func NewParserWith(cfg Config) *Parser {
	if cfg.GapThreshold <= 0 {
		cfg.GapThreshold = DefaultGapThreshold
	}
	if cfg.SentinelDate == "" {
		cfg.SentinelDate = DefaultSentinelDate
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Parser{cfg: cfg, log: logger}
}

// ParseFile parses a DARF or Situação Fiscal PDF file.
func (p *Parser) ParseFile(filepath string) (*Extraction, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			p.log.Warn("could not close file", "path", filepath, "err", err)
		}
	}()

	return p.Parse(file)
}

// Parse parses a PDF from an io.ReadSeeker. Pages are read strictly in
// order so the nearest-preceding-label context resolution sees a stable
// total ordering. A PDF that cannot be read at all is a hard error;
// content anomalies are recovered per field and never abort the call.
func (p *Parser) Parse(reader io.ReadSeeker) (*Extraction, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF data: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read and validate PDF: %w", err)
	}

	var tokens []Token
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		contentReader, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || contentReader == nil {
			continue
		}
		contentBytes, err := io.ReadAll(contentReader)
		if err != nil {
			continue
		}
		tokens = append(tokens, extractTokens(string(contentBytes))...)
	}

	ext := p.ExtractFromTokens(tokens)

	if p.cfg.DecodeBarcode {
		code, err := decodePaymentBarcode(data)
		if err != nil {
			p.log.Warn("payment barcode not decoded", "err", err)
		} else {
			ext.Barcode = code
		}
	}

	return ext, nil
}

// ExtractFromTokens runs the pipeline on an already-extracted token
// stream, for callers that obtain the text layer from another library.
func (p *Parser) ExtractFromTokens(tokens []Token) *Extraction {
	text := ReconstructText(tokens, p.cfg.GapThreshold)
	if p.cfg.Debug {
		p.log.Debug("reconstructed text", "text", text)
	}
	return &Extraction{
		RawText: text,
		Charges: p.ExtractCharges(text),
	}
}
