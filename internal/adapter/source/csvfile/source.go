// Package csvfile reads the instrument reference table from a tab-separated file.
//
// The file is the exchange's constituent export: quoted, tab-separated fields,
// UTF-16 encoded with a byte order mark. Each record carries at least nine
// positional fields; the code is field 2, the name field 3 and the last
// closing price field 8.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockwalk/internal/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Supported text encodings
const (
	EncodingUTF16 = "utf-16"
	EncodingUTF8  = "utf-8"
)

const (
	fieldCode  = 2
	fieldName  = 3
	fieldPrice = 8
	minFields  = fieldPrice + 1
)

// Options configures how the file is decoded
type Options struct {
	// Encoding is EncodingUTF16 (default) or EncodingUTF8
	Encoding string

	// SkipHeader drops the first record
	SkipHeader bool

	// SkipMalformed logs and skips bad rows instead of aborting the whole load
	SkipMalformed bool
}

// Source implements domain.InstrumentSource over a delimited file
type Source struct {
	path string
	opts Options
}

// NewSource creates a Source reading path
func NewSource(path string, opts Options) *Source {
	return &Source{path: path, opts: opts}
}

// Load reads every instrument of the file
// Errors wrap domain.ErrSourceRead
func (s *Source) Load(ctx context.Context) ([]domain.Instrument, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceRead, err)
	}
	defer f.Close()

	instruments, err := s.Read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}

	slog.Info("instruments loaded", "path", s.path, "count", len(instruments))
	return instruments, nil
}

// Read decodes instruments from r
func (s *Source) Read(ctx context.Context, r io.Reader) ([]domain.Instrument, error) {
	dec, err := decoder(s.opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var instruments []domain.Instrument
	for row := 1; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		switch {
		case errors.As(err, &parseErr):
			if err := s.malformed(row, parseErr); err != nil {
				return nil, err
			}
			continue
		case err != nil:
			return nil, fmt.Errorf("%w: %w", domain.ErrSourceRead, err)
		}

		if row == 1 && s.opts.SkipHeader {
			continue
		}

		inst, err := parseRecord(record)
		if err != nil {
			if err := s.malformed(row, err); err != nil {
				return nil, err
			}
			continue
		}
		instruments = append(instruments, inst)
	}

	return instruments, nil
}

// malformed either aborts the load or logs and skips the row
func (s *Source) malformed(row int, cause error) error {
	if !s.opts.SkipMalformed {
		return fmt.Errorf("%w: record %d: %w", domain.ErrSourceRead, row, cause)
	}
	slog.Warn("skipping malformed instrument record", "record", row, "error", cause)
	return nil
}

func parseRecord(record []string) (domain.Instrument, error) {
	if len(record) < minFields {
		return domain.Instrument{}, fmt.Errorf("expected at least %d fields, got %d", minFields, len(record))
	}

	raw := strings.TrimSpace(record[fieldPrice])
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return domain.Instrument{}, fmt.Errorf("invalid initial price %q: %w", raw, err)
	}

	inst := domain.Instrument{
		Code:         strings.TrimSpace(record[fieldCode]),
		Name:         strings.TrimSpace(record[fieldName]),
		InitialPrice: price,
	}
	if err := inst.Validate(); err != nil {
		return domain.Instrument{}, err
	}
	return inst, nil
}

// NormalizeEncoding maps a configured encoding name onto EncodingUTF16 or EncodingUTF8
// Names are case-insensitive; an empty name means EncodingUTF16
func NormalizeEncoding(name string) (string, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); n {
	case "":
		return EncodingUTF16, nil
	case EncodingUTF16, EncodingUTF8:
		return n, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", name)
	}
}

// decoder returns the transformer for name
// UTF-16 honours a byte order mark and falls back to big-endian without one
func decoder(name string) (transform.Transformer, error) {
	n, err := NormalizeEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceRead, err)
	}

	var enc encoding.Encoding
	if n == EncodingUTF8 {
		enc = unicode.UTF8BOM
	} else {
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	}
	return enc.NewDecoder(), nil
}
