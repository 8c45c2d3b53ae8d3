package dataprocessing

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"orderpulse/internal/config"
	apperrors "orderpulse/internal/errors"
	"orderpulse/internal/infrastructure"
	"orderpulse/pkg/contracts/domain"
)

// requiredFields must be present as keys on every input record. The id may
// also be given as order_id.
var requiredFields = []string{"items", "status", "timestamp", "customer_id", "channel"}

// LoaderConfig holds configuration options for the Loader.
type LoaderConfig struct {
	MaxLineBytes int // Longest accepted input line
}

// Loader reads order records from newline-delimited JSON.
type Loader struct {
	logger       *slog.Logger
	validate     *validator.Validate
	maxLineBytes int
}

// orderRecord is the wire shape of an input line.
type orderRecord struct {
	domain.Order
	OrderID *domain.OrderID `json:"order_id,omitempty"`
}

// NewOrderValidator returns a validator that understands the order field tags.
func NewOrderValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseTimestamp(fl.Field().String())
		return err == nil
	})

	// Report json field names in validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// NewLoader creates a loader. A nil logger uses slog.Default.
func NewLoader(logger *slog.Logger, cfg LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxLineBytes <= 0 {
		cfg.MaxLineBytes = config.DefaultMaxLineBytes
	}
	return &Loader{
		logger:       infrastructure.WithComponent(logger, "loader"),
		validate:     NewOrderValidator(),
		maxLineBytes: cfg.MaxLineBytes,
	}
}

// LoadFile opens path and loads every order in it.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]*domain.Order, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("open input %s", path), err)
	}
	defer file.Close()

	orders, err := l.Load(ctx, file)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "orders loaded",
		slog.String("file", path),
		slog.Int("count", len(orders)))
	return orders, nil
}

// Load reads orders from r in input order. Blank lines are skipped. The
// first malformed record aborts the load.
//
// A source whose first non-blank byte is '[' is read as a JSON array, which
// is the default output of OrderWriter.
func (l *Loader) Load(ctx context.Context, r io.Reader) ([]*domain.Order, error) {
	br := bufio.NewReader(r)

	first, skippedLines, err := skipLeadingSpace(br)
	if err == io.EOF {
		return []*domain.Order{}, nil
	}
	if err != nil {
		return nil, apperrors.NewStorageError("read input", err)
	}

	if first == '[' {
		return l.loadArray(ctx, br)
	}
	return l.loadLines(ctx, br, skippedLines)
}

func (l *Loader) loadLines(ctx context.Context, r io.Reader, lineOffset int) ([]*domain.Order, error) {
	// The scanner limit is the larger of max and the initial capacity.
	initial := 64 * 1024
	if l.maxLineBytes < initial {
		initial = l.maxLineBytes
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initial), l.maxLineBytes)

	orders := []*domain.Order{}
	line := lineOffset
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		order, err := l.parseRecord([]byte(raw), line)
		if err != nil {
			infrastructure.WithError(l.logger, err).ErrorContext(ctx, "malformed record",
				slog.Int("line", line))
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := scanner.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return nil, apperrors.NewMalformedRecordError(line+1,
				fmt.Errorf("line exceeds %d bytes", l.maxLineBytes))
		}
		return nil, apperrors.NewStorageError("read input", err)
	}

	return orders, nil
}

func (l *Loader) loadArray(ctx context.Context, r io.Reader) ([]*domain.Order, error) {
	dec := json.NewDecoder(r)
	var records []json.RawMessage
	if err := dec.Decode(&records); err != nil {
		return nil, apperrors.NewMalformedRecordError(1, err)
	}
	// Only whitespace may follow the array.
	var trailing json.RawMessage
	if err := dec.Decode(&trailing); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected data after JSON array")
		}
		return nil, apperrors.NewMalformedRecordError(len(records)+1, err)
	}

	orders := make([]*domain.Order, 0, len(records))
	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		order, err := l.parseRecord(raw, i+1)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// parseRecord decodes and checks one record. line is the 1-based position of
// the record in its source.
func (l *Loader) parseRecord(raw []byte, line int) (*domain.Order, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, apperrors.NewMalformedRecordError(line, err)
	}

	_, hasID := keys["id"]
	_, hasOrderID := keys["order_id"]
	if !hasID && !hasOrderID {
		return nil, apperrors.NewMalformedRecordError(line, fmt.Errorf("missing required field %q", "id"))
	}
	for _, field := range requiredFields {
		if _, ok := keys[field]; !ok {
			return nil, apperrors.NewMalformedRecordError(line, fmt.Errorf("missing required field %q", field))
		}
	}

	var rec orderRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, apperrors.NewMalformedRecordError(line, err)
	}

	order := rec.Order
	if order.ID == "" && rec.OrderID != nil {
		order.ID = *rec.OrderID
	}

	if err := l.validate.Struct(&order); err != nil {
		return nil, apperrors.NewMalformedRecordError(line, err)
	}

	return &order, nil
}

// skipLeadingSpace consumes leading whitespace and returns the first
// significant byte, left unread, plus the number of newlines consumed.
func skipLeadingSpace(br *bufio.Reader) (byte, int, error) {
	newlines := 0
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, newlines, err
		}
		switch b {
		case '\n':
			newlines++
		case ' ', '\t', '\r':
		default:
			if err := br.UnreadByte(); err != nil {
				return 0, newlines, err
			}
			return b, newlines, nil
		}
	}
}
