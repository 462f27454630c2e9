package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"incomecli/internal/errors"
	"incomecli/pkg/contracts/domain"
)

// LoadOptions controls how the input file is parsed.
type LoadOptions struct {
	// Delimiter separates fields; zero means comma.
	Delimiter rune
}

// Load reads the delimited file at path into a frame whose columns are all
// strings. A missing or unreadable file is an IO error; a malformed or empty
// file is a PARSING error.
func Load(ctx context.Context, path string, opts LoadOptions) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.NewIOError(domain.StageLoad, fmt.Sprintf("cannot open input %s", path), err).
			WithContext("path", path)
	}
	defer f.Close()

	df, err := Read(f, opts)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			appErr.WithContext("path", path)
		}
		return dataframe.DataFrame{}, err
	}
	return df, nil
}

// Read parses delimited text from r. A leading byte-order mark is removed
// before the header is read.
func Read(r io.Reader, opts LoadOptions) (dataframe.DataFrame, error) {
	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = ','
	}

	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	reader.Comma = delimiter
	records, err := reader.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, errors.NewParsingError(domain.StageLoad, "malformed input", err)
	}
	if len(records) == 0 || strings.TrimSpace(strings.Join(records[0], "")) == "" {
		return dataframe.DataFrame{}, errors.NewParsingError(domain.StageLoad, "input has no header row", nil)
	}
	if len(records) == 1 {
		return headerOnly(records[0]), nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.NewParsingError(domain.StageLoad, "malformed input", df.Err)
	}

	return df, nil
}

// headerOnly builds a zero-row frame of string columns.
func headerOnly(header []string) dataframe.DataFrame {
	columns := make([]series.Series, len(header))
	for i, name := range header {
		columns[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(columns...)
}
