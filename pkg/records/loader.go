package records

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load reads a results file of "name:value,name:value" lines into a Table.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open results file %s: %w", path, err)
	}
	defer file.Close()

	table, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// LoadWithSchema loads a results file and validates it against the schema.
func LoadWithSchema(path string, schema Schema) (*Table, error) {
	table, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(table); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Parse reads records from r. Every line must carry the key set of the first
// line. Values are converted to float64 only after all lines were read, so a
// single bad value fails the whole parse. Lines have no length limit.
func Parse(r io.Reader) (*Table, error) {
	var (
		columns []string
		index   = make(map[string]int)
		raw     [][]string
		lineNo  int
	)

	reader := bufio.NewReader(r)
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read records: %w", readErr)
		}
		if line == "" && readErr != nil {
			break
		}
		lineNo++

		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if strings.TrimSpace(line) == "" {
			return nil, fmt.Errorf("line %d: %w: empty line", lineNo, ErrMalformedLine)
		}

		tokens := strings.Split(line, ",")
		if lineNo == 1 {
			for _, token := range tokens {
				name, _, ok := strings.Cut(token, ":")
				if !ok {
					return nil, fmt.Errorf("line %d: %w: token %q has no ':'", lineNo, ErrMalformedLine, token)
				}
				name = strings.TrimSpace(name)
				if _, dup := index[name]; dup {
					return nil, fmt.Errorf("line %d: %w: duplicate key %q", lineNo, ErrRaggedTable, name)
				}
				index[name] = len(columns)
				columns = append(columns, name)
			}
		}

		if len(tokens) != len(columns) {
			return nil, fmt.Errorf("line %d: %w: %d fields, want %d", lineNo, ErrRaggedTable, len(tokens), len(columns))
		}

		fields := make([]string, len(columns))
		seen := make([]bool, len(columns))
		for _, token := range tokens {
			name, value, ok := strings.Cut(token, ":")
			if !ok {
				return nil, fmt.Errorf("line %d: %w: token %q has no ':'", lineNo, ErrMalformedLine, token)
			}
			col, known := index[strings.TrimSpace(name)]
			if !known {
				return nil, fmt.Errorf("line %d: %w: unexpected key %q", lineNo, ErrRaggedTable, name)
			}
			if seen[col] {
				return nil, fmt.Errorf("line %d: %w: duplicate key %q", lineNo, ErrRaggedTable, name)
			}
			seen[col] = true
			fields[col] = strings.TrimSpace(value)
		}
		raw = append(raw, fields)

		if readErr != nil {
			break
		}
	}

	table := NewTable(columns...)
	row := make(map[string]float64, len(columns))
	for i, fields := range raw {
		for col, name := range columns {
			v, err := strconv.ParseFloat(fields[col], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %q: %w: %q", i+1, name, ErrNotNumeric, fields[col])
			}
			row[name] = v
		}
		if err := table.AppendRow(row); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	return table, nil
}
