// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/pdiddy/oracle-engine/pkg/types"
)

// ErrInvalidOutput is returned when a result file lacks required keys or
// reports a failed parse.
var ErrInvalidOutput = errors.New("invalid oracle output")

// requiredKeys must be present at the top level of a result file.
var requiredKeys = []string{"version", "source_file", "dimensions", "activities", "metadata"}

// LoadResult reads a result JSON file written by the batch runner.
func LoadResult(path string) (*types.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result %s: %w", path, err)
	}
	var res types.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing result %s: %w", path, err)
	}
	return &res, nil
}

// ValidateOutput checks a result file: every required key present and
// parsing_status equal to success. The decoded result is returned whenever
// the file parses, even if validation fails.
func ValidateOutput(path string) (*types.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOutput, path, err)
	}

	var missing []string
	for _, k := range requiredKeys {
		if _, ok := raw[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s: missing keys %v", ErrInvalidOutput, path, missing)
	}

	var res types.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOutput, path, err)
	}

	if res.Metadata.ParsingStatus != types.StatusSuccess {
		return &res, fmt.Errorf("%w: %s: parsing status %q with %d errors",
			ErrInvalidOutput, path, res.Metadata.ParsingStatus, res.Metadata.Errors)
	}
	return &res, nil
}
