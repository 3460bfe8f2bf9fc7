// Copyright 2025 The HospitalFinder Authors
// SPDX-License-Identifier: Apache-2.0

package refdata

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is wrapped by DataLoadError when a required column is absent.
var ErrMissingColumn = errors.New("missing required column")

// DataLoadError reports a reference table that is missing or malformed.
type DataLoadError struct {
	Table string
	Path  string
	Err   error
}

func (e *DataLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("loading %s table: %v", e.Table, e.Err)
	}

	return fmt.Sprintf("loading %s table from %s: %v", e.Table, e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// IsDataLoadError reports whether err is, or wraps, a DataLoadError.
func IsDataLoadError(err error) bool {
	var loadErr *DataLoadError

	return errors.As(err, &loadErr)
}
