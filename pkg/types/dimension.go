// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "sort"

// Dimension is a top-level category of the behavioral domain
// (e.g. Saúde Física). Dimensions are registered once per document scan
// and never renamed or removed afterwards.
type Dimension struct {
	// Code is the short unique identifier printed in the heading (e.g. "SF").
	Code string `json:"code" yaml:"code"`

	// Name is the canonical upper-case heading text (e.g. "SAÚDE FÍSICA").
	Name string `json:"name" yaml:"name"`

	// DisplayName is the title-cased label shown to users.
	DisplayName string `json:"display_name" yaml:"display_name"`

	// ID is the lower-case code used by downstream consumers.
	ID string `json:"id" yaml:"id"`
}

// DimensionSet maps dimension code to its record.
type DimensionSet map[string]Dimension

// Has reports whether code is a registered dimension.
func (s DimensionSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Codes returns the registered dimension codes in sorted order.
func (s DimensionSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
