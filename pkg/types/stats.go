// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// FunderStats summarizes the grants database rows for one funder.
type FunderStats struct {
	UniqueDOIs   int `json:"unique_dois" yaml:"unique_dois"`
	UniqueAwards int `json:"unique_awards" yaml:"unique_awards"`
	TotalRecords int `json:"total_records" yaml:"total_records"`
}
