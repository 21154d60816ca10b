package syncer

import (
	"sort"
	"time"
)

// ChangeType classifies one icon's fate in a sync diff.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeUpdated ChangeType = "updated"
	ChangeRemoved ChangeType = "removed"
)

// ItemError is one captured per-icon failure with enough context to
// reproduce it.
type ItemError struct {
	Brand   string
	Icon    string
	Message string
}

// BrandReport aggregates one brand's sync outcome.
type BrandReport struct {
	Brand   string
	Added   int
	Updated int
	Removed int
	Errors  []ItemError
}

func (b *BrandReport) count(change ChangeType) {
	switch change {
	case ChangeAdded:
		b.Added++
	case ChangeUpdated:
		b.Updated++
	case ChangeRemoved:
		b.Removed++
	}
}

// Report is the structured end-of-run result, always produced, even on
// partial failure.
type Report struct {
	DryRun       bool
	Duration     time.Duration
	RemoteBrands int
	RemoteIcons  int

	Added   int
	Updated int
	Removed int

	Brands []BrandReport
	Errors []ItemError
}

func (r *Report) addBrand(br BrandReport) {
	r.Added += br.Added
	r.Updated += br.Updated
	r.Removed += br.Removed
	r.Errors = append(r.Errors, br.Errors...)
	r.Brands = append(r.Brands, br)
	sort.Slice(r.Brands, func(i, j int) bool { return r.Brands[i].Brand < r.Brands[j].Brand })
}

func (r *Report) addError(e ItemError) {
	r.Errors = append(r.Errors, e)
}

// OK reports whether the run completed without any item failure. The
// process exit status derives from this, never from a mid-run abort.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}
