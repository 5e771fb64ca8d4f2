// Package corpus loads labeled token corpora partitioned into named splits
// and provides the person-entity filtering used to derive gold labels.
package corpus

import (
	"fmt"

	"github.com/halvard/nertune/internal/domain"
)

// Well-known split names.
const (
	SplitTrain      = "train"
	SplitValidation = "validation"
	SplitTest       = "test"
)

// Record is one labeled sentence: an ordered token sequence paired 1:1 with
// an equal-length sequence of integer tag codes.
type Record struct {
	Tokens []string `json:"tokens"`
	Tags   []int    `json:"ner_tags"`
}

// Validate checks the tokens/tags length invariant.
func (r Record) Validate() error {
	if len(r.Tokens) != len(r.Tags) {
		return domain.NewDomainError(domain.ErrRecordMismatch,
			fmt.Sprintf("%d tokens vs %d tags", len(r.Tokens), len(r.Tags)))
	}
	return nil
}

// Split is a named, ordered, indexable collection of records. Indexing is
// stable and contiguous, so range slicing is deterministic.
type Split struct {
	Name    string   `json:"name"`
	Records []Record `json:"records"`
}

// Len returns the number of records in the split.
func (s *Split) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// Record returns the record at index i.
func (s *Split) Record(i int) (Record, error) {
	if i < 0 || i >= s.Len() {
		return Record{}, domain.NewDomainError(domain.ErrIndexOutOfRange,
			fmt.Sprintf("record %d of split %q (len %d)", i, s.Name, s.Len()))
	}
	return s.Records[i], nil
}

// Dataset is a loaded corpus: its identifier plus the splits it was
// partitioned into. Datasets are immutable after loading.
type Dataset struct {
	Name   string
	Splits map[string]*Split
}

// Split returns the named split.
func (d *Dataset) Split(name string) (*Split, error) {
	s, ok := d.Splits[name]
	if !ok {
		return nil, domain.NewDomainError(domain.ErrUnknownSplit,
			fmt.Sprintf("split %q of dataset %q", name, d.Name))
	}
	return s, nil
}
