package ports

import "github.com/bnema/edc/internal/domain"

// ReferenceLookup answers static value questions. A miss is absence, not an
// error.
type ReferenceLookup interface {
	BodyValue(key domain.BodyValueKey) (int64, bool)
	SpeciesValue(name string) (domain.SpeciesFact, bool)
}
