package domain

import (
	"strconv"
	"strings"
)

// SystemID identifies a star system. It is the decimal SystemAddress when
// the journal supplies one, otherwise the star system name.
type SystemID string

func NewSystemID(address int64, name string) SystemID {
	if address > 0 {
		return SystemID(strconv.FormatInt(address, 10))
	}
	return SystemID(strings.TrimSpace(name))
}

func (id SystemID) IsZero() bool {
	return id == ""
}

func (id SystemID) String() string {
	return string(id)
}

// BodyID is unique within a system only.
type BodyID int

func (id BodyID) Ptr() *BodyID {
	return &id
}

type ContactID string

type ActionID string

// SpeciesKey identifies an exobiology entry on a body. An empty Species
// marks a provisional genus-only entry.
type SpeciesKey struct {
	Genus   string
	Species string
}

func (k SpeciesKey) Provisional() bool {
	return k.Species == ""
}

func (k SpeciesKey) String() string {
	if k.Provisional() {
		return k.Genus
	}
	return k.Species
}
