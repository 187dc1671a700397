// Package reference loads the static body and species value tables.
package reference

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"unicode"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/bnema/edc/internal/domain"
)

//go:embed data/*.json
var embedded embed.FS

const (
	planetFile = "data/planet_values.json"
	exoFile    = "data/exo_values.json"
)

var ErrEmptyTable = errors.New("reference table has no usable rows")

// Journal class names that differ from the table's planet_type spelling.
var classAliases = map[string]string{
	normalize("High metal content world"):          normalize("High Metal Content Planet"),
	normalize("High metal content body"):           normalize("High Metal Content Planet"),
	normalize("Metal rich world"):                  normalize("Metal Rich Body"),
	normalize("Earthlike world"):                   normalize("Earth-Like World"),
	normalize("Earthlike body"):                    normalize("Earth-Like World"),
	normalize("Rocky ice world"):                   normalize("Rocky Ice Body"),
	normalize("Icy world"):                         normalize("Icy Body"),
	normalize("Gas giant with water based life"):   normalize("Gas Giant With Water Based Life"),
	normalize("Gas giant with ammonia based life"): normalize("Gas Giant With Ammonia Based Life"),
}

type rowKey struct {
	class         string
	terraformable bool
}

type bodyRow struct {
	fss, fssDSS, fssFD, fssFDDSS int64
}

func (r bodyRow) value(mapped, firstDiscovered bool) int64 {
	switch {
	case firstDiscovered && mapped:
		return r.fssFDDSS
	case firstDiscovered:
		return r.fssFD
	case mapped:
		return r.fssDSS
	default:
		return r.fss
	}
}

// Table implements ports.ReferenceLookup over in-memory rows. It is
// immutable once built.
type Table struct {
	bodies  map[rowKey]bodyRow
	species map[string]domain.SpeciesFact
	folded  map[string]string
}

// Default returns the tables compiled into the binary.
func Default() (*Table, error) {
	planets, err := fs.ReadFile(embedded, planetFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded planet values: %w", err)
	}
	exo, err := fs.ReadFile(embedded, exoFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded exo values: %w", err)
	}
	return Parse(planets, exo)
}

// Load reads override tables from fsys. An empty path falls back to the
// embedded copy of that table.
func Load(fsys afero.Fs, planetPath, exoPath string) (*Table, error) {
	planets, err := readOrEmbedded(fsys, planetPath, planetFile)
	if err != nil {
		return nil, err
	}
	exo, err := readOrEmbedded(fsys, exoPath, exoFile)
	if err != nil {
		return nil, err
	}
	return Parse(planets, exo)
}

func readOrEmbedded(fsys afero.Fs, path, fallback string) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		data, err := fs.ReadFile(embedded, fallback)
		if err != nil {
			return nil, fmt.Errorf("read embedded %s: %w", fallback, err)
		}
		return data, nil
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read reference table %s: %w", path, err)
	}
	return data, nil
}

// Parse builds a table from raw planet and exobiology JSON documents.
func Parse(planets, exo []byte) (*Table, error) {
	t := &Table{
		bodies:  make(map[rowKey]bodyRow),
		species: make(map[string]domain.SpeciesFact),
		folded:  make(map[string]string),
	}
	if err := t.parseBodies(planets); err != nil {
		return nil, err
	}
	if err := t.parseSpecies(exo); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) parseBodies(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("parse planet values: invalid json")
	}
	doc := gjson.ParseBytes(data)
	rows := doc.Get("entries")
	if !rows.Exists() {
		rows = doc.Get("rows")
	}
	rows.ForEach(func(_, r gjson.Result) bool {
		class := r.Get("planet_type")
		tf := r.Get("terraformable")
		if class.Type != gjson.String || !tf.IsBool() {
			return true
		}
		t.bodies[rowKey{class: normalize(class.String()), terraformable: tf.Bool()}] = bodyRow{
			fss:      column(r, "fss"),
			fssDSS:   column(r, "fss_dss"),
			fssFD:    column(r, "fss_fd"),
			fssFDDSS: column(r, "fss_fd_dss"),
		}
		return true
	})
	if len(t.bodies) == 0 {
		return fmt.Errorf("parse planet values: %w", ErrEmptyTable)
	}
	return nil
}

func column(r gjson.Result, name string) int64 {
	if v := r.Get("values." + name); v.Exists() {
		return v.Int()
	}
	return r.Get(name).Int()
}

func (t *Table) parseSpecies(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("parse exo values: invalid json")
	}
	gjson.GetBytes(data, "species").ForEach(func(name, rec gjson.Result) bool {
		genus := strings.TrimSpace(rec.Get("genus").String())
		base := rec.Get("base_value")
		if name.String() == "" || genus == "" || base.Type != gjson.Number {
			return true
		}
		t.species[name.String()] = domain.SpeciesFact{
			Species:   name.String(),
			Genus:     genus,
			BaseValue: base.Int(),
		}
		t.folded[strings.ToLower(name.String())] = name.String()
		return true
	})
	if len(t.species) == 0 {
		return fmt.Errorf("parse exo values: %w", ErrEmptyTable)
	}
	return nil
}

func (t *Table) BodyValue(key domain.BodyValueKey) (int64, bool) {
	class := normalize(key.Class)
	if class == "" {
		return 0, false
	}
	row, ok := t.bodies[rowKey{class: class, terraformable: key.Terraformable}]
	if !ok {
		alias, known := classAliases[class]
		if !known {
			return 0, false
		}
		row, ok = t.bodies[rowKey{class: alias, terraformable: key.Terraformable}]
		if !ok {
			return 0, false
		}
	}
	v := row.value(key.Mapped, key.FirstDiscovered)
	return v, v > 0
}

func (t *Table) SpeciesValue(name string) (domain.SpeciesFact, bool) {
	name = strings.TrimSpace(name)
	if fact, ok := t.species[name]; ok {
		return fact, true
	}
	canonical, ok := t.folded[strings.ToLower(name)]
	if !ok {
		return domain.SpeciesFact{}, false
	}
	return t.species[canonical], true
}

// Len reports the number of body rows and species.
func (t *Table) Len() (bodies, species int) {
	return len(t.bodies), len(t.species)
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
