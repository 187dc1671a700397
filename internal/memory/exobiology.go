package memory

import (
	"sort"
	"strings"
	"time"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/journal"
	"github.com/bnema/edc/internal/ports"
)

type bioBody struct {
	name       string
	bioSignals int
	species    map[domain.SpeciesKey]domain.SpeciesProgress
}

func (b bioBody) clone() bioBody {
	b.species = cloneMap(b.species)
	return b
}

// Exobiology tracks per-species sampling progress per body per system.
type Exobiology struct {
	systems map[domain.SystemID]map[domain.BodyID]bioBody
	ref     ports.ReferenceLookup
}

func NewExobiology(ref ports.ReferenceLookup) Exobiology {
	return Exobiology{systems: map[domain.SystemID]map[domain.BodyID]bioBody{}, ref: ref}
}

type ExobiologyBody struct {
	ID         domain.BodyID
	Name       string
	BioSignals int
	Species    []domain.SpeciesProgress
}

// Unresolved is the number of biological signals with no known genus yet.
func (b ExobiologyBody) Unresolved() int {
	genera := map[string]struct{}{}
	for _, s := range b.Species {
		genera[s.Key.Genus] = struct{}{}
	}
	if n := b.BioSignals - len(genera); n > 0 {
		return n
	}
	return 0
}

type ExobiologySystem struct {
	ID     domain.SystemID
	Bodies []ExobiologyBody
}

func (m Exobiology) Apply(evt journal.Event, sc domain.SessionContext) (Exobiology, bool) {
	if !sc.HasSystem() {
		return m, false
	}

	switch e := evt.(type) {
	case journal.FSSBodySignals:
		if !e.HasBodyID || e.Signals.Biological == 0 {
			return m, false
		}
		return m.updateBody(sc.CurrentSystem, domain.BodyID(e.BodyID), e.BodyName, func(b *bioBody) {
			b.bioSignals = e.Signals.Biological
		}), true
	case journal.SAASignalsFound:
		if !e.HasBodyID || (e.Signals.Biological == 0 && len(e.Genuses) == 0) {
			return m, false
		}
		return m.updateBody(sc.CurrentSystem, domain.BodyID(e.BodyID), e.BodyName, func(b *bioBody) {
			if e.Signals.Biological > 0 {
				b.bioSignals = e.Signals.Biological
			}
			for _, genus := range e.Genuses {
				m.revealGenus(b, genus, e.At())
			}
		}), true
	case journal.CodexEntry:
		if !e.HasBodyID || !isBiologyEntry(e) {
			return m, false
		}
		key, variant := codexKey(e.Name)
		if key.Genus == "" {
			return m, false
		}
		return m.updateBody(sc.CurrentSystem, domain.BodyID(e.BodyID), "", func(b *bioBody) {
			m.advance(b, key, domain.StageFssPlaceholder, e.At(), func(p *domain.SpeciesProgress) {
				if p.Variant == "" {
					p.Variant = variant
				}
			})
		}), true
	case journal.ScanOrganic:
		if !e.HasBodyID {
			return m, false
		}
		key := organicKey(e)
		if key.Genus == "" {
			return m, false
		}
		stage := domain.StageScanning
		if strings.EqualFold(e.ScanType, "Analyse") {
			stage = domain.StageCompleted
		}
		return m.updateBody(sc.CurrentSystem, domain.BodyID(e.BodyID), "", func(b *bioBody) {
			m.advance(b, key, stage, e.At(), func(p *domain.SpeciesProgress) {
				p.ProgressCount = sampleProgress(p.ProgressCount, e.ScanType)
				p.LastScanType = e.ScanType
				if e.Variant != "" {
					p.Variant = e.Variant
				}
			})
		}), true
	}
	return m, false
}

// Rekey moves bodies recorded under from to to. Bodies already under to
// win on conflict.
func (m Exobiology) Rekey(from, to domain.SystemID) (Exobiology, bool) {
	systems, ok := rekey(m.systems, from, to, func(older, newer map[domain.BodyID]bioBody) map[domain.BodyID]bioBody {
		merged := cloneMap(newer)
		for id, b := range older {
			if _, ok := merged[id]; !ok {
				merged[id] = b
			}
		}
		return merged
	})
	if !ok {
		return m, false
	}
	return Exobiology{systems: systems, ref: m.ref}, true
}

func (m Exobiology) updateBody(system domain.SystemID, id domain.BodyID, name string, fn func(*bioBody)) Exobiology {
	bodies := m.systems[system]
	body, ok := bodies[id]
	if ok {
		body = body.clone()
	} else {
		body = bioBody{species: map[domain.SpeciesKey]domain.SpeciesProgress{}}
	}
	if body.name == "" {
		body.name = name
	}
	fn(&body)

	nextBodies := cloneMap(bodies)
	nextBodies[id] = body
	return Exobiology{systems: withEntry(m.systems, system, nextBodies), ref: m.ref}
}

// revealGenus confirms a genus from a surface scan. Known species of that
// genus advance; otherwise a provisional genus-only entry is added.
func (m Exobiology) revealGenus(b *bioBody, genus string, at time.Time) {
	found := false
	for key, p := range b.species {
		if key.Genus != genus {
			continue
		}
		found = true
		p.Stage = p.Stage.Advance(domain.StageDssGenusRevealed)
		p.UpdatedAt = at
		b.species[key] = p
	}
	if !found {
		m.advance(b, domain.SpeciesKey{Genus: genus}, domain.StageDssGenusRevealed, at, nil)
	}
}

// advance moves an entry forward, merging any provisional genus-only entry
// into a fully identified key first.
func (m Exobiology) advance(b *bioBody, key domain.SpeciesKey, stage domain.BioStage, at time.Time, mutate func(*domain.SpeciesProgress)) {
	p, ok := b.species[key]
	if !ok {
		p = domain.SpeciesProgress{Key: key, RequiredCount: domain.RequiredSamples, FirstSeenAt: at}
	}

	if !key.Provisional() {
		provisionalKey := domain.SpeciesKey{Genus: key.Genus}
		if prov, ok := b.species[provisionalKey]; ok {
			p = mergeProgress(p, prov)
			delete(b.species, provisionalKey)
		}
	}

	p.Stage = p.Stage.Advance(stage)
	p.UpdatedAt = at
	if mutate != nil {
		mutate(&p)
	}
	if p.Stage == domain.StageCompleted {
		p.ProgressCount = domain.RequiredSamples
	}
	if p.Value == nil && !key.Provisional() && m.ref != nil {
		if fact, ok := m.ref.SpeciesValue(key.Species); ok {
			p.Value = int64Ptr(fact.BaseValue)
		}
	}
	b.species[key] = p
}

func mergeProgress(into, from domain.SpeciesProgress) domain.SpeciesProgress {
	into.Stage = into.Stage.Advance(from.Stage)
	if from.ProgressCount > into.ProgressCount {
		into.ProgressCount = from.ProgressCount
	}
	if !from.FirstSeenAt.IsZero() && (into.FirstSeenAt.IsZero() || from.FirstSeenAt.Before(into.FirstSeenAt)) {
		into.FirstSeenAt = from.FirstSeenAt
	}
	if into.LastScanType == "" {
		into.LastScanType = from.LastScanType
	}
	return into
}

func sampleProgress(current int, scanType string) int {
	switch strings.ToLower(scanType) {
	case "log":
		if current < 1 {
			return 1
		}
		return current
	case "sample":
		if current+1 > domain.RequiredSamples {
			return domain.RequiredSamples
		}
		return current + 1
	case "analyse":
		return domain.RequiredSamples
	}
	return current
}

func isBiologyEntry(e journal.CodexEntry) bool {
	sub := strings.ToLower(e.SubCategory)
	if strings.Contains(sub, "organic") {
		return true
	}
	return strings.Contains(strings.ToLower(e.Category), "biology")
}

// codexKey splits "Stratum Tectonicas - Lime" into its species key and
// variant.
func codexKey(name string) (domain.SpeciesKey, string) {
	name = strings.TrimSpace(name)
	species, _, hasVariant := strings.Cut(name, " - ")
	species = strings.TrimSpace(species)
	variant := ""
	if hasVariant {
		variant = name
	}
	genus, _, hasSpecies := strings.Cut(species, " ")
	if !hasSpecies {
		return domain.SpeciesKey{Genus: genus}, variant
	}
	return domain.SpeciesKey{Genus: genus, Species: species}, variant
}

func organicKey(e journal.ScanOrganic) domain.SpeciesKey {
	genus := e.Genus
	species := e.Species
	if genus == "" && species != "" {
		genus, _, _ = strings.Cut(species, " ")
	}
	return domain.SpeciesKey{Genus: genus, Species: species}
}

func (m Exobiology) System(id domain.SystemID) (ExobiologySystem, bool) {
	bodies, ok := m.systems[id]
	if !ok {
		return ExobiologySystem{ID: id}, false
	}

	view := ExobiologySystem{ID: id}
	for bodyID, b := range bodies {
		vb := ExobiologyBody{ID: bodyID, Name: b.name, BioSignals: b.bioSignals}
		for _, p := range b.species {
			if p.Value != nil {
				p.Value = int64Ptr(*p.Value)
			}
			vb.Species = append(vb.Species, p)
		}
		sort.Slice(vb.Species, func(i, j int) bool {
			if vb.Species[i].Stage != vb.Species[j].Stage {
				return vb.Species[i].Stage > vb.Species[j].Stage
			}
			return vb.Species[i].Key.String() < vb.Species[j].Key.String()
		})
		view.Bodies = append(view.Bodies, vb)
	}
	sort.Slice(view.Bodies, func(i, j int) bool { return view.Bodies[i].ID < view.Bodies[j].ID })
	return view, true
}

func (m Exobiology) Systems() []domain.SystemID {
	return keys(m.systems)
}
