package memory

import (
	"sort"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/journal"
)

const limpetItem = "drones"

// Inventory is session-wide; it is not keyed by system.
type Inventory struct {
	cargo     domain.CargoHold
	materials domain.MaterialStock
	locker    domain.LockerStock
}

func NewInventory() Inventory {
	return Inventory{}
}

func (m Inventory) Apply(evt journal.Event) (Inventory, bool) {
	switch e := evt.(type) {
	case journal.Cargo:
		if e.Vessel != "" && e.Vessel != "Ship" {
			return m, false
		}
		hold := domain.CargoHold{Count: e.Count, UpdatedAt: e.At()}
		if e.HasInventory {
			hold.Items = append([]domain.InventoryItem(nil), e.Items...)
		} else {
			// Cargo without inventory only refreshes the total.
			hold.Items = m.cargo.Items
		}
		for _, item := range hold.Items {
			if item.Name == limpetItem {
				hold.Limpets = item.Count
			}
		}
		next := m
		next.cargo = hold
		return next, true
	case journal.Materials:
		next := m
		next.materials = domain.MaterialStock{
			Raw:          byName(e.Raw),
			Manufactured: byName(e.Manufactured),
			Encoded:      byName(e.Encoded),
			UpdatedAt:    e.At(),
		}
		return next, true
	case journal.ShipLocker:
		if !e.HasContents {
			return m, false
		}
		next := m
		next.locker = domain.LockerStock{
			Items:       byName(e.Items),
			Components:  byName(e.Components),
			Consumables: byName(e.Consumables),
			Data:        byName(e.Data),
			UpdatedAt:   e.At(),
		}
		return next, true
	}
	return m, false
}

func byName(items []domain.InventoryItem) map[string]domain.InventoryItem {
	out := make(map[string]domain.InventoryItem, len(items))
	for _, item := range items {
		out[item.Name] = item
	}
	return out
}

func (m Inventory) Cargo() domain.CargoHold {
	hold := m.cargo
	hold.Items = append([]domain.InventoryItem(nil), m.cargo.Items...)
	sort.Slice(hold.Items, func(i, j int) bool { return hold.Items[i].Name < hold.Items[j].Name })
	return hold
}

func (m Inventory) Materials() domain.MaterialStock {
	return domain.MaterialStock{
		Raw:          cloneMap(m.materials.Raw),
		Manufactured: cloneMap(m.materials.Manufactured),
		Encoded:      cloneMap(m.materials.Encoded),
		UpdatedAt:    m.materials.UpdatedAt,
	}
}

func (m Inventory) Locker() domain.LockerStock {
	return domain.LockerStock{
		Items:       cloneMap(m.locker.Items),
		Components:  cloneMap(m.locker.Components),
		Consumables: cloneMap(m.locker.Consumables),
		Data:        cloneMap(m.locker.Data),
		UpdatedAt:   m.locker.UpdatedAt,
	}
}
