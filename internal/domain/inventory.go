package domain

import "time"

type InventoryItem struct {
	Name      string
	Localised string
	Count     int
	Stolen    int
}

func (i InventoryItem) DisplayName() string {
	if i.Localised != "" {
		return i.Localised
	}
	return i.Name
}

type CargoHold struct {
	Count     int
	Limpets   int
	Items     []InventoryItem
	UpdatedAt time.Time
}

type MaterialStock struct {
	Raw          map[string]InventoryItem
	Manufactured map[string]InventoryItem
	Encoded      map[string]InventoryItem
	UpdatedAt    time.Time
}

// LockerStock is the on-foot ship locker, keyed by lower-case name.
type LockerStock struct {
	Items       map[string]InventoryItem
	Components  map[string]InventoryItem
	Consumables map[string]InventoryItem
	Data        map[string]InventoryItem
	UpdatedAt   time.Time
}

func (l LockerStock) Total() int {
	n := 0
	for _, category := range []map[string]InventoryItem{l.Items, l.Components, l.Consumables, l.Data} {
		for _, item := range category {
			n += item.Count
		}
	}
	return n
}

type SessionLedger struct {
	ExplorationSold int64
	OrganicSold     int64
	CodexVouchers   int64
	Redeemed        map[string]int64
	BountiesEarned  int64
	BondsEarned     int64
	GoalRewards     int64
}

func (l SessionLedger) Total() int64 {
	total := l.ExplorationSold + l.OrganicSold + l.GoalRewards
	for _, amount := range l.Redeemed {
		total += amount
	}
	return total
}
