package journal

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/bnema/edc/internal/domain"
	"github.com/tidwall/gjson"
)

// Decode turns one raw journal record into an Event. A record counts as
// terminated when it ends with a newline. An unterminated record that does
// not parse yet is Incomplete; a terminated one is Malformed.
func Decode(raw []byte) (Event, error) {
	terminated := bytes.HasSuffix(raw, []byte("\n"))
	line := bytes.TrimSpace(raw)
	if len(line) == 0 {
		return nil, ErrEmpty
	}

	if !gjson.ValidBytes(line) {
		if !terminated {
			return nil, newDecodeError(Incomplete, "record not terminated", line)
		}
		return nil, newDecodeError(Malformed, "invalid json", line)
	}

	root := gjson.ParseBytes(line)
	if !root.IsObject() {
		if !terminated {
			return nil, newDecodeError(Incomplete, "record not terminated", line)
		}
		return nil, newDecodeError(Malformed, "record is not an object", line)
	}

	kind := str(root, "event")
	if kind == "" {
		return nil, newDecodeError(Malformed, "missing event kind", line)
	}

	base := Base{Kind: kind, Timestamp: timestamp(root)}
	if decoder, ok := decoders[kind]; ok {
		return decoder(base, root), nil
	}
	return Unhandled{Base: base}, nil
}

type decoderFunc func(Base, gjson.Result) Event

var decoders = map[string]decoderFunc{
	"LoadGame":                 decodeLoadGame,
	"Commander":                decodeCommander,
	"Location":                 decodeLocation,
	"FSDJump":                  decodeFSDJump,
	"CarrierJump":              decodeFSDJump,
	"StartJump":                decodeStartJump,
	"ApproachBody":             decodeApproachBody,
	"Touchdown":                decodeApproachBody,
	"SupercruiseExit":          decodeApproachBody,
	"LeaveBody":                decodeLeaveBody,
	"FSSDiscoveryScan":         decodeFSSDiscoveryScan,
	"FSSAllBodiesFound":        decodeFSSAllBodiesFound,
	"FSSSignalDiscovered":      decodeFSSSignalDiscovered,
	"Scan":                     decodeScan,
	"SAAScanComplete":          decodeSAAScanComplete,
	"FSSBodySignals":           decodeFSSBodySignals,
	"SAASignalsFound":          decodeSAASignalsFound,
	"ScanOrganic":              decodeScanOrganic,
	"CodexEntry":               decodeCodexEntry,
	"ShipTargeted":             decodeShipTargeted,
	"Bounty":                   decodeBounty,
	"FactionKillBond":          decodeFactionKillBond,
	"Powerplay":                decodePowerplayStatus,
	"PowerplayJoin":            decodePowerplayAction,
	"PowerplayLeave":           decodePowerplayAction,
	"PowerplayDefect":          decodePowerplayAction,
	"PowerplayCollect":         decodePowerplayAction,
	"PowerplayDeliver":         decodePowerplayAction,
	"PowerplayFastTrack":       decodePowerplayAction,
	"PowerplaySalary":          decodePowerplayAction,
	"PowerplayVote":            decodePowerplayAction,
	"PowerplayVoucher":         decodePowerplayAction,
	"PowerplayMerits":          decodePowerplayAction,
	"PowerplayRank":            decodePowerplayAction,
	"Cargo":                    decodeCargo,
	"Materials":                decodeMaterials,
	"ShipLocker":               decodeShipLocker,
	"CommunityGoal":            decodeCommunityGoal,
	"CommunityGoalJoin":        decodeCommunityGoalUpdate,
	"CommunityGoalDiscard":     decodeCommunityGoalUpdate,
	"CommunityGoalReward":      decodeCommunityGoalUpdate,
	"MultiSellExplorationData": decodeExplorationSale,
	"SellExplorationData":      decodeExplorationSale,
	"SellOrganicData":          decodeOrganicSale,
	"RedeemVoucher":            decodeRedeemVoucher,
}

func decodeLoadGame(b Base, r gjson.Result) Event {
	return LoadGame{
		Base:          b,
		Commander:     str(r, "Commander"),
		FID:           str(r, "FID"),
		Ship:          localised(r, "Ship"),
		ShipID:        intOr0(r, "ShipID"),
		Credits:       intOr0(r, "Credits"),
		GameMode:      str(r, "GameMode"),
		StarSystem:    str(r, "StarSystem"),
		SystemAddress: intOr0(r, "SystemAddress"),
	}
}

func decodeCommander(b Base, r gjson.Result) Event {
	return Commander{Base: b, Name: str(r, "Name"), FID: str(r, "FID")}
}

func decodeLocation(b Base, r gjson.Result) Event {
	id, ok := bodyID(r, "BodyID")
	return Location{
		Base:        b,
		System:      systemInfo(r),
		Docked:      boolean(r, "Docked"),
		StationName: str(r, "StationName"),
		BodyName:    str(r, "Body"),
		BodyID:      id,
		HasBodyID:   ok,
		BodyType:    str(r, "BodyType"),
	}
}

func decodeFSDJump(b Base, r gjson.Result) Event {
	id, ok := bodyID(r, "BodyID")
	return FSDJump{
		Base:      b,
		System:    systemInfo(r),
		JumpDist:  float(r, "JumpDist"),
		FuelUsed:  float(r, "FuelUsed"),
		BodyName:  str(r, "Body"),
		BodyID:    id,
		HasBodyID: ok && b.Kind == "CarrierJump",
	}
}

func decodeStartJump(b Base, r gjson.Result) Event {
	return StartJump{
		Base:          b,
		JumpType:      str(r, "JumpType"),
		StarSystem:    str(r, "StarSystem"),
		SystemAddress: intOr0(r, "SystemAddress"),
		StarClass:     str(r, "StarClass"),
	}
}

func decodeApproachBody(b Base, r gjson.Result) Event {
	id, ok := bodyID(r, "BodyID")
	return ApproachBody{
		Base:          b,
		StarSystem:    str(r, "StarSystem"),
		SystemAddress: intOr0(r, "SystemAddress"),
		BodyName:      str(r, "Body"),
		BodyID:        id,
		HasBodyID:     ok,
	}
}

func decodeLeaveBody(b Base, r gjson.Result) Event {
	id, ok := bodyID(r, "BodyID")
	return LeaveBody{
		Base:          b,
		SystemAddress: intOr0(r, "SystemAddress"),
		BodyName:      str(r, "Body"),
		BodyID:        id,
		HasBodyID:     ok,
	}
}

func decodeFSSDiscoveryScan(b Base, r gjson.Result) Event {
	return FSSDiscoveryScan{
		Base:          b,
		SystemAddress: intOr0(r, "SystemAddress"),
		SystemName:    str(r, "SystemName"),
		BodyCount:     int(intOr0(r, "BodyCount")),
		NonBodyCount:  int(intOr0(r, "NonBodyCount")),
		Progress:      float(r, "Progress"),
	}
}

func decodeFSSAllBodiesFound(b Base, r gjson.Result) Event {
	return FSSAllBodiesFound{
		Base:          b,
		SystemAddress: intOr0(r, "SystemAddress"),
		SystemName:    str(r, "SystemName"),
		Count:         int(intOr0(r, "Count")),
	}
}

func decodeFSSSignalDiscovered(b Base, r gjson.Result) Event {
	threat, hasThreat := integer(r, "ThreatLevel")
	return FSSSignalDiscovered{
		Base:          b,
		SystemAddress: intOr0(r, "SystemAddress"),
		SignalName:    localised(r, "SignalName"),
		SignalType:    str(r, "SignalType"),
		USSType:       token(r, "USSType"),
		ThreatLevel:   int(threat),
		HasThreat:     hasThreat,
		IsStation:     boolean(r, "IsStation"),
		TimeRemaining: float(r, "TimeRemaining"),
	}
}

func decodeScan(b Base, r gjson.Result) Event {
	id, ok := bodyID(r, "BodyID")
	return Scan{
		Base:           b,
		ScanType:       str(r, "ScanType"),
		SystemAddress:  intOr0(r, "SystemAddress"),
		BodyName:       str(r, "BodyName"),
		BodyID:         id,
		HasBodyID:      ok,
		StarType:       str(r, "StarType"),
		PlanetClass:    str(r, "PlanetClass"),
		TerraformState: str(r, "TerraformState"),
		DistanceLS:     float(r, "DistanceFromArrivalLS"),
		Landable:       boolean(r, "Landable"),
		WasDiscovered:  boolean(r, "WasDiscovered"),
		WasMapped:      boolean(r, "WasMapped"),
		MassEM:         float(r, "MassEM"),
	}
}

func decodeSAAScanComplete(b Base, r gjson.Result) Event {
	id, ok := bodyID(r, "BodyID")
	return SAAScanComplete{
		Base:             b,
		SystemAddress:    intOr0(r, "SystemAddress"),
		BodyName:         str(r, "BodyName"),
		BodyID:           id,
		HasBodyID:        ok,
		ProbesUsed:       int(intOr0(r, "ProbesUsed")),
		EfficiencyTarget: int(intOr0(r, "EfficiencyTarget")),
	}
}

func signalCounts(r gjson.Result) SignalCounts {
	var counts SignalCounts
	r.Get("Signals").ForEach(func(_, s gjson.Result) bool {
		kind := strings.ToLower(str(s, "Type"))
		count := int(intOr0(s, "Count"))
		switch {
		case strings.Contains(kind, "biological"):
			counts.Biological += count
		case strings.Contains(kind, "geological"):
			counts.Geological += count
		}
		return true
	})
	return counts
}

func decodeFSSBodySignals(b Base, r gjson.Result) Event {
	id, ok := bodyID(r, "BodyID")
	return FSSBodySignals{
		Base:          b,
		SystemAddress: intOr0(r, "SystemAddress"),
		BodyName:      str(r, "BodyName"),
		BodyID:        id,
		HasBodyID:     ok,
		Signals:       signalCounts(r),
	}
}

func decodeSAASignalsFound(b Base, r gjson.Result) Event {
	id, ok := bodyID(r, "BodyID")
	evt := SAASignalsFound{
		Base:          b,
		SystemAddress: intOr0(r, "SystemAddress"),
		BodyName:      str(r, "BodyName"),
		BodyID:        id,
		HasBodyID:     ok,
		Signals:       signalCounts(r),
	}
	r.Get("Genuses").ForEach(func(_, g gjson.Result) bool {
		if genus := token(g, "Genus"); genus != "" {
			evt.Genuses = append(evt.Genuses, genus)
		}
		return true
	})
	return evt
}

func decodeScanOrganic(b Base, r gjson.Result) Event {
	id, ok := bodyID(r, "Body")
	return ScanOrganic{
		Base:          b,
		ScanType:      str(r, "ScanType"),
		SystemAddress: intOr0(r, "SystemAddress"),
		BodyID:        id,
		HasBodyID:     ok,
		Genus:         token(r, "Genus"),
		Species:       token(r, "Species"),
		Variant:       token(r, "Variant"),
	}
}

func decodeCodexEntry(b Base, r gjson.Result) Event {
	id, ok := bodyID(r, "BodyID")
	return CodexEntry{
		Base:          b,
		EntryID:       intOr0(r, "EntryID"),
		Name:          token(r, "Name"),
		Category:      token(r, "Category"),
		SubCategory:   token(r, "SubCategory"),
		System:        str(r, "System"),
		SystemAddress: intOr0(r, "SystemAddress"),
		BodyID:        id,
		HasBodyID:     ok,
		VoucherAmount: intOr0(r, "VoucherAmount"),
		IsNewEntry:    boolean(r, "IsNewEntry"),
	}
}

func decodeShipTargeted(b Base, r gjson.Result) Event {
	return ShipTargeted{
		Base:         b,
		TargetLocked: boolean(r, "TargetLocked"),
		Ship:         localised(r, "Ship"),
		ScanStage:    int(intOr0(r, "ScanStage")),
		PilotName:    localised(r, "PilotName"),
		PilotRank:    pilotRank(r),
		Faction:      str(r, "Faction"),
		LegalStatus:  str(r, "LegalStatus"),
		Bounty:       intOr0(r, "Bounty"),
		Power:        str(r, "Power"),
		ShieldHealth: float(r, "ShieldHealth"),
		HullHealth:   float(r, "HullHealth"),
	}
}

func pilotRank(r gjson.Result) string {
	v := r.Get("PilotRank")
	switch v.Type {
	case gjson.Number:
		return domain.PilotRankName(int(v.Int()))
	case gjson.String:
		if n, err := strconv.Atoi(strings.TrimSpace(v.Str)); err == nil {
			return domain.PilotRankName(n)
		}
		return strings.TrimSpace(v.Str)
	}
	return ""
}

func decodeBounty(b Base, r gjson.Result) Event {
	reward := intOr0(r, "TotalReward")
	if reward == 0 {
		reward = intOr0(r, "Reward")
	}
	return Bounty{
		Base:          b,
		Target:        localised(r, "Target"),
		VictimFaction: str(r, "VictimFaction"),
		PilotName:     localised(r, "PilotName"),
		TotalReward:   reward,
	}
}

func decodeFactionKillBond(b Base, r gjson.Result) Event {
	return FactionKillBond{
		Base:            b,
		Reward:          intOr0(r, "Reward"),
		AwardingFaction: str(r, "AwardingFaction"),
		VictimFaction:   str(r, "VictimFaction"),
	}
}

func decodePowerplayStatus(b Base, r gjson.Result) Event {
	return PowerplayStatus{
		Base:        b,
		Power:       str(r, "Power"),
		Rank:        int(intOr0(r, "Rank")),
		Merits:      intOr0(r, "Merits"),
		TimePledged: intOr0(r, "TimePledged"),
	}
}

func decodePowerplayAction(b Base, r gjson.Result) Event {
	merits := intOr0(r, "MeritsGained")
	if merits == 0 {
		merits = intOr0(r, "Merits")
	}
	return PowerplayAction{
		Base:      b,
		Power:     str(r, "Power"),
		FromPower: str(r, "FromPower"),
		ToPower:   str(r, "ToPower"),
		Type:      localised(r, "Type"),
		Count:     int(intOr0(r, "Count")),
		Cost:      intOr0(r, "Cost"),
		Amount:    intOr0(r, "Amount"),
		Merits:    merits,
		Rank:      int(intOr0(r, "Rank")),
		Votes:     int(intOr0(r, "Votes")),
		Systems:   stringList(r, "Systems"),
	}
}

func decodeCargo(b Base, r gjson.Result) Event {
	return Cargo{
		Base:         b,
		Vessel:       str(r, "Vessel"),
		Count:        int(intOr0(r, "Count")),
		Items:        inventory(r, "Inventory"),
		HasInventory: r.Get("Inventory").IsArray(),
	}
}

func decodeMaterials(b Base, r gjson.Result) Event {
	return Materials{
		Base:         b,
		Raw:          inventory(r, "Raw"),
		Manufactured: inventory(r, "Manufactured"),
		Encoded:      inventory(r, "Encoded"),
	}
}

func decodeShipLocker(b Base, r gjson.Result) Event {
	e := ShipLocker{
		Base:        b,
		Items:       inventory(r, "Items"),
		Components:  inventory(r, "Components"),
		Consumables: inventory(r, "Consumables"),
		Data:        inventory(r, "Data"),
	}
	for _, key := range []string{"Items", "Components", "Consumables", "Data"} {
		if r.Get(key).IsArray() {
			e.HasContents = true
		}
	}
	return e
}

func decodeCommunityGoal(b Base, r gjson.Result) Event {
	e := CommunityGoal{Base: b}
	r.Get("CurrentGoals").ForEach(func(_, g gjson.Result) bool {
		id, ok := integer(g, "CGID")
		if !ok {
			return true
		}
		e.Goals = append(e.Goals, CommunityGoalProgress{
			ID:                 id,
			Title:              str(g, "Title"),
			SystemName:         str(g, "SystemName"),
			MarketName:         str(g, "MarketName"),
			Expiry:             timeField(g, "Expiry"),
			IsComplete:         boolean(g, "IsComplete"),
			CurrentTotal:       intOr0(g, "CurrentTotal"),
			PlayerContribution: intOr0(g, "PlayerContribution"),
			NumContributors:    intOr0(g, "NumContributors"),
			PercentileBand:     int(intOr0(g, "PlayerPercentileBand")),
			TierReached:        str(g, "TierReached"),
			Bonus:              intOr0(g, "Bonus"),
		})
		return true
	})
	return e
}

func decodeCommunityGoalUpdate(b Base, r gjson.Result) Event {
	return CommunityGoalUpdate{
		Base:       b,
		ID:         intOr0(r, "CGID"),
		Name:       str(r, "Name"),
		SystemName: str(r, "System"),
		Reward:     intOr0(r, "Reward"),
	}
}

func decodeExplorationSale(b Base, r gjson.Result) Event {
	earnings, ok := integer(r, "TotalEarnings")
	if !ok {
		earnings = intOr0(r, "BaseValue") + intOr0(r, "Bonus")
	}
	return ExplorationSale{Base: b, Earnings: earnings}
}

func decodeOrganicSale(b Base, r gjson.Result) Event {
	var earnings int64
	r.Get("BioData").ForEach(func(_, item gjson.Result) bool {
		earnings += intOr0(item, "Value") + intOr0(item, "Bonus")
		return true
	})
	return OrganicSale{Base: b, Earnings: earnings}
}

func decodeRedeemVoucher(b Base, r gjson.Result) Event {
	return RedeemVoucher{Base: b, Type: str(r, "Type"), Amount: intOr0(r, "Amount")}
}
