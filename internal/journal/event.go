package journal

import (
	"time"

	"github.com/bnema/edc/internal/domain"
)

// Event is a decoded journal record. The set of implementations is closed.
type Event interface {
	EventKind() string
	At() time.Time
	isEvent()
}

// Base is the header shared by every variant.
type Base struct {
	Kind      string
	Timestamp time.Time
}

func (b Base) EventKind() string { return b.Kind }
func (b Base) At() time.Time     { return b.Timestamp }
func (Base) isEvent()            {}

type LoadGame struct {
	Base
	Commander     string
	FID           string
	Ship          string
	ShipID        int64
	Credits       int64
	GameMode      string
	StarSystem    string
	SystemAddress int64
}

type Commander struct {
	Base
	Name string
	FID  string
}

type Location struct {
	Base
	System      domain.SystemInfo
	Docked      bool
	StationName string
	BodyName    string
	BodyID      int
	HasBodyID   bool
	BodyType    string
}

// FSDJump covers both FSDJump and CarrierJump records.
type FSDJump struct {
	Base
	System    domain.SystemInfo
	JumpDist  float64
	FuelUsed  float64
	BodyName  string
	BodyID    int
	HasBodyID bool
}

type StartJump struct {
	Base
	JumpType      string
	StarSystem    string
	SystemAddress int64
	StarClass     string
}

func (e StartJump) Hyperspace() bool {
	return e.JumpType == "Hyperspace"
}

// ApproachBody covers ApproachBody, Touchdown and SupercruiseExit records.
type ApproachBody struct {
	Base
	StarSystem    string
	SystemAddress int64
	BodyName      string
	BodyID        int
	HasBodyID     bool
}

type LeaveBody struct {
	Base
	SystemAddress int64
	BodyName      string
	BodyID        int
	HasBodyID     bool
}

type FSSDiscoveryScan struct {
	Base
	SystemAddress int64
	SystemName    string
	BodyCount     int
	NonBodyCount  int
	Progress      float64
}

type FSSAllBodiesFound struct {
	Base
	SystemAddress int64
	SystemName    string
	Count         int
}

type FSSSignalDiscovered struct {
	Base
	SystemAddress int64
	SignalName    string
	SignalType    string
	USSType       string
	ThreatLevel   int
	HasThreat     bool
	IsStation     bool
	TimeRemaining float64
}

type Scan struct {
	Base
	ScanType       string
	SystemAddress  int64
	BodyName       string
	BodyID         int
	HasBodyID      bool
	StarType       string
	PlanetClass    string
	TerraformState string
	DistanceLS     float64
	Landable       bool
	WasDiscovered  bool
	WasMapped      bool
	MassEM         float64
}

func (e Scan) Terraformable() bool {
	return e.TerraformState != "" && e.TerraformState != "Terraformed"
}

func (e Scan) IsStar() bool {
	return e.StarType != ""
}

type SAAScanComplete struct {
	Base
	SystemAddress    int64
	BodyName         string
	BodyID           int
	HasBodyID        bool
	ProbesUsed       int
	EfficiencyTarget int
}

type SignalCounts struct {
	Biological int
	Geological int
}

type FSSBodySignals struct {
	Base
	SystemAddress int64
	BodyName      string
	BodyID        int
	HasBodyID     bool
	Signals       SignalCounts
}

type SAASignalsFound struct {
	Base
	SystemAddress int64
	BodyName      string
	BodyID        int
	HasBodyID     bool
	Signals       SignalCounts
	Genuses       []string
}

type ScanOrganic struct {
	Base
	ScanType      string
	SystemAddress int64
	BodyID        int
	HasBodyID     bool
	Genus         string
	Species       string
	Variant       string
}

type CodexEntry struct {
	Base
	EntryID       int64
	Name          string
	Category      string
	SubCategory   string
	System        string
	SystemAddress int64
	BodyID        int
	HasBodyID     bool
	VoucherAmount int64
	IsNewEntry    bool
}

type ShipTargeted struct {
	Base
	TargetLocked bool
	Ship         string
	ScanStage    int
	PilotName    string
	PilotRank    string
	Faction      string
	LegalStatus  string
	Bounty       int64
	Power        string
	ShieldHealth float64
	HullHealth   float64
}

type Bounty struct {
	Base
	Target        string
	VictimFaction string
	PilotName     string
	TotalReward   int64
}

type FactionKillBond struct {
	Base
	Reward          int64
	AwardingFaction string
	VictimFaction   string
}

type PowerplayStatus struct {
	Base
	Power       string
	Rank        int
	Merits      int64
	TimePledged int64
}

// PowerplayAction covers the Powerplay* action records. Kind keeps the
// original record name.
type PowerplayAction struct {
	Base
	Power     string
	FromPower string
	ToPower   string
	Type      string
	Count     int
	Cost      int64
	Amount    int64
	Merits    int64
	Rank      int
	Votes     int
	Systems   []string
}

type Cargo struct {
	Base
	Vessel       string
	Count        int
	Items        []domain.InventoryItem
	HasInventory bool
}

type Materials struct {
	Base
	Raw          []domain.InventoryItem
	Manufactured []domain.InventoryItem
	Encoded      []domain.InventoryItem
}

// ShipLocker is the on-foot locker inventory. The journal record only
// carries the lists when written at startup; HasContents is false otherwise.
type ShipLocker struct {
	Base
	Items       []domain.InventoryItem
	Components  []domain.InventoryItem
	Consumables []domain.InventoryItem
	Data        []domain.InventoryItem
	HasContents bool
}

type CommunityGoalProgress struct {
	ID                 int64
	Title              string
	SystemName         string
	MarketName         string
	Expiry             time.Time
	IsComplete         bool
	CurrentTotal       int64
	PlayerContribution int64
	NumContributors    int64
	PercentileBand     int
	TierReached        string
	Bonus              int64
}

// CommunityGoal is the periodic status record for every joined goal.
type CommunityGoal struct {
	Base
	Goals []CommunityGoalProgress
}

// CommunityGoalUpdate covers CommunityGoalJoin, CommunityGoalDiscard and
// CommunityGoalReward.
type CommunityGoalUpdate struct {
	Base
	ID         int64
	Name       string
	SystemName string
	Reward     int64
}

// ExplorationSale covers MultiSellExplorationData and SellExplorationData.
type ExplorationSale struct {
	Base
	Earnings int64
}

type OrganicSale struct {
	Base
	Earnings int64
}

type RedeemVoucher struct {
	Base
	Type   string
	Amount int64
}

// Unhandled is any well-formed record of a kind nothing derives state from.
type Unhandled struct {
	Base
}

// SystemAddressOf reports the system address an event is tied to, if any.
func SystemAddressOf(evt Event) (int64, bool) {
	var addr int64
	switch e := evt.(type) {
	case ApproachBody:
		addr = e.SystemAddress
	case LeaveBody:
		addr = e.SystemAddress
	case FSSDiscoveryScan:
		addr = e.SystemAddress
	case FSSAllBodiesFound:
		addr = e.SystemAddress
	case FSSSignalDiscovered:
		addr = e.SystemAddress
	case Scan:
		addr = e.SystemAddress
	case SAAScanComplete:
		addr = e.SystemAddress
	case FSSBodySignals:
		addr = e.SystemAddress
	case SAASignalsFound:
		addr = e.SystemAddress
	case ScanOrganic:
		addr = e.SystemAddress
	case CodexEntry:
		addr = e.SystemAddress
	}
	return addr, addr > 0
}
