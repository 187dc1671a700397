package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		line  string
		check func(t *testing.T, evt Event)
	}{
		{
			name: "fsd jump with system metadata",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"FSDJump","StarSystem":"Alpha Centauri","SystemAddress":1099503323,"StarClass":"G","SystemAllegiance":"Federation","SystemGovernment":"$government_Democracy;","SystemGovernment_Localised":"Democracy","SystemEconomy":"$economy_HighTech;","SystemSecurity":"$SYSTEM_SECURITY_high;","Population":12000,"SystemFaction":{"Name":"Alpha Union"},"ControllingPower":"Zachary Hudson","Powers":["Zachary Hudson","Felicia Winters"],"PowerplayState":"Fortified","JumpDist":4.38,"FuelUsed":0.3}`,
			check: func(t *testing.T, evt Event) {
				jump, ok := evt.(FSDJump)
				require.True(t, ok)
				assert.Equal(t, "FSDJump", jump.EventKind())
				assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), jump.At())
				assert.Equal(t, "Alpha Centauri", jump.System.Name)
				assert.Equal(t, int64(1099503323), jump.System.Address)
				assert.Equal(t, "Democracy", jump.System.Government)
				assert.Equal(t, "HighTech", jump.System.Economy)
				assert.Equal(t, "High", jump.System.Security)
				assert.Equal(t, "Alpha Union", jump.System.ControllingFaction)
				assert.Equal(t, []string{"Zachary Hudson", "Felicia Winters"}, jump.System.Powers)
				assert.InDelta(t, 4.38, jump.JumpDist, 0.0001)
				assert.False(t, jump.HasBodyID)
			},
		},
		{
			name: "carrier jump keeps body",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"CarrierJump","StarSystem":"Sol","SystemAddress":10477373803,"Body":"Sol 3","BodyID":3}`,
			check: func(t *testing.T, evt Event) {
				jump, ok := evt.(FSDJump)
				require.True(t, ok)
				assert.Equal(t, "CarrierJump", jump.Kind)
				assert.True(t, jump.HasBodyID)
				assert.Equal(t, 3, jump.BodyID)
			},
		},
		{
			name: "scan with body zero",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"Scan","ScanType":"Detailed","BodyName":"Sol","BodyID":0,"SystemAddress":10477373803,"StarType":"G","DistanceFromArrivalLS":0.0}`,
			check: func(t *testing.T, evt Event) {
				scan, ok := evt.(Scan)
				require.True(t, ok)
				assert.True(t, scan.HasBodyID)
				assert.Equal(t, 0, scan.BodyID)
				assert.True(t, scan.IsStar())
			},
		},
		{
			name: "ship locker with contents",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"ShipLocker","Items":[{"Name":"HealthMonitor","Name_Localised":"Health Monitor","OwnerID":0,"Count":2}],"Components":[{"Name":"Graphene","Count":5}],"Consumables":[{"Name":"Bypass","Name_Localised":"E-Breach","Count":1}],"Data":[]}`,
			check: func(t *testing.T, evt Event) {
				locker, ok := evt.(ShipLocker)
				require.True(t, ok)
				assert.True(t, locker.HasContents)
				require.Len(t, locker.Items, 1)
				assert.Equal(t, "healthmonitor", locker.Items[0].Name)
				assert.Equal(t, "Health Monitor", locker.Items[0].DisplayName())
				assert.Equal(t, 5, locker.Components[0].Count)
				assert.Empty(t, locker.Data)
			},
		},
		{
			name: "ship locker without contents",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"ShipLocker"}`,
			check: func(t *testing.T, evt Event) {
				locker, ok := evt.(ShipLocker)
				require.True(t, ok)
				assert.False(t, locker.HasContents)
			},
		},
		{
			name: "community goal status",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"CommunityGoal","CurrentGoals":[{"CGID":726,"Title":"Alliance Research Initiative","SystemName":"Kaushpoos","MarketName":"Neville Horizons","Expiry":"2024-03-07T06:00:00Z","IsComplete":false,"CurrentTotal":10062,"PlayerContribution":562,"NumContributors":101,"TopTier":{"Name":"Tier 5","Bonus":""},"PlayerPercentileBand":50,"TierReached":"Tier 1","Bonus":200000},{"Title":"no id"}]}`,
			check: func(t *testing.T, evt Event) {
				cg, ok := evt.(CommunityGoal)
				require.True(t, ok)
				require.Len(t, cg.Goals, 1)
				goal := cg.Goals[0]
				assert.Equal(t, int64(726), goal.ID)
				assert.Equal(t, "Kaushpoos", goal.SystemName)
				assert.Equal(t, time.Date(2024, 3, 7, 6, 0, 0, 0, time.UTC), goal.Expiry)
				assert.Equal(t, int64(562), goal.PlayerContribution)
				assert.Equal(t, 50, goal.PercentileBand)
				assert.Equal(t, "Tier 1", goal.TierReached)
			},
		},
		{
			name: "community goal join",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"CommunityGoalJoin","CGID":726,"Name":"Alliance Research Initiative","System":"Kaushpoos"}`,
			check: func(t *testing.T, evt Event) {
				join, ok := evt.(CommunityGoalUpdate)
				require.True(t, ok)
				assert.Equal(t, "CommunityGoalJoin", join.Kind)
				assert.Equal(t, int64(726), join.ID)
				assert.Equal(t, "Kaushpoos", join.SystemName)
			},
		},
		{
			name: "planet scan",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"Scan","ScanType":"AutoScan","BodyName":"Sol 3","BodyID":3,"SystemAddress":10477373803,"PlanetClass":"Earthlike body","TerraformState":"Terraformable","Landable":false,"WasDiscovered":true,"WasMapped":false,"DistanceFromArrivalLS":499.2}`,
			check: func(t *testing.T, evt Event) {
				scan, ok := evt.(Scan)
				require.True(t, ok)
				assert.Equal(t, "Earthlike body", scan.PlanetClass)
				assert.True(t, scan.Terraformable())
				assert.True(t, scan.WasDiscovered)
				assert.False(t, scan.IsStar())
			},
		},
		{
			name: "saa signals with genuses",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"SAASignalsFound","BodyName":"Alpha 2 a","SystemAddress":1099503323,"BodyID":7,"Signals":[{"Type":"$SAA_SignalType_Biological;","Type_Localised":"Biological","Count":2},{"Type":"$SAA_SignalType_Geological;","Count":3}],"Genuses":[{"Genus":"$Codex_Ent_Bacterial_Genus_Name;","Genus_Localised":"Bacterium"},{"Genus":"$Codex_Ent_Stratum_Genus_Name;","Genus_Localised":"Stratum"}]}`,
			check: func(t *testing.T, evt Event) {
				found, ok := evt.(SAASignalsFound)
				require.True(t, ok)
				assert.Equal(t, SignalCounts{Biological: 2, Geological: 3}, found.Signals)
				assert.Equal(t, []string{"Bacterium", "Stratum"}, found.Genuses)
			},
		},
		{
			name: "scan organic prefers localised names",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"ScanOrganic","ScanType":"Sample","Genus":"$Codex_Ent_Stratum_Genus_Name;","Genus_Localised":"Stratum","Species":"$Codex_Ent_Stratum_07_Name;","Species_Localised":"Stratum Tectonicas","Variant":"$Codex_Ent_Stratum_07_M_Name;","Variant_Localised":"Stratum Tectonicas - Lime","SystemAddress":1099503323,"Body":7}`,
			check: func(t *testing.T, evt Event) {
				scan, ok := evt.(ScanOrganic)
				require.True(t, ok)
				assert.Equal(t, "Sample", scan.ScanType)
				assert.Equal(t, "Stratum", scan.Genus)
				assert.Equal(t, "Stratum Tectonicas", scan.Species)
				assert.Equal(t, "Stratum Tectonicas - Lime", scan.Variant)
				assert.Equal(t, 7, scan.BodyID)
			},
		},
		{
			name: "ship targeted with numeric rank",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"ShipTargeted","TargetLocked":true,"Ship":"anaconda","Ship_Localised":"Anaconda","ScanStage":3,"PilotName":"$npc_name_decorate:#name=Jo Smith;","PilotName_Localised":"Jo Smith","PilotRank":6,"Faction":"Pirates","LegalStatus":"Wanted","Bounty":600000,"Power":"Arissa Lavigny-Duval"}`,
			check: func(t *testing.T, evt Event) {
				target, ok := evt.(ShipTargeted)
				require.True(t, ok)
				assert.True(t, target.TargetLocked)
				assert.Equal(t, "Anaconda", target.Ship)
				assert.Equal(t, "Jo Smith", target.PilotName)
				assert.Equal(t, "Dangerous", target.PilotRank)
				assert.Equal(t, int64(600000), target.Bounty)
			},
		},
		{
			name: "powerplay merits",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"PowerplayMerits","Power":"Zachary Hudson","MeritsGained":120,"TotalMerits":5000}`,
			check: func(t *testing.T, evt Event) {
				action, ok := evt.(PowerplayAction)
				require.True(t, ok)
				assert.Equal(t, "PowerplayMerits", action.Kind)
				assert.Equal(t, int64(120), action.Merits)
			},
		},
		{
			name: "cargo inventory lower-cases names",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"Cargo","Vessel":"Ship","Count":6,"Inventory":[{"Name":"Drones","Name_Localised":"Limpet","Count":4,"Stolen":0},{"Name":"gold","Count":2,"Stolen":1}]}`,
			check: func(t *testing.T, evt Event) {
				cargo, ok := evt.(Cargo)
				require.True(t, ok)
				require.Len(t, cargo.Items, 2)
				assert.Equal(t, "drones", cargo.Items[0].Name)
				assert.Equal(t, "Limpet", cargo.Items[0].DisplayName())
				assert.Equal(t, 1, cargo.Items[1].Stolen)
			},
		},
		{
			name: "organic sale sums values and bonuses",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"SellOrganicData","BioData":[{"Species":"x","Value":1000,"Bonus":4000},{"Species":"y","Value":500,"Bonus":0}]}`,
			check: func(t *testing.T, evt Event) {
				sale, ok := evt.(OrganicSale)
				require.True(t, ok)
				assert.Equal(t, int64(5500), sale.Earnings)
			},
		},
		{
			name: "unknown kind is unhandled",
			line: `{"timestamp":"2024-03-01T10:00:00Z","event":"Music","MusicTrack":"Exploration"}`,
			check: func(t *testing.T, evt Event) {
				unhandled, ok := evt.(Unhandled)
				require.True(t, ok)
				assert.Equal(t, "Music", unhandled.EventKind())
			},
		},
		{
			name: "invalid timestamp leaves zero time",
			line: `{"timestamp":"yesterday","event":"Commander","Name":"Jameson","FID":"F1"}`,
			check: func(t *testing.T, evt Event) {
				cmdr, ok := evt.(Commander)
				require.True(t, ok)
				assert.True(t, cmdr.At().IsZero())
				assert.Equal(t, "Jameson", cmdr.Name)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			evt, err := Decode([]byte(tt.line + "\n"))
			require.NoError(t, err)
			tt.check(t, evt)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "empty line", raw: "\n", want: ErrEmpty},
		{name: "blank crlf", raw: " \r\n", want: ErrEmpty},
		{name: "truncated unterminated", raw: `{"timestamp":"2024-03-01T10:00:00Z","event":"Sc`, want: ErrIncomplete},
		{name: "truncated terminated", raw: `{"timestamp":"2024-03-01T10:00:00Z","event":"Sc` + "\n", want: ErrMalformed},
		{name: "garbage terminated", raw: "not json at all\n", want: ErrMalformed},
		{name: "missing event kind", raw: `{"timestamp":"2024-03-01T10:00:00Z"}` + "\n", want: ErrMalformed},
		{name: "non string event kind", raw: `{"event":42}` + "\n", want: ErrMalformed},
		{name: "array terminated", raw: "[1,2]\n", want: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			evt, err := Decode([]byte(tt.raw))
			require.Error(t, err)
			assert.Nil(t, evt)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeUnterminatedCompleteRecord(t *testing.T) {
	t.Parallel()

	evt, err := Decode([]byte(`{"timestamp":"2024-03-01T10:00:00Z","event":"LeaveBody","SystemAddress":5,"Body":"X 1","BodyID":1}`))
	require.NoError(t, err)

	leave, ok := evt.(LeaveBody)
	require.True(t, ok)
	assert.Equal(t, int64(5), leave.SystemAddress)
}

func TestDecodeErrorKind(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte("{oops}\n"))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, Malformed, decodeErr.Kind)
	assert.NotErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "malformed")
}

func TestPrettyToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "$government_Corporate;", want: "Corporate"},
		{raw: "$SYSTEM_SECURITY_medium;", want: "Medium"},
		{raw: "$economy_Extraction;", want: "Extraction"},
		{raw: "$USS_Type_Salvage;", want: "USS Type Salvage"},
		{raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, PrettyToken(tt.raw))
		})
	}
}

func TestSystemAddressOf(t *testing.T) {
	t.Parallel()

	addr, ok := SystemAddressOf(Scan{SystemAddress: 42})
	assert.True(t, ok)
	assert.Equal(t, int64(42), addr)

	_, ok = SystemAddressOf(Cargo{})
	assert.False(t, ok)
}
