package hud

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/edc/internal/application"
	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/ports/mocks"
)

var now = time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

const (
	lineLoadGame  = `{"timestamp":"2026-02-14T10:00:00Z","event":"LoadGame","Commander":"Jameson","Ship":"krait_mkii","Ship_Localised":"Krait Mk II","Credits":5000000}`
	lineLocation  = `{"timestamp":"2026-02-14T10:00:05Z","event":"Location","StarSystem":"Shinrarta Dezhra","SystemAddress":3932277478106,"StarClass":"K","SystemAllegiance":"PilotsFederation","SystemEconomy":"$economy_HighTech;","SystemEconomy_Localised":"High Tech","Population":85000000}`
	lineScanELW   = `{"timestamp":"2026-02-14T10:01:00Z","event":"Scan","ScanType":"Detailed","BodyName":"Shinrarta Dezhra A 1","BodyID":4,"SystemAddress":3932277478106,"PlanetClass":"Earthlike body","TerraformState":"","Landable":false,"WasDiscovered":false,"WasMapped":false}`
	lineScanIcy   = `{"timestamp":"2026-02-14T10:01:30Z","event":"Scan","ScanType":"Detailed","BodyName":"Shinrarta Dezhra A 2","BodyID":5,"SystemAddress":3932277478106,"PlanetClass":"Icy body","Landable":true,"WasDiscovered":true,"WasMapped":false}`
	lineBioSignal = `{"timestamp":"2026-02-14T10:02:00Z","event":"FSSBodySignals","BodyName":"Shinrarta Dezhra A 2","BodyID":5,"SystemAddress":3932277478106,"Signals":[{"Type":"$SAA_SignalType_Biological;","Type_Localised":"Biological","Count":2}]}`
	lineLocker    = `{"timestamp":"2026-02-14T10:04:00Z","event":"ShipLocker","Items":[{"Name":"largecapacitypowerregulator","Name_Localised":"Power Regulator","OwnerID":0,"Count":2}],"Components":[{"Name":"graphene","OwnerID":0,"Count":5}],"Consumables":[],"Data":[]}`
	lineCGStatus  = `{"timestamp":"2026-02-14T10:05:00Z","event":"CommunityGoal","CurrentGoals":[{"CGID":726,"Title":"Alliance Research Initiative","SystemName":"Kanati","MarketName":"Bokeili Station","Expiry":"2026-02-20T06:00:00Z","IsComplete":false,"CurrentTotal":4300,"PlayerContribution":120,"NumContributors":812,"PlayerPercentileBand":25,"TierReached":"Tier 2","Bonus":2500000}]}`
	lineTargeted  = `{"timestamp":"2026-02-14T10:03:00Z","event":"ShipTargeted","TargetLocked":true,"Ship":"python","Ship_Localised":"Python","ScanStage":3,"PilotName":"$npc_name_decorate:#name=Kestrel;","PilotName_Localised":"Kestrel","PilotRank":"Deadly","Faction":"Outlaws","LegalStatus":"Wanted","Bounty":750000}`
)

func referenceTable(t *testing.T) *mocks.MockReferenceLookup {
	ref := mocks.NewMockReferenceLookup(t)
	ref.EXPECT().BodyValue(mock.AnythingOfType("domain.BodyValueKey")).RunAndReturn(func(k domain.BodyValueKey) (int64, bool) {
		switch k.Class {
		case "Earthlike body":
			return 702_754, true
		case "Icy body":
			return 500, true
		}
		return 0, false
	}).Maybe()
	ref.EXPECT().SpeciesValue(mock.AnythingOfType("string")).Return(domain.SpeciesFact{}, false).Maybe()
	return ref
}

func newStore(t *testing.T) (*application.Engine, *application.Store) {
	t.Helper()
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(now).Maybe()

	store := application.NewStore(application.NewSnapshot(domain.DefaultThresholds(), referenceTable(t)))
	return application.NewEngine(store, nil, nil, clock), store
}

func ingest(engine *application.Engine, records ...string) {
	engine.Ingest([]byte(strings.Join(records, "\n") + "\n"))
}

func TestRenderWithoutSystem(t *testing.T) {
	_, store := newStore(t)

	output, err := Render(store.Snapshot().Current(), RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "Elite Dangerous Companion")
	assert.Contains(t, output, "CMDR unknown")
	assert.Contains(t, output, "No current system yet.")
	assert.NotContains(t, output, "stale")
}

func TestRenderCurrentSystem(t *testing.T) {
	engine, store := newStore(t)
	ingest(engine, lineLoadGame, lineLocation, lineScanELW, lineScanIcy, lineBioSignal)

	output, err := Render(store.Snapshot().Current(), RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "CMDR Jameson")
	assert.Contains(t, output, "Krait Mk II")
	assert.Contains(t, output, "Shinrarta Dezhra")
	assert.Contains(t, output, "economy: High Tech")
	assert.Contains(t, output, "high value >= 100.0k: 1")
	assert.Contains(t, output, "Shinrarta Dezhra A 1")
	assert.Contains(t, output, "702.8k")
	assert.Contains(t, output, "first")
	assert.Contains(t, output, "Exobiology")
	assert.Contains(t, output, "2 signals")
	assert.NotContains(t, output, "Contacts")
}

func TestRenderSessionLockerAndGoals(t *testing.T) {
	engine, store := newStore(t)
	ingest(engine, lineLoadGame, lineLocation, lineLocker, lineCGStatus)

	view := store.Snapshot().Current()
	output, err := Render(view, RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Equal(t, 7, view.Locker.Total())
	require.Len(t, view.Goals, 1)
	assert.Contains(t, output, "ship locker: 7 items")
	assert.Contains(t, output, "CG Alliance Research Initiative @ Kanati")
	assert.Contains(t, output, "top 25%")
	assert.Contains(t, output, "Tier 2")
}

func TestRenderHighValueOnlyHidesCheapBodies(t *testing.T) {
	engine, store := newStore(t)
	ingest(engine, lineLoadGame, lineLocation, lineScanELW, lineScanIcy)

	output, err := Render(store.Snapshot().Current(), RenderOptions{Now: now, HighValueOnly: true})

	require.NoError(t, err)
	assert.Contains(t, output, "Shinrarta Dezhra A 1")
	assert.NotContains(t, output, "Icy body")
}

func TestRenderMaxBodiesTruncates(t *testing.T) {
	engine, store := newStore(t)
	ingest(engine, lineLoadGame, lineLocation, lineScanELW, lineScanIcy)

	output, err := Render(store.Snapshot().Current(), RenderOptions{Now: now, MaxBodies: 1})

	require.NoError(t, err)
	assert.Contains(t, output, "... 1 more")
}

func TestRenderContacts(t *testing.T) {
	engine, store := newStore(t)
	ingest(engine, lineLoadGame, lineLocation, lineTargeted)

	output, err := Render(store.Snapshot().Current(), RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "Contacts")
	assert.Contains(t, output, "Kestrel (Python)")
	assert.Contains(t, output, "bounty 750.0k")
}

func TestRenderStaleAdvisory(t *testing.T) {
	engine, store := newStore(t)
	ingest(engine, lineLoadGame, lineLocation)
	engine.ReportGap(domain.IngestionGap{Reason: "journal truncated", DetectedAt: now.Add(-5 * time.Minute)})

	output, err := Render(store.Snapshot().Current(), RenderOptions{Now: now})

	require.NoError(t, err)
	assert.Contains(t, output, "[stale] journal truncated 5m ago")
}

func TestLiveModelFollowsStore(t *testing.T) {
	engine, store := newStore(t)
	updates, cancel := store.Subscribe()
	defer cancel()

	m := NewLiveModel(store, updates, RenderOptions{})
	m.now = func() time.Time { return now }
	assert.Contains(t, m.View(), "Waiting for journal events")

	ingest(engine, lineLoadGame, lineLocation)
	version := store.Snapshot().Version()

	next, cmd := m.Update(versionMsg(version))
	require.NotNil(t, cmd)
	live := next.(LiveModel)
	assert.Contains(t, live.View(), "Shinrarta Dezhra")
	assert.Contains(t, live.View(), "q quit")

	next, _ = live.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	assert.True(t, next.(LiveModel).opts.HighValueOnly)

	_, cmd = live.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestLiveModelQuitsWhenUpdatesClose(t *testing.T) {
	_, store := newStore(t)
	updates, cancel := store.Subscribe()

	m := NewLiveModel(store, updates, RenderOptions{})
	cancel()

	msg := m.waitForVersion()()
	assert.Equal(t, updatesClosedMsg{}, msg)

	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestLiveModelWaitsForVersion(t *testing.T) {
	engine, store := newStore(t)
	updates, cancel := store.Subscribe()
	defer cancel()

	m := NewLiveModel(store, updates, RenderOptions{})
	ingest(engine, lineLoadGame)

	msg := m.waitForVersion()()
	assert.Equal(t, versionMsg(store.Snapshot().Version()), msg)
}
