package application

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	solAddress   = 10477373803
	alphaAddress = 1099503323
)

const (
	lineLoadGame   = `{"timestamp":"2024-03-01T10:00:00Z","event":"LoadGame","Commander":"Jameson","FID":"F1","Ship":"anaconda","Ship_Localised":"Anaconda","Credits":1000000,"GameMode":"Solo"}`
	lineLocation   = `{"timestamp":"2024-03-01T10:00:05Z","event":"Location","StarSystem":"Sol","SystemAddress":10477373803,"StarClass":"G","Docked":false,"ControllingPower":"Zachary Hudson"}`
	lineScanSol3   = `{"timestamp":"2024-03-01T10:01:00Z","event":"Scan","ScanType":"Detailed","BodyName":"Sol 3","BodyID":3,"SystemAddress":10477373803,"PlanetClass":"Earthlike body","WasDiscovered":true,"WasMapped":true}`
	lineMapSol3    = `{"timestamp":"2024-03-01T10:02:00Z","event":"SAAScanComplete","BodyName":"Sol 3","BodyID":3,"SystemAddress":10477373803,"ProbesUsed":5,"EfficiencyTarget":6}`
	lineStartJump  = `{"timestamp":"2024-03-01T10:03:00Z","event":"StartJump","JumpType":"Hyperspace","StarSystem":"Alpha Centauri","SystemAddress":1099503323,"StarClass":"G"}`
	lineJumpAlpha  = `{"timestamp":"2024-03-01T10:03:20Z","event":"FSDJump","StarSystem":"Alpha Centauri","SystemAddress":1099503323,"StarClass":"G","JumpDist":4.38}`
	lineMusic      = `{"timestamp":"2024-03-01T10:03:21Z","event":"Music","MusicTrack":"Exploration"}`
	lineScanAlpha1 = `{"timestamp":"2024-03-01T10:04:00Z","event":"Scan","ScanType":"AutoScan","BodyName":"Alpha Centauri 1","BodyID":1,"SystemAddress":1099503323,"PlanetClass":"Icy body","WasDiscovered":true}`
)

func lines(records ...string) []byte {
	return []byte(strings.Join(records, "\n") + "\n")
}

func referenceTable(t *testing.T) *mocks.MockReferenceLookup {
	ref := mocks.NewMockReferenceLookup(t)
	ref.EXPECT().BodyValue(mock.AnythingOfType("domain.BodyValueKey")).RunAndReturn(func(k domain.BodyValueKey) (int64, bool) {
		switch k.Class {
		case "Earthlike body":
			if k.Mapped {
				return 120_000, true
			}
			return 50_000, true
		case "Icy body":
			return 500, true
		}
		return 0, false
	}).Maybe()
	ref.EXPECT().SpeciesValue(mock.AnythingOfType("string")).Return(domain.SpeciesFact{}, false).Maybe()
	return ref
}

func newTestEngine(t *testing.T) (*Engine, *Store) {
	t.Helper()

	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(fixedNow).Maybe()

	store := NewStore(NewSnapshot(domain.DefaultThresholds(), referenceTable(t)))
	return NewEngine(store, nil, nil, clock), store
}

func TestEngineEndToEndScenario(t *testing.T) {
	engine, store := newTestEngine(t)

	engine.Ingest(lines(lineLoadGame, lineLocation, lineScanSol3, lineMapSol3))

	snap := store.Snapshot()
	current := snap.Current()
	assert.Equal(t, domain.SystemID("10477373803"), current.Context.CurrentSystem)
	assert.Equal(t, "Jameson", current.Context.Commander)
	require.Len(t, current.Exploration.Bodies, 1)
	best, _ := current.Exploration.Bodies[0].BestValue()
	assert.Equal(t, int64(120_000), best)
	assert.True(t, current.Exploration.Bodies[0].HighValue)

	engine.Ingest(lines(lineStartJump))
	pending := store.Snapshot().Current()
	assert.Equal(t, domain.SystemID("10477373803"), pending.Context.CurrentSystem)
	assert.True(t, pending.Context.InHyperspace)
	require.NotNil(t, pending.Context.PendingJump)
	assert.Equal(t, "Alpha Centauri", pending.Context.PendingJump.Destination)
	assert.Len(t, pending.Exploration.Bodies, 1)

	engine.Ingest(lines(lineJumpAlpha))
	arrived := store.Snapshot()
	current = arrived.Current()
	assert.Equal(t, domain.SystemID("1099503323"), current.Context.CurrentSystem)
	assert.False(t, current.Context.InHyperspace)
	assert.Empty(t, current.Exploration.Bodies)

	history, ok := arrived.ExplorationFor("10477373803")
	require.True(t, ok)
	require.Len(t, history.Bodies, 1)
	best, _ = history.Bodies[0].BestValue()
	assert.Equal(t, int64(120_000), best)

	assert.Equal(t, []domain.SystemID{"10477373803", "1099503323"}, arrived.KnownSystems())
	assert.Equal(t, uint64(6), arrived.Version())
}

func TestEngineOneCommitPerDecodedEvent(t *testing.T) {
	engine, store := newTestEngine(t)

	engine.Ingest(lines(lineLoadGame, "", lineMusic, "{broken json", lineLocation, `{"timestamp":"2024-03-01T10:00:00Z"}`))

	snap := store.Snapshot()
	assert.Equal(t, uint64(3), snap.Version())
	assert.Equal(t, "Location", snap.LastEvent())
	assert.Equal(t, PhaseIdle, engine.Phase())
}

func TestEngineUnhandledCommitsWithoutChange(t *testing.T) {
	engine, store := newTestEngine(t)
	engine.Ingest(lines(lineLoadGame, lineLocation))
	before := store.Snapshot()

	engine.Ingest(lines(lineMusic))
	after := store.Snapshot()

	assert.Equal(t, before.Version()+1, after.Version())
	assert.Equal(t, before.Context().CurrentSystem, after.Context().CurrentSystem)
	assert.Equal(t, before.Current().Exploration, after.Current().Exploration)
	assert.Equal(t, "Music", after.LastEvent())
}

func TestEngineEventsBeforeContextLeaveMemoriesEmpty(t *testing.T) {
	engine, store := newTestEngine(t)

	engine.Ingest(lines(lineScanSol3))

	snap := store.Snapshot()
	assert.Equal(t, uint64(1), snap.Version())
	assert.Empty(t, snap.KnownSystems())
}

func TestEngineRetainsIncompleteTail(t *testing.T) {
	engine, store := newTestEngine(t)

	stream := lines(lineLoadGame, lineLocation)
	split := len(lineLoadGame) + 20

	engine.Ingest(stream[:split])
	assert.Equal(t, uint64(1), store.Snapshot().Version())

	engine.Ingest(stream[split:])
	assert.Equal(t, uint64(2), store.Snapshot().Version())
	assert.Equal(t, "Sol", store.Snapshot().Context().SystemName)
}

// Splitting the stream at any byte must yield the same final state.
func TestEngineChunkBoundariesDoNotMatter(t *testing.T) {
	stream := lines(lineLoadGame, lineLocation, lineScanSol3, lineMapSol3, lineStartJump, lineJumpAlpha)

	reference, refStore := newTestEngine(t)
	reference.Ingest(stream)
	want := refStore.Snapshot()

	for split := 1; split < len(stream); split += 7 {
		engine, store := newTestEngine(t)
		engine.Ingest(stream[:split])
		engine.Ingest(stream[split:])

		got := store.Snapshot()
		require.Equal(t, want.Version(), got.Version(), "split at %d", split)
		require.Equal(t, want.Current(), got.Current(), "split at %d", split)
	}
}

func TestEngineCompleteUnterminatedRecordCommitsOnce(t *testing.T) {
	engine, store := newTestEngine(t)

	engine.Ingest([]byte(lineLoadGame))
	assert.Equal(t, uint64(1), store.Snapshot().Version())

	engine.Ingest([]byte("\n"))
	assert.Equal(t, uint64(1), store.Snapshot().Version())
}

func TestEngineFlush(t *testing.T) {
	t.Run("completes nothing when tail is garbage", func(t *testing.T) {
		engine, store := newTestEngine(t)
		engine.Ingest([]byte(`{"timestamp":"2024-03-01T10:00:00Z","event":"Lo`))
		engine.Flush()
		assert.Equal(t, uint64(0), store.Snapshot().Version())

		engine.Ingest(lines(lineLoadGame))
		assert.Equal(t, uint64(1), store.Snapshot().Version())
	})

	t.Run("no pending tail is a no-op", func(t *testing.T) {
		engine, store := newTestEngine(t)
		engine.Flush()
		assert.Equal(t, uint64(0), store.Snapshot().Version())
	})
}

func TestEngineThresholdChangeIsRetroactive(t *testing.T) {
	engine, store := newTestEngine(t)
	engine.Ingest(lines(lineLoadGame, lineLocation, lineScanSol3, lineMapSol3))

	require.True(t, store.Snapshot().Current().Exploration.Bodies[0].HighValue)

	require.NoError(t, engine.SetThresholds(domain.Thresholds{ExplorationHighValue: 200_000, ExobiologyHighValue: 1}))
	snap := store.Snapshot()
	assert.False(t, snap.Current().Exploration.Bodies[0].HighValue)
	assert.Equal(t, int64(200_000), snap.Thresholds().ExplorationHighValue)
	assert.Equal(t, uint64(5), snap.Version())

	err := engine.SetThresholds(domain.Thresholds{ExplorationHighValue: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidThreshold)
	assert.Equal(t, uint64(5), store.Snapshot().Version())
}

func TestEngineReportGapMarksStaleAndDropsTail(t *testing.T) {
	engine, store := newTestEngine(t)
	engine.Ingest(lines(lineLoadGame))
	engine.Ingest([]byte(`{"timestamp":"2024-03-01T10:00:05Z","event":"Loca`))

	engine.ReportGap(domain.IngestionGap{Reason: "truncated", File: "Journal.log", Offset: 42})

	snap := store.Snapshot()
	assert.True(t, snap.Stale())
	require.Len(t, snap.Gaps(), 1)
	assert.Equal(t, fixedNow, snap.Gaps()[0].DetectedAt)
	assert.Equal(t, uint64(2), snap.Version())

	// The dropped tail must not be glued to the next stream.
	engine.Ingest(lines(lineLocation))
	assert.Equal(t, uint64(3), store.Snapshot().Version())
	assert.Equal(t, "Sol", store.Snapshot().Context().SystemName)
}

func TestEngineIgnoresEventsFromAnotherSystem(t *testing.T) {
	engine, store := newTestEngine(t)
	engine.Ingest(lines(lineLoadGame, lineLocation, lineScanAlpha1))

	snap := store.Snapshot()
	assert.Equal(t, uint64(3), snap.Version())
	assert.Empty(t, snap.Current().Exploration.Bodies)
	_, ok := snap.ExplorationFor("1099503323")
	assert.False(t, ok)
}

func TestEngineConcurrentReaders(t *testing.T) {
	engine, store := newTestEngine(t)
	engine.Ingest(lines(lineLoadGame, lineLocation))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := store.Snapshot()
				view := snap.Current()
				if snap.Version() >= 2 {
					assert.Equal(t, "Sol", view.Context.SystemName)
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		engine.Ingest(lines(lineMusic))
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, uint64(52), store.Snapshot().Version())
}

func TestEngineReportsMetrics(t *testing.T) {
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(fixedNow).Maybe()

	recorder := mocks.NewMockMetrics(t)
	recorder.EXPECT().EventDecoded("LoadGame").Once()
	recorder.EXPECT().EventDecoded("Location").Once()
	recorder.EXPECT().EventDecoded("Music").Once()
	recorder.EXPECT().DecodeFailed("malformed").Once()
	recorder.EXPECT().ContextChanged().Once()
	recorder.EXPECT().GapDetected().Once()
	recorder.EXPECT().Committed(mock.AnythingOfType("time.Duration")).Times(4)

	store := NewStore(NewSnapshot(domain.DefaultThresholds(), referenceTable(t)))
	engine := NewEngine(store, nil, recorder, clock)

	engine.Ingest(lines(lineLoadGame, `{"event":`, lineLocation, lineMusic))
	engine.ReportGap(domain.IngestionGap{Reason: "truncated"})

	assert.Equal(t, uint64(4), store.Snapshot().Version())
}

func TestEngineNameOnlySystemKeepsStateWhenAddressArrives(t *testing.T) {
	clock := mocks.NewMockClock(t)
	clock.EXPECT().Now().Return(fixedNow).Maybe()

	recorder := mocks.NewMockMetrics(t)
	recorder.EXPECT().EventDecoded(mock.AnythingOfType("string")).Times(3)
	recorder.EXPECT().Committed(mock.AnythingOfType("time.Duration")).Times(3)
	recorder.EXPECT().ContextChanged().Once()

	store := NewStore(NewSnapshot(domain.DefaultThresholds(), referenceTable(t)))
	engine := NewEngine(store, nil, recorder, clock)

	engine.Ingest(lines(
		`{"timestamp":"2024-03-01T10:00:00Z","event":"LoadGame","Commander":"Jameson","StarSystem":"Sol"}`,
		lineScanSol3,
	))
	before := store.Snapshot().Current()
	assert.Equal(t, domain.SystemID("Sol"), before.Context.CurrentSystem)
	require.Len(t, before.Exploration.Bodies, 1)

	engine.Ingest(lines(lineLocation))
	snap := store.Snapshot()
	after := snap.Current()
	assert.Equal(t, domain.SystemID("10477373803"), after.Context.CurrentSystem)
	require.Len(t, after.Exploration.Bodies, 1)
	assert.Equal(t, "Sol 3", after.Exploration.Bodies[0].Name)
	assert.Equal(t, "Zachary Hudson", after.System.ControllingPower)
	assert.Equal(t, []domain.SystemID{"10477373803"}, snap.KnownSystems())
}
