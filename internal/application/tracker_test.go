package application

import (
	"testing"
	"time"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jb(kind string, seconds int) journal.Base {
	return journal.Base{Kind: kind, Timestamp: time.Date(2024, 3, 1, 10, 0, seconds, 0, time.UTC)}
}

func TestTrackerStartJumpKeepsSystem(t *testing.T) {
	var tracker Tracker
	sc, change := tracker.Apply(domain.SessionContext{}, journal.Location{Base: jb("Location", 0), System: domain.SystemInfo{Name: "Sol", Address: solAddress}})
	require.NotNil(t, change)
	assert.Equal(t, domain.SystemID(""), change.From)

	sc, change = tracker.Apply(sc, journal.StartJump{Base: jb("StartJump", 1), JumpType: "Hyperspace", StarSystem: "Alpha Centauri", SystemAddress: alphaAddress})
	assert.Nil(t, change)
	assert.Equal(t, domain.SystemID("10477373803"), sc.CurrentSystem)
	assert.True(t, sc.InHyperspace)

	sc, change = tracker.Apply(sc, journal.StartJump{Base: jb("StartJump", 2), JumpType: "Supercruise"})
	assert.Nil(t, change)
	assert.Equal(t, "Alpha Centauri", sc.PendingJump.Destination)

	// A cancelled jump is confirmed by a Location in the same system.
	sc, change = tracker.Apply(sc, journal.Location{Base: jb("Location", 3), System: domain.SystemInfo{Name: "Sol", Address: solAddress}})
	assert.Nil(t, change)
	assert.False(t, sc.InHyperspace)
	assert.Nil(t, sc.PendingJump)
}

func TestTrackerJumpChangesSystemAndClearsBody(t *testing.T) {
	var tracker Tracker
	sc, _ := tracker.Apply(domain.SessionContext{}, journal.Location{Base: jb("Location", 0), System: domain.SystemInfo{Name: "Sol", Address: solAddress}})
	sc, change := tracker.Apply(sc, journal.ApproachBody{Base: jb("ApproachBody", 1), SystemAddress: solAddress, BodyName: "Sol 3", BodyID: 3, HasBodyID: true})
	assert.Nil(t, change)
	require.NotNil(t, sc.CurrentBody)
	assert.Equal(t, domain.BodyID(3), *sc.CurrentBody)

	sc, change = tracker.Apply(sc, journal.FSDJump{Base: jb("FSDJump", 2), System: domain.SystemInfo{Name: "Alpha Centauri", Address: alphaAddress, ControllingPower: "Zachary Hudson"}})
	require.NotNil(t, change)
	assert.Equal(t, domain.ContextChange{From: "10477373803", To: "1099503323"}, *change)
	assert.Nil(t, sc.CurrentBody)

	info, ok := sc.CurrentSystemInfo()
	require.True(t, ok)
	assert.Equal(t, "Zachary Hudson", info.ControllingPower)
	assert.Contains(t, sc.Systems, domain.SystemID("10477373803"))
}

func TestTrackerLeaveBody(t *testing.T) {
	var tracker Tracker
	sc, _ := tracker.Apply(domain.SessionContext{}, journal.Location{Base: jb("Location", 0), System: domain.SystemInfo{Name: "Sol", Address: solAddress}, BodyName: "Sol 3", BodyID: 3, HasBodyID: true, BodyType: "Planet"})
	require.NotNil(t, sc.CurrentBody)

	sc, _ = tracker.Apply(sc, journal.LeaveBody{Base: jb("LeaveBody", 1), SystemAddress: solAddress, BodyID: 3, HasBodyID: true})
	assert.Nil(t, sc.CurrentBody)
	assert.Empty(t, sc.CurrentBodyName)
}

func TestTrackerSessionIdentity(t *testing.T) {
	var tracker Tracker
	load := journal.LoadGame{Base: jb("LoadGame", 0), Commander: "Jameson", Ship: "Anaconda", Credits: 42}

	a, _ := tracker.Apply(domain.SessionContext{}, load)
	b, _ := tracker.Apply(domain.SessionContext{}, load)
	assert.NotEmpty(t, a.SessionID)
	assert.Equal(t, a.SessionID, b.SessionID)
	assert.Equal(t, int64(42), a.Credits)

	reload := load
	reload.Timestamp = reload.Timestamp.Add(time.Hour)
	c, _ := tracker.Apply(a, reload)
	assert.NotEqual(t, a.SessionID, c.SessionID)
}

func TestTrackerPledge(t *testing.T) {
	var tracker Tracker
	sc, _ := tracker.Apply(domain.SessionContext{}, journal.PowerplayStatus{Base: jb("Powerplay", 0), Power: "Zachary Hudson"})
	assert.Equal(t, "Zachary Hudson", sc.PledgedPower)

	sc, _ = tracker.Apply(sc, journal.PowerplayAction{Base: jb("PowerplayDefect", 1), ToPower: "Felicia Winters"})
	assert.Equal(t, "Felicia Winters", sc.PledgedPower)

	sc, _ = tracker.Apply(sc, journal.PowerplayAction{Base: jb("PowerplayLeave", 2)})
	assert.Empty(t, sc.PledgedPower)
}

func TestTrackerResolvesNameOnlySystem(t *testing.T) {
	var tracker Tracker
	sc, change := tracker.Apply(domain.SessionContext{}, journal.LoadGame{Base: jb("LoadGame", 0), Commander: "Jameson", StarSystem: "Sol"})
	require.NotNil(t, change)
	assert.False(t, change.Resolved)
	assert.Equal(t, domain.SystemID("Sol"), sc.CurrentSystem)

	sc, _ = tracker.Apply(sc, journal.ApproachBody{Base: jb("ApproachBody", 1), BodyName: "Sol 3", BodyID: 3, HasBodyID: true})
	require.NotNil(t, sc.CurrentBody)

	sc, change = tracker.Apply(sc, journal.Location{Base: jb("Location", 2), System: domain.SystemInfo{Name: "Sol", Address: solAddress, StarClass: "G"}})
	require.NotNil(t, change)
	assert.Equal(t, domain.ContextChange{From: "Sol", To: "10477373803", Resolved: true}, *change)
	assert.Equal(t, int64(solAddress), sc.SystemAddress)
	require.NotNil(t, sc.CurrentBody, "the commander did not move")
	assert.Equal(t, domain.BodyID(3), *sc.CurrentBody)

	_, stale := sc.Systems["Sol"]
	assert.False(t, stale)
	info, ok := sc.CurrentSystemInfo()
	require.True(t, ok)
	assert.Equal(t, "G", info.StarClass)
}

func TestTrackerNameOnlyReloadKeepsKnownAddress(t *testing.T) {
	var tracker Tracker
	sc, _ := tracker.Apply(domain.SessionContext{}, journal.Location{Base: jb("Location", 0), System: domain.SystemInfo{Name: "Sol", Address: solAddress}})

	sc, change := tracker.Apply(sc, journal.LoadGame{Base: jb("LoadGame", 1), Commander: "Jameson", StarSystem: "sol"})
	assert.Nil(t, change)
	assert.Equal(t, domain.SystemID("10477373803"), sc.CurrentSystem)
	assert.Len(t, sc.Systems, 1)
}

func TestTrackerDifferentNameIsARealChange(t *testing.T) {
	var tracker Tracker
	sc, _ := tracker.Apply(domain.SessionContext{}, journal.LoadGame{Base: jb("LoadGame", 0), Commander: "Jameson", StarSystem: "Sol"})

	sc, change := tracker.Apply(sc, journal.FSDJump{Base: jb("FSDJump", 1), System: domain.SystemInfo{Name: "Alpha Centauri", Address: alphaAddress}})
	require.NotNil(t, change)
	assert.False(t, change.Resolved)
	assert.Contains(t, sc.Systems, domain.SystemID("Sol"))
}
