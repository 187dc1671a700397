package memory

import (
	"time"

	"github.com/bnema/edc/internal/domain"
	"github.com/bnema/edc/internal/journal"
	"github.com/stretchr/testify/mock"
)

var testEpoch = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func at(seconds int) time.Time {
	return testEpoch.Add(time.Duration(seconds) * time.Second)
}

func base(kind string, seconds int) journal.Base {
	return journal.Base{Kind: kind, Timestamp: at(seconds)}
}

func inSystem(id domain.SystemID) domain.SessionContext {
	return domain.SessionContext{SessionID: "s", CurrentSystem: id, SystemName: string(id)}
}

func mockAnyBodyKey() interface{} {
	return mock.AnythingOfType("domain.BodyValueKey")
}
