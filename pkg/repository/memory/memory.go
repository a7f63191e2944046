package memory

import (
	"github.com/healthnav/healthnav/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is a process-local Repository with live change notifications. It is
// used for development and tests.
type Memory struct {
	profile   *profileRepository
	healthLog *healthLogRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		profile:   newProfileRepository(),
		healthLog: newHealthLogRepository(),
	}
}

func (m *Memory) Profile() interfaces.ProfileRepository {
	return m.profile
}

func (m *Memory) HealthLog() interfaces.HealthLogRepository {
	return m.healthLog
}

func (m *Memory) Close() error {
	return nil
}
