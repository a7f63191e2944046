package interfaces

// Repository defines the interface for data persistence. Every record is
// scoped by the identity of the session that owns it.
type Repository interface {
	Profile() ProfileRepository
	HealthLog() HealthLogRepository

	Close() error
}
