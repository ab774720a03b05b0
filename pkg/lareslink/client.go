package lareslink

// SessionClient is the read surface of an established Lares WebSocket
// session. Implementations own login, keepalive and reconnection; this
// package only consumes decoded realtime snapshots. Every call may block on
// network I/O and must be assumed unreliable.
type SessionClient interface {
	// GetDom returns the domus (comfort probe) snapshot.
	GetDom() ([]Record, error)
	// GetSensor returns the snapshot for an arbitrary controller category
	// token, e.g. "POWER_LINES", "PARTITIONS", "ZONES".
	GetSensor(category string) ([]Record, error)
	// GetSystem returns the system status snapshot.
	GetSystem() ([]Record, error)
}
