// Package keys builds the Redis key layout shared by the repositories.
//
//	session:{id}             session record (JSON)
//	session:{id}:players     roster hash, player ID -> JSON
//	session:{id}:state       state snapshot (JSON)
//	session:{id}:actions     pending action stream
//	session:{id}:events      pub/sub change channel
//	sessions:heartbeat       sorted set of session IDs by last update (ms)
//	presence:leases          sorted set of connection IDs by lease expiry (ms)
//	presence:conn:{id}       hash of disconnect writes registered by a connection
package keys

const (
	sessionPrefix  = "session:"
	connPrefix     = "presence:conn:"
	HeartbeatIndex = "sessions:heartbeat"
	PresenceLeases = "presence:leases"
)

// Session returns the key of the session record
func Session(sessionID string) string {
	return sessionPrefix + sessionID
}

// Players returns the key of the roster hash
func Players(sessionID string) string {
	return sessionPrefix + sessionID + ":players"
}

// State returns the key of the state snapshot
func State(sessionID string) string {
	return sessionPrefix + sessionID + ":state"
}

// Actions returns the key of the pending action stream
func Actions(sessionID string) string {
	return sessionPrefix + sessionID + ":actions"
}

// Events returns the pub/sub channel of the session
func Events(sessionID string) string {
	return sessionPrefix + sessionID + ":events"
}

// Connection returns the key of a connection's disconnect writes
func Connection(connectionID string) string {
	return connPrefix + connectionID
}
