// Package protocol defines the semantic message kinds exchanged between
// the simulation core and connected clients, plus the connection contract.
// The byte-level wire layout belongs to the transport; these structs are
// the already-decoded form.
package protocol

// Message is any inbound or outbound protocol message.
type Message interface {
	// Kind returns the stable message-kind tag used for dispatch and
	// wire framing.
	Kind() string
}

// Conn is the live transport connection of a client. Implementations own
// a per-connection send queue: Send enqueues and never blocks on socket
// I/O, decoupling simulation pace from per-socket pace.
type Conn interface {
	// Send enqueues an outbound message. An error means the connection
	// is gone; the caller may ignore it.
	Send(msg Message) error
	// Disconnect closes the connection. Safe to call multiple times.
	Disconnect()
	// RemoteAddr returns the peer address for logging.
	RemoteAddr() string
}

// Text modes.
const (
	TextModeSay    = "say"
	TextModeSee    = "see"
	TextModeSysmsg = "sysmsg"
)

// Text colors.
const (
	ColorSystem    = 0x0351
	ColorSeePlayer = 0x0099
	ColorSeeNPC    = 0x0026
	ColorSay       = 0x005A
)

// Login error reasons.
const (
	LoginCharNotFound  = "char_not_found"
	LoginBadPassword   = "bad_password"
	LoginAlreadyOnline = "already_online"
	LoginNameTaken     = "name_taken"
)
