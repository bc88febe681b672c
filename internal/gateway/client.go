package gateway

import "github.com/judelaw007/connectbymanus-sub000/internal/models"

// Client is the interface for one live authenticated connection.
// It abstracts the underlying transport, allowing the hub to manage
// connections uniformly (and tests to substitute fakes).
type Client interface {
	// GetConnID returns the unique identifier of this connection.
	// A user with two open tabs has two connections and two IDs.
	GetConnID() string
	// GetUserID returns the ID of the authenticated user who owns
	// the connection.
	GetUserID() string
	// GetName returns the user's display name.
	GetName() string
	// IsAdmin reports whether the owning user has the admin role.
	IsAdmin() bool

	// GetSendChannel returns the channel the hub pushes outbound
	// events into. It is a send-only channel.
	GetSendChannel() chan<- models.Event

	// Run starts the connection's read and write pumps.
	Run()
	// Close gracefully shuts down the connection's send side.
	// It must be safe to call more than once.
	Close()
}
