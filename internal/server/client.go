package server

// Client abstracts the connection a session reads commands from and writes lines to.
type Client interface {
	// ReadLine blocks until a complete, non-empty line is received (without newline).
	ReadLine() (string, error)

	// WriteLine sends one self-contained message to the client.
	WriteLine(message string) error

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the client's address for logging.
	RemoteAddr() string
}
