package log

// Transporter is a destination for entries. Write is only ever called from
// the buffer worker, so implementations need not be goroutine-safe.
type Transporter interface {
	Name() string
	Write(entry Entry) error
	Close() error
}
