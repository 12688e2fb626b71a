// Package transporters holds log.Transporter implementations.
package transporters

import (
	"encoding/json"
	"io"
	"os"

	"postproof/pkg/log"
)

// JSON writes one JSON object per line to an io.Writer.
type JSON struct {
	enc *json.Encoder
	w   io.Writer
}

// NewJSON returns a line-delimited JSON transporter for w. A nil w means
// os.Stdout.
func NewJSON(w io.Writer) *JSON {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSON{enc: enc, w: w}
}

func (j *JSON) Name() string { return "json" }

// Write encodes entry followed by a newline.
func (j *JSON) Write(entry log.Entry) error {
	return j.enc.Encode(entry)
}

// Close closes the underlying writer when it is closable and not a
// standard stream.
func (j *JSON) Close() error {
	if j.w == os.Stdout || j.w == os.Stderr {
		return nil
	}
	if c, ok := j.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
