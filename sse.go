package botbase

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

var sseData = []byte("data:")

// WriteSSE sends one server-sent event holding v as JSON.
func WriteSSE(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	if err != nil {
		return err
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// An SSEReader reads the data of the server-sent events of a stream.
type SSEReader struct {
	r *bufio.Reader
}

func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{
		r: bufio.NewReaderSize(r, 64<<10),
	}
}

// Next returns the data of the next event. Multi-line data are joined with '\n'.
// Comments and other fields are skipped.
func (s *SSEReader) Next() ([]byte, error) {
	var data []byte
	var found bool

	for {
		line, err := s.r.ReadBytes('\n')
		if err != nil {
			return nil, err
		}

		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			if found {
				return data, nil
			}
			continue // Keep-alive or event without data
		}

		if !bytes.HasPrefix(line, sseData) {
			continue
		}

		if found {
			data = append(data, '\n')
		}
		found = true
		data = append(data, bytes.TrimPrefix(line[len(sseData):], []byte{' '})...)
	}
}

// NextEvent decodes the next event as an Event.
func (s *SSEReader) NextEvent() (Event, error) {
	var e Event

	data, err := s.Next()
	if err != nil {
		return e, err
	}

	err = json.Unmarshal(data, &e)
	return e, err
}
