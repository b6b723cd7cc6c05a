// Package ingestor reads uint32 keys from files and from lumberjack (Beats)
// connections.
package ingestor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"time"

	lj "github.com/elastic/go-lumber/lj"
	srv2 "github.com/elastic/go-lumber/server/v2"
)

// DefaultField is the event field keys are read from when none is configured.
const DefaultField = "message"

// --- TCP Ingestor using go-lumber v2 ---

type TCPIngestor struct {
	listener    net.Listener
	readTimeout time.Duration // for server
	events      chan *lj.Batch
	pending     *lj.Batch // taken off events by IsClosed, not yet read
	server      *srv2.Server
	field       string
	format      Format
}

// Batch is the result of draining the pending lumberjack batches.
type Batch struct {
	Keys    []uint32
	Skipped int
}

func NewTCPIngestor(addr string, readTimeout time.Duration, field string, format Format) (*TCPIngestor, error) {
	if format == Binary {
		return nil, fmt.Errorf("%w: binary keys cannot be carried in events", ErrUnknownFormat)
	}
	if field == "" {
		field = DefaultField
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return &TCPIngestor{
		listener:    ln,
		readTimeout: readTimeout,
		events:      make(chan *lj.Batch, 1000),
		field:       field,
		format:      format,
	}, nil
}

// Addr returns the address the ingestor listens on.
func (ing *TCPIngestor) Addr() net.Addr {
	return ing.listener.Addr()
}

// Accept starts the lumberjack v2 Server.
func (ing *TCPIngestor) Accept() error {
	srv, err := srv2.NewWithListener(
		ing.listener,
		srv2.Timeout(ing.readTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create lumberjack server: %w", err)
	}
	ing.server = srv

	// Pull batches off ReceiveChan and ack them.
	go func() {
		for batch := range ing.server.ReceiveChan() {
			ing.events <- batch
			batch.ACK()
		}
		close(ing.events)
	}()

	return nil
}

// parseEvent extracts the key stored under field. String values are parsed
// with format; JSON numbers must be integral and fit in 32 bits.
func parseEvent(evt map[string]interface{}, field string, format Format) (uint32, error) {
	raw, ok := evt[field]
	if !ok {
		return 0, fmt.Errorf("missing %s field", field)
	}

	switch v := raw.(type) {
	case string:
		return ParseKey(strings.TrimSpace(v), format)
	case float64:
		return keyFromFloat(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", v.String(), err)
		}
		return keyFromFloat(f)
	case int:
		if v < 0 || uint64(v) > math.MaxUint32 {
			return 0, fmt.Errorf("key out of range: %d", v)
		}
		return uint32(v), nil
	case uint32:
		return v, nil
	default:
		return 0, fmt.Errorf("unsupported %s field type %T", field, raw)
	}
}

func keyFromFloat(f float64) (uint32, error) {
	if f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, errors.New("number is not a valid uint32 key")
	}
	return uint32(f), nil
}

// ReadBatch drains every batch received so far without blocking.
func (ing *TCPIngestor) ReadBatch() (Batch, error) {
	var out Batch

	if ing.pending != nil {
		ing.collect(&out, ing.pending)
		ing.pending = nil
	}

	for {
		select {
		case batch, ok := <-ing.events:
			if !ok {
				return out, nil
			}
			ing.collect(&out, batch)
		default:
			// Channel is empty, return what we have
			return out, nil
		}
	}
}

func (ing *TCPIngestor) collect(out *Batch, batch *lj.Batch) {
	for _, evt := range batch.Events {
		m, ok := evt.(map[string]interface{})
		if !ok {
			out.Skipped++
			continue
		}
		k, err := parseEvent(m, ing.field, ing.format)
		if err != nil {
			out.Skipped++
			continue
		}
		out.Keys = append(out.Keys, k)
	}
}

// IsClosed reports whether the server has stopped and every batch has been
// read. A batch it has to take off the channel is kept for the next
// ReadBatch.
func (ing *TCPIngestor) IsClosed() bool {
	if ing.server == nil {
		return true
	}
	if ing.pending != nil {
		return false
	}
	select {
	case batch, ok := <-ing.events:
		if !ok {
			return true
		}
		ing.pending = batch
		return false
	default:
		return false
	}
}

// Close shuts down the server and listener.
func (ing *TCPIngestor) Close() error {
	if ing.server != nil {
		return ing.server.Close()
	}
	return ing.listener.Close()
}
