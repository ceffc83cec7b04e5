// Package serialport is the concrete byte-stream collaborator spec.md
// §1 carves out as "assumed to be a byte-stream sink/source with
// configurable line settings": a Port interface plus a
// github.com/tarm/serial backed implementation.
//
// Adapted from the teacher's host/serial package: same Port shape
// (io.ReadWriteCloser + Flush), generalized from a fixed
// 250000-baud USB-CDC link to the configurable 9600-8-N-1 default this
// protocol actually runs over (spec §6), and extended with IsOpen so
// Session's port-closed no-op rule (spec §5, §7) has something to ask.
package serialport

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// Port is the interface PortAdapter depends on; internal/port adapts it
// to internal/session.PortWriter. Swapping in a mock for tests never
// touches tarm/serial.
type Port interface {
	io.ReadWriteCloser
	Flush() error
	IsOpen() bool
}

// Config holds the line settings named in spec.md §6.
type Config struct {
	Device string

	Baud     int
	DataBits byte
	Parity   serial.Parity
	StopBits serial.StopBits

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns spec.md §6's line defaults for device: 9600
// baud, 8 data bits, no parity, 1 stop bit, 2.0s read/write timeout.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:       device,
		Baud:         9600,
		DataBits:     8,
		Parity:       serial.ParityNone,
		StopBits:     serial.Stop1,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
}

// NativePort wraps a github.com/tarm/serial port. tarm/serial exposes
// no write timeout or write-deadline knob; WriteTimeout is carried on
// Config for documentation and for callers that want to race their own
// context against a slow Write, but the Go driver itself blocks until
// the OS write completes.
type NativePort struct {
	port *serial.Port
	cfg  *Config
	open bool
}

// Open opens a native serial port with cfg's line settings.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("serialport: config cannot be nil")
	}

	sc := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        cfg.DataBits,
		Parity:      cfg.Parity,
		StopBits:    cfg.StopBits,
		ReadTimeout: cfg.ReadTimeout,
	}

	p, err := serial.OpenPort(sc)
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", cfg.Device, err)
	}

	return &NativePort{port: p, cfg: cfg, open: true}, nil
}

func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *NativePort) Close() error {
	if !p.open {
		return nil
	}
	p.open = false
	return p.port.Close()
}

// Flush is a best-effort drain; tarm/serial exposes no native flush
// call, so this mirrors the teacher's own no-op-by-design comment.
func (p *NativePort) Flush() error {
	return nil
}

// IsOpen reports whether Close has not yet been called.
func (p *NativePort) IsOpen() bool {
	return p.open
}
