package serialport

import (
	"testing"

	"github.com/tarm/serial"
)

func TestDefaultConfigMatchesLineDefaults(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")

	if cfg.Baud != 9600 {
		t.Errorf("Baud = %d, want 9600", cfg.Baud)
	}
	if cfg.DataBits != 8 {
		t.Errorf("DataBits = %d, want 8", cfg.DataBits)
	}
	if cfg.Parity != serial.ParityNone {
		t.Errorf("Parity = %v, want ParityNone", cfg.Parity)
	}
	if cfg.StopBits != serial.Stop1 {
		t.Errorf("StopBits = %v, want Stop1", cfg.StopBits)
	}
	if cfg.ReadTimeout.Seconds() != 2 || cfg.WriteTimeout.Seconds() != 2 {
		t.Errorf("timeouts = %v/%v, want 2s/2s", cfg.ReadTimeout, cfg.WriteTimeout)
	}
}

func TestOpenRejectsNilConfig(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Fatal("expected error opening with nil config")
	}
}
