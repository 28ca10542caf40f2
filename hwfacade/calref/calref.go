// Package calref talks to a bench calibration reference — either a
// serial step attenuator or a USB one — used by cmd/bpmcal during
// factory calibration sweeps. It is a separate capability from the
// production hardware façade (spec §9's design note on the raw-pointer
// mmap helper makes the same separation-of-capability argument), never
// called from the DSC loop, conversion pipeline, attenuator manager or
// interlock.
package calref

import (
	"bufio"
	"fmt"
	"time"

	"github.com/google/gousb"
	"github.com/tarm/serial"
)

// Reference is a bench step attenuator or reference source that can be
// set to, and report, an attenuation in dB. SerialReference speaks a
// "SET <dB>\r\n" / "GET\r\n" line protocol; USBReference uses vendor
// control transfers carrying tenths of a dB.
type Reference interface {
	SetAttenuationDB(db float64) error
	AttenuationDB() (float64, error)
	Close() error
}

// SerialReference talks to a reference over RS-232, the same way the
// pack's thorlabs/newport motion-controller packages talk to their
// stages: github.com/tarm/serial, a fixed baud, a line-oriented
// protocol.
type SerialReference struct {
	port *serial.Port
	rw   *bufio.ReadWriter
}

// OpenSerial opens a serial reference at the given device path.
func OpenSerial(device string, baud int) (*SerialReference, error) {
	cfg := &serial.Config{Name: device, Baud: baud, ReadTimeout: 2 * time.Second}
	p, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening serial reference %s: %w", device, err)
	}
	rw := bufio.NewReadWriter(bufio.NewReader(p), bufio.NewWriter(p))
	return &SerialReference{port: p, rw: rw}, nil
}

func (s *SerialReference) SetAttenuationDB(db float64) error {
	_, err := fmt.Fprintf(s.rw, "SET %.1f\r\n", db)
	if err != nil {
		return err
	}
	return s.rw.Flush()
}

func (s *SerialReference) AttenuationDB() (float64, error) {
	if _, err := fmt.Fprint(s.rw, "GET\r\n"); err != nil {
		return 0, err
	}
	if err := s.rw.Flush(); err != nil {
		return 0, err
	}
	line, err := s.rw.ReadString('\n')
	if err != nil {
		return 0, err
	}
	var db float64
	if _, err := fmt.Sscanf(line, "%f", &db); err != nil {
		return 0, fmt.Errorf("parsing reference reply %q: %w", line, err)
	}
	return db, nil
}

func (s *SerialReference) Close() error {
	return s.port.Close()
}

// USBReference talks to a USB-attached step attenuator via
// github.com/google/gousb, the same open/detach/claim sequence
// usbtmc.NewUSBDevice uses for the Thorlabs LDC4001: open the context,
// find the vendor/product pair, enable auto-detach, claim the device's
// default interface, then write a vendor control request per step.
type USBReference struct {
	ctx    *gousb.Context
	dev    *gousb.Device
	iface  *gousb.Interface
	closer func()
}

// OpenUSB opens the first USB device matching vid/pid.
func OpenUSB(vid, pid gousb.ID) (*USBReference, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(vid, pid)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("opening USB reference: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("no USB reference matching %s:%s found", vid, pid)
	}
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}
	iface, closer, err := dev.DefaultInterface()
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}
	return &USBReference{ctx: ctx, dev: dev, iface: iface, closer: closer}, nil
}

func (u *USBReference) SetAttenuationDB(db float64) error {
	// Vendor-specific control transfer: step index encoded in tenths
	// of a dB, matching the bench attenuator's documented protocol.
	step := uint16(db * 10)
	_, err := u.dev.Control(0x40, 0x01, step, 0, nil)
	return err
}

func (u *USBReference) AttenuationDB() (float64, error) {
	buf := make([]byte, 2)
	_, err := u.dev.Control(0xC0, 0x01, 0, 0, buf)
	if err != nil {
		return 0, err
	}
	step := uint16(buf[0]) | uint16(buf[1])<<8
	return float64(step) / 10, nil
}

func (u *USBReference) Close() error {
	u.closer()
	if err := u.dev.Close(); err != nil {
		return err
	}
	return u.ctx.Close()
}
