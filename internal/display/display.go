// Package display drives the HT16K33 LED matrix over a register bus.
package display

import (
	"fmt"
	"log/slog"
	"os"

	"periph.io/x/conn/v3/i2c"

	"feeder/pkg/matrix"
)

// Register map: the 8 display rows live on even addresses 0x00-0x0E,
// plus two setup registers to bring the chip up.
const (
	Addr uint16 = 0x70

	sysSetupReg     byte = 0x21
	displaySetupReg byte = 0x81
)

// RegWriter performs one register-addressed bus transaction of exactly
// two bytes: register address, then value.
type RegWriter interface {
	WriteReg(reg, value byte) error
}

// I2CWriter implements RegWriter on an i2c device. A short write means
// the chip state can no longer be trusted, so it is reported as an
// error rather than retried.
type I2CWriter struct {
	Dev *i2c.Dev
}

func (w *I2CWriter) WriteReg(reg, value byte) error {
	n, err := w.Dev.Write([]byte{reg, value})
	if err != nil {
		return err
	}
	if n != 2 {
		return fmt.Errorf("short register write: %d of 2 bytes", n)
	}
	return nil
}

// Driver renders frames onto the matrix. Bus faults are fatal: once a
// register write fails no further display state can be trusted, so the
// process exits after a diagnostic.
type Driver struct {
	bus RegWriter
}

func New(bus RegWriter) *Driver {
	return &Driver{bus: bus}
}

// Init writes the two setup registers once: system setup to start the
// oscillator, display setup to turn the LEDs on with no blinking.
func (d *Driver) Init() {
	d.write(sysSetupReg, 0x00)
	d.write(displaySetupReg, 0x00)
}

// RenderFrame remaps a logical frame and writes all 8 physical rows.
func (d *Driver) RenderFrame(f matrix.Frame) {
	p := matrix.Remap(f)
	for i := 0; i < matrix.Rows; i++ {
		d.write(byte(i*2), p[i])
	}
}

// Render composes text into a frame and shows it.
func (d *Driver) Render(text string) {
	d.RenderFrame(matrix.Compose(text))
}

// Clear zeroes every row register. Idempotent.
func (d *Driver) Clear() {
	for i := 0; i < matrix.Rows; i++ {
		d.write(byte(i*2), 0x00)
	}
}

func (d *Driver) write(reg, value byte) {
	if err := d.bus.WriteReg(reg, value); err != nil {
		slog.Error("Display bus write failed", "reg", reg, "err", err)
		os.Exit(1)
	}
}
