// Package ft3267 reads touch points from a FocalTech FT3267 capacitive touch
// controller over I2C.
package ft3267

import "tinygo.org/x/drivers"

// Address is the controller's fixed 7-bit I2C address.
const Address = 0x38

// RegisterCount is the number of registers polled per sample, starting at 0.
const RegisterCount = 13

// MaxPoints is the number of touch points the controller reports.
const MaxPoints = 2

const (
	regStatus = 0x02
	regP1XH   = 0x03
	regP2XH   = 0x09
)

// Point is a touch in controller coordinates. Only the low 12 bits of each
// axis are significant.
type Point struct {
	X, Y uint16
}

// Device polls the controller one register at a time.
type Device struct {
	bus  drivers.I2C
	addr uint16
	regs [RegisterCount]byte
	wbuf [1]byte
	rbuf [1]byte

	errs uint32
}

// New returns a device on bus at Address.
func New(bus drivers.I2C) *Device {
	return &Device{bus: bus, addr: Address}
}

// Read samples all registers and decodes up to MaxPoints touches. A register
// whose read fails keeps the value from the previous sample. n is the number
// of valid entries in points; a status the controller cannot report
// (for example 0xFF from a floating bus) yields none.
func (d *Device) Read() (points [MaxPoints]Point, n int) {
	for r := 0; r < RegisterCount; r++ {
		d.wbuf[0] = byte(r)
		if err := d.bus.Tx(d.addr, d.wbuf[:], d.rbuf[:]); err != nil {
			d.errs++
			continue
		}
		d.regs[r] = d.rbuf[0]
	}

	n = int(d.regs[regStatus] & 0x0F)
	if n > MaxPoints {
		return points, 0
	}
	if n > 0 {
		points[0] = decode(d.regs[regP1XH : regP1XH+4])
	}
	if n > 1 {
		points[1] = decode(d.regs[regP2XH : regP2XH+4])
	}
	return points, n
}

// ReadErrors returns the number of failed register reads so far.
func (d *Device) ReadErrors() uint32 { return d.errs }

func decode(b []byte) Point {
	return Point{
		X: uint16(b[0]&0x0F)<<8 | uint16(b[1]),
		Y: uint16(b[2]&0x0F)<<8 | uint16(b[3]),
	}
}

// Registers encodes points the way the controller lays them out, for
// simulated controllers.
func Registers(points []Point) [RegisterCount]byte {
	var regs [RegisterCount]byte
	if len(points) > MaxPoints {
		points = points[:MaxPoints]
	}
	regs[regStatus] = byte(len(points))
	for i, p := range points {
		base := regP1XH
		if i == 1 {
			base = regP2XH
		}
		regs[base] = byte(p.X>>8) & 0x0F
		regs[base+1] = byte(p.X)
		regs[base+2] = byte(p.Y>>8) & 0x0F
		regs[base+3] = byte(p.Y)
	}
	return regs
}
