//go:build tinygo && baremetal

package hal

import (
	"machine"
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/gc9a01"
)

// Pin map for an RP2040 board with a 240x240 GC9A01 round panel, an FT3267
// touch controller and a push-button quadrature encoder.
const (
	pinEncoderA = machine.GP2
	pinEncoderB = machine.GP3
	pinButton   = machine.GP4

	pinTouchSDA = machine.GP6
	pinTouchSCL = machine.GP7

	pinLCDDC  = machine.GP8
	pinLCDCS  = machine.GP9
	pinLCDSCK = machine.GP10
	pinLCDSDO = machine.GP11
	pinLCDRST = machine.GP12
	pinLCDBL  = machine.GP25
)

type tinyGoHAL struct {
	logger *uartLogger
	unit   *pinPulseUnit
	button *machinePin
	touch  drivers.I2C
	disp   drivers.Displayer
	lock   sync.Locker
}

// New returns the firmware HAL.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	h := &tinyGoHAL{
		logger: logger,
		unit:   newPinPulseUnit(),
		button: &machinePin{name: "BTN", pin: pinButton},
		lock:   &irqLocker{},
	}

	i2c := machine.I2C1
	if err := i2c.Configure(machine.I2CConfig{
		SDA:       pinTouchSDA,
		SCL:       pinTouchSCL,
		Frequency: 400_000,
	}); err != nil {
		logger.WriteLineString("hal: touch i2c: " + err.Error())
	} else {
		h.touch = i2c
	}

	if err := machine.SPI1.Configure(machine.SPIConfig{
		SCK:       pinLCDSCK,
		SDO:       pinLCDSDO,
		Frequency: 40_000_000,
	}); err != nil {
		logger.WriteLineString("hal: display spi: " + err.Error())
	} else {
		lcd := gc9a01.New(machine.SPI1, pinLCDRST, pinLCDDC, pinLCDCS, pinLCDBL)
		lcd.Configure(gc9a01.Config{Width: 240, Height: 240})
		h.disp = &lcd
	}
	return h
}

func (h *tinyGoHAL) Logger() Logger { return h.logger }

func (h *tinyGoHAL) Quadrature() QuadratureInput {
	return QuadratureInput{Unit: h.unit, A: PulseSource(pinEncoderA), B: PulseSource(pinEncoderB)}
}

func (h *tinyGoHAL) Button() GPIOPin            { return h.button }
func (h *tinyGoHAL) TouchBus() drivers.I2C      { return h.touch }
func (h *tinyGoHAL) Display() drivers.Displayer { return h.disp }
func (h *tinyGoHAL) Locker() sync.Locker        { return h.lock }
