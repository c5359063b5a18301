package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"
)

// DefaultReadTimeout is applied when Params.ReadTimeout is zero so
// reads never block forever.
const DefaultReadTimeout = 50 * time.Millisecond

// SerialPort implements Transport over a real serial device.
type SerialPort struct {
	params Params

	lock sync.Mutex
	port *serial.Port
}

// OpenSerial opens a serial device.
func OpenSerial(params Params) (*SerialPort, error) {
	p := &SerialPort{params: params}
	if err := p.open(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *SerialPort) open() error {
	timeout := p.params.ReadTimeout
	if timeout == 0 {
		timeout = DefaultReadTimeout
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        p.params.Device,
		Baud:        p.params.Baud,
		ReadTimeout: timeout,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", p.params.Device, err)
	}
	p.port = port
	glog.Infof("serial port %s open at %d baud", p.params.Device, p.params.Baud)
	return nil
}

// Read implements io.Reader. A timeout expires as (0, nil).
func (p *SerialPort) Read(b []byte) (int, error) {
	p.lock.Lock()
	port := p.port
	p.lock.Unlock()
	if port == nil {
		return 0, ErrClosed
	}
	return port.Read(b)
}

// Write implements io.Writer.
func (p *SerialPort) Write(b []byte) (int, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.port == nil {
		return 0, ErrClosed
	}
	return p.port.Write(b)
}

// Reconfigure closes and reopens the device with new parameters.
func (p *SerialPort) Reconfigure(params Params) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.port != nil {
		p.port.Close()
		p.port = nil
	}
	if params.Device == "" {
		params.Device = p.params.Device
	}
	p.params = params
	return p.open()
}

// Close implements io.Closer.
func (p *SerialPort) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	return err
}
