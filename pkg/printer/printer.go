package printer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// Printer sends a rendered ESC/POS job to a receipt printer.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	// Available reports whether the device can currently accept a job.
	Available(ctx context.Context) bool
	Kind() string
}

// Options selects and configures a printer backend.
type Options struct {
	Type    string // usb, network, none
	USBPath string
	Address string
	Timeout time.Duration
}

var ErrNoPrinter = errors.New("printer: no printer configured")

// New builds the printer described by opts.
func New(opts Options) (Printer, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	switch opts.Type {
	case "usb":
		if opts.USBPath == "" {
			return nil, fmt.Errorf("printer: usb path is required for usb printers")
		}
		return &usbPrinter{path: opts.USBPath}, nil
	case "network":
		if opts.Address == "" {
			return nil, fmt.Errorf("printer: address is required for network printers")
		}
		return &networkPrinter{address: opts.Address, timeout: opts.Timeout}, nil
	case "none", "":
		return Discard(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network, or none)", opts.Type)
	}
}

// usbPrinter writes to a character device such as /dev/usb/lp0, opening it per job.
type usbPrinter struct {
	path string
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *usbPrinter) Available(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

func (p *usbPrinter) Kind() string { return "usb" }

// networkPrinter speaks raw TCP (port 9100 on most thermal printers).
type networkPrinter struct {
	address string
	timeout time.Duration
}

func (p *networkPrinter) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: p.timeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("printer: connect %s: %w", p.address, err)
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(2 * p.timeout))
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *networkPrinter) Available(ctx context.Context) bool {
	conn, err := p.dial(ctx)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func (p *networkPrinter) Kind() string { return "network" }

type discardPrinter struct{}

// Discard returns a printer that accepts and drops every job.
func Discard() Printer { return discardPrinter{} }

func (discardPrinter) Print(context.Context, []byte) error { return nil }
func (discardPrinter) Available(context.Context) bool      { return false }
func (discardPrinter) Kind() string                        { return "none" }

// Recorder keeps every job in memory. Used in tests and previews.
type Recorder struct {
	mu   sync.Mutex
	jobs [][]byte
	Err  error
}

func (r *Recorder) Print(_ context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.jobs = append(r.jobs, bytes.Clone(data))
	return nil
}

func (r *Recorder) Available(context.Context) bool { return r.Err == nil }
func (r *Recorder) Kind() string                   { return "recorder" }

// Jobs returns the recorded jobs in print order.
func (r *Recorder) Jobs() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.jobs))
	copy(out, r.jobs)
	return out
}
