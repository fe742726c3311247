package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

const (
	defaultDialTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// ErrNotConfigured is returned by the null printer when a job is sent to it.
var ErrNotConfigured = errors.New("printer: no printer configured")

// Printer sends raw ESC/POS jobs to a receipt printer.
type Printer interface {
	// Print writes one job. The context deadline bounds both connecting and writing.
	Print(ctx context.Context, data []byte) error
	// Status reports whether the device is reachable and how the last job went.
	Status(ctx context.Context) Status
	Close() error
}

// Status is a snapshot of the printer as seen by the till.
type Status struct {
	Kind        string     `json:"kind"`
	Target      string     `json:"target,omitempty"`
	Connected   bool       `json:"connected"`
	LastPrintAt *time.Time `json:"last_print_at,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// Options selects and tunes the printer transport.
type Options struct {
	Type         string // usb, network or none
	USBPath      string
	Address      string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// New builds the printer described by opts.
func New(opts Options) (Printer, error) {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}

	switch opts.Type {
	case "usb":
		if opts.USBPath == "" {
			return nil, fmt.Errorf("printer: PRINTER_USB_PATH is required for usb printers")
		}
		return &usbPrinter{path: opts.USBPath, writeTimeout: opts.WriteTimeout}, nil
	case "network":
		if opts.Address == "" {
			return nil, fmt.Errorf("printer: PRINTER_ADDRESS is required for network printers")
		}
		if _, _, err := net.SplitHostPort(opts.Address); err != nil {
			return nil, fmt.Errorf("printer: invalid address %q: %w", opts.Address, err)
		}
		return &networkPrinter{
			address:      opts.Address,
			dialTimeout:  opts.DialTimeout,
			writeTimeout: opts.WriteTimeout,
		}, nil
	case "none", "":
		return NewNullPrinter(), nil
	default:
		return nil, fmt.Errorf("printer: unknown printer type %q (use usb, network or none)", opts.Type)
	}
}

// jobLog remembers the outcome of the last job for Status.
type jobLog struct {
	mu      sync.Mutex
	lastAt  time.Time
	lastErr error
}

func (l *jobLog) record(err error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastErr = err
	if err == nil {
		l.lastAt = time.Now()
	}
	return err
}

func (l *jobLog) fill(s *Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.lastAt.IsZero() {
		at := l.lastAt
		s.LastPrintAt = &at
	}
	if l.lastErr != nil {
		s.LastError = l.lastErr.Error()
	}
}

// deadline picks the earlier of the context deadline and now+limit.
func deadline(ctx context.Context, limit time.Duration) time.Time {
	d := time.Now().Add(limit)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}

// usbPrinter writes to a character device such as /dev/usb/lp0, opened per job.
type usbPrinter struct {
	path         string
	writeTimeout time.Duration
	jobs         jobLog
}

func (p *usbPrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return p.jobs.record(err)
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return p.jobs.record(fmt.Errorf("printer: open %s: %w", p.path, err))
	}
	defer f.Close()

	// Device files that do not support deadlines just block until written.
	_ = f.SetWriteDeadline(deadline(ctx, p.writeTimeout))
	if _, err := f.Write(data); err != nil {
		return p.jobs.record(fmt.Errorf("printer: write %s: %w", p.path, err))
	}
	return p.jobs.record(nil)
}

func (p *usbPrinter) Status(ctx context.Context) Status {
	s := Status{Kind: "usb", Target: p.path}
	if info, err := os.Stat(p.path); err == nil && !info.IsDir() {
		s.Connected = true
	}
	p.jobs.fill(&s)
	return s
}

func (p *usbPrinter) Close() error { return nil }

// networkPrinter speaks raw TCP, usually port 9100.
type networkPrinter struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
	jobs         jobLog
}

func (p *networkPrinter) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: p.dialTimeout}
	return d.DialContext(ctx, "tcp", p.address)
}

func (p *networkPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dial(ctx)
	if err != nil {
		return p.jobs.record(fmt.Errorf("printer: connect %s: %w", p.address, err))
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(deadline(ctx, p.writeTimeout)); err != nil {
		return p.jobs.record(fmt.Errorf("printer: %s: %w", p.address, err))
	}
	if _, err := conn.Write(data); err != nil {
		return p.jobs.record(fmt.Errorf("printer: write %s: %w", p.address, err))
	}
	return p.jobs.record(nil)
}

func (p *networkPrinter) Status(ctx context.Context) Status {
	s := Status{Kind: "network", Target: p.address}
	if conn, err := p.dial(ctx); err == nil {
		conn.Close()
		s.Connected = true
	}
	p.jobs.fill(&s)
	return s
}

func (p *networkPrinter) Close() error { return nil }

// nullPrinter stands in when no hardware is configured.
type nullPrinter struct{}

// NewNullPrinter returns a printer that rejects every job with ErrNotConfigured.
func NewNullPrinter() Printer {
	return nullPrinter{}
}

func (nullPrinter) Print(ctx context.Context, data []byte) error { return ErrNotConfigured }

func (nullPrinter) Status(ctx context.Context) Status { return Status{Kind: "none"} }

func (nullPrinter) Close() error { return nil }
