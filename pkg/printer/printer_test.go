package printer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantKind string
		wantErr  bool
	}{
		{name: "default is none", opts: Options{}, wantKind: "none"},
		{name: "usb", opts: Options{Type: "usb", USBPath: "/dev/usb/lp0"}, wantKind: "usb"},
		{name: "usb without path", opts: Options{Type: "usb"}, wantErr: true},
		{name: "network", opts: Options{Type: "network", Address: "127.0.0.1:9100"}, wantKind: "network"},
		{name: "network without port", opts: Options{Type: "network", Address: "127.0.0.1"}, wantErr: true},
		{name: "network without address", opts: Options{Type: "network"}, wantErr: true},
		{name: "unknown", opts: Options{Type: "serial"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if kind := p.Status(context.Background()).Kind; kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", kind, tt.wantKind)
			}
		})
	}
}

func TestNetworkPrinterPrint(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		received <- data
	}()

	p, err := New(Options{Type: "network", Address: ln.Addr().String(), DialTimeout: time.Second, WriteTimeout: time.Second})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	job := NewDocument(32).Text("Estoque Motto").FeedLines(1).Cut().Bytes()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.Print(ctx, job); err != nil {
		t.Fatalf("print: %v", err)
	}

	select {
	case got := <-received:
		if !bytes.Equal(got, job) {
			t.Errorf("printer received %q, want %q", got, job)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("printer never received the job")
	}

	st := p.Status(ctx)
	if st.LastPrintAt == nil || st.LastError != "" {
		t.Errorf("status after print = %+v", st)
	}
}

func TestNetworkPrinterHonoursContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	p, err := New(Options{Type: "network", Address: addr})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.Print(ctx, []byte("x")); err == nil {
		t.Fatal("print with a cancelled context succeeded")
	}

	st := p.Status(context.Background())
	if st.Connected {
		t.Error("closed listener reported as connected")
	}
	if st.LastError == "" || st.LastPrintAt != nil {
		t.Errorf("status after failed job = %+v", st)
	}
}

func TestUSBPrinterWritesDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("create device: %v", err)
	}

	p, err := New(Options{Type: "usb", USBPath: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := p.Print(context.Background(), []byte("cupom")); err != nil {
		t.Fatalf("print: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read device: %v", err)
	}
	if string(got) != "cupom" {
		t.Errorf("device holds %q", got)
	}
	if st := p.Status(context.Background()); !st.Connected || st.LastPrintAt == nil {
		t.Errorf("status = %+v", st)
	}

	missing, _ := New(Options{Type: "usb", USBPath: filepath.Join(t.TempDir(), "absent")})
	if err := missing.Print(context.Background(), []byte("x")); err == nil {
		t.Error("print to a missing device succeeded")
	}
	if missing.Status(context.Background()).Connected {
		t.Error("missing device reported as connected")
	}
}

func TestNullPrinter(t *testing.T) {
	p := NewNullPrinter()
	if err := p.Print(context.Background(), []byte("x")); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("print err = %v, want ErrNotConfigured", err)
	}
	if st := p.Status(context.Background()); st.Connected || st.Kind != "none" {
		t.Errorf("status = %+v", st)
	}
}
