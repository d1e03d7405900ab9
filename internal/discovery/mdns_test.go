// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests manager setup, TXT records and answer conversion
package discovery

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/hashicorp/mdns"
)

func TestNewManager(t *testing.T) {
	config := Config{
		ServiceName: "Mind Universe",
		Port:        8927,
	}

	mgr := NewManager(config)
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	if mgr.config.Path != "/ws" {
		t.Errorf("expected default path /ws, got %s", mgr.config.Path)
	}
	mgr.Stop()
}

func TestTXTRecords(t *testing.T) {
	mgr := NewManager(Config{ServiceName: "x", Port: 1, Path: "/chat"})
	defer mgr.Stop()

	records := mgr.TXTRecords()
	if len(records) != 2 || records[0] != "path=/chat" {
		t.Errorf("unexpected TXT records: %v", records)
	}
}

func TestEntryToServer(t *testing.T) {
	entry := &mdns.ServiceEntry{
		Name:       "Living Room._mindverse._tcp.local.",
		AddrV4:     net.ParseIP("192.168.1.20"),
		Port:       8927,
		InfoFields: []string{"version=1", "path=/socket"},
	}

	server := entryToServer(entry)
	if server == nil {
		t.Fatal("expected server")
	}
	if server.Name != "Living Room" {
		t.Errorf("expected name Living Room, got %q", server.Name)
	}
	if server.Addr() != "192.168.1.20:8927" {
		t.Errorf("unexpected addr %s", server.Addr())
	}
	if server.Path != "/socket" {
		t.Errorf("expected path /socket, got %s", server.Path)
	}

	if entryToServer(&mdns.ServiceEntry{Name: "v6 only"}) != nil {
		t.Error("expected nil for entry without IPv4")
	}
	if entryToServer(nil) != nil {
		t.Error("expected nil for nil entry")
	}
}

func TestDiscoverTimeout(t *testing.T) {
	mgr := NewManager(Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// A cancelled manager never browses, so only ctx can end Discover
	mgr.cancel()
	_, err := mgr.Discover(ctx)
	if !errors.Is(err, ErrNoServer) {
		t.Errorf("expected ErrNoServer, got %v", err)
	}
}
