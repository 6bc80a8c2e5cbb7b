// Package mdns provides mDNS/Zeroconf advertisement so clients on the local
// network can discover the games server without manual configuration.
package mdns

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/holoplot/go-avahi"
)

const (
	// ServiceType is the mDNS service type advertised on the local network.
	ServiceType = "_infernogames._tcp"

	// APIVersion is the API version advertised in TXT records.
	APIVersion = "v1"
)

// Service manages mDNS advertisement through the Avahi daemon.
type Service struct {
	server *avahi.Server
	group  *avahi.EntryGroup
	logger *slog.Logger
	mu     sync.Mutex
}

// NewService creates a new mDNS service.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Start begins advertising the server. It should be called after the HTTP
// server is listening. Failure is typically non-fatal: the Avahi daemon is
// absent in containers and on non-Linux hosts.
func (s *Service) Start(serverName, version string, port uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stop an existing advertisement first (restart scenarios).
	s.stopLocked()

	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}

	server, err := avahi.ServerNew(conn)
	if err != nil {
		return fmt.Errorf("connect avahi daemon: %w", err)
	}

	group, err := server.EntryGroupNew()
	if err != nil {
		server.Close()
		return fmt.Errorf("create avahi entry group: %w", err)
	}

	host, err := os.Hostname()
	if err != nil {
		host = "inferno-games"
	}

	txt := [][]byte{
		[]byte(fmt.Sprintf("name=%s", serverName)),
		[]byte(fmt.Sprintf("version=%s", version)),
		[]byte(fmt.Sprintf("api=%s", APIVersion)),
	}

	err = group.AddService(
		avahi.InterfaceUnspec,
		avahi.ProtoUnspec,
		0,
		host,
		ServiceType,
		"", // domain, empty = .local
		"", // host, empty = system hostname
		port,
		txt,
	)
	if err != nil {
		server.Close()
		return fmt.Errorf("add avahi service: %w", err)
	}

	if err := group.Commit(); err != nil {
		server.Close()
		return fmt.Errorf("commit avahi entry group: %w", err)
	}

	s.server = server
	s.group = group

	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"port", port,
		"name", serverName,
	)

	return nil
}

// Stop stops mDNS advertising. Safe to call multiple times or if not started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Service) stopLocked() {
	if s.server == nil {
		return
	}
	s.server.Close()
	s.server = nil
	s.group = nil
	s.logger.Info("mDNS advertisement stopped")
}
