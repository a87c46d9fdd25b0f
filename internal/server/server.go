// Package server hosts the TCP listener, handshake worker, UDP endpoint,
// and tick engine that together implement the race-server wire protocol
// (§4). The tick task is the sole mutator of shared state (§5); every other
// task pushes work to it through per-client queues.
package server

import (
	"context"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"pitwall/server/internal/config"
	"pitwall/server/internal/metrics"
	"pitwall/server/internal/wire"
	"pitwall/server/internal/world"
)

const protocolVersion = 202

// Server owns every piece of shared state and the goroutines that drive it.
type Server struct {
	cfg *config.Config
	met *metrics.Registry

	slots    *world.SlotTable
	registry *world.Registry
	sessions *world.SessionLedger
	weather  *world.Weather
	grip     *world.Grip
	bops     *world.BopLedger
	drs      world.DRSZones

	udpConn     *net.UDPConn
	udpInbound  chan udpInboundItem
	udpOutbound chan udpOutboundItem

	connMu sync.Mutex
	conns  map[uint8]*tcpConn // live TCP connections, keyed by car slot

	voteMu sync.Mutex
	votes  map[wire.PacketID]*voteTally

	handshaked chan *handshakeResult
}

// handshakeResult carries a freshly-accepted client from the handshake
// worker to the tick loop, which alone registers it (§4.8 step 2).
type handshakeResult struct {
	client *world.Client
	conn   *tcpConn
}

// New builds a Server and its world state from already-loaded configuration.
func New(cfg *config.Config, met *metrics.Registry) *Server {
	sessions := make([]world.SessionDescriptor, len(cfg.Sessions))
	for i, s := range cfg.Sessions {
		sessions[i] = world.SessionDescriptor{
			Name:        s.Name,
			Kind:        wire.SessionKind(s.Type),
			DurationSec: uint16(s.TimeMin * 60),
			Laps:        uint16(s.Laps),
		}
	}
	weatherTemplates := make([]world.WeatherTemplate, len(cfg.Weather))
	for i, w := range cfg.Weather {
		weatherTemplates[i] = world.WeatherTemplate(w)
	}
	drsZones := make([]world.DRSZone, len(cfg.DRSZones))
	for i, z := range cfg.DRSZones {
		drsZones[i] = world.DRSZone{DetectionPoint: z.DetectionPoint, ActivationStartPoint: z.ActivationStartPoint}
	}

	return &Server{
		cfg:        cfg,
		met:        met,
		slots:      world.NewSlotTable(cfg.Cars, cfg.CarSkins),
		registry:   world.NewRegistry(),
		sessions:   world.NewSessionLedger(sessions),
		weather:    world.NewWeather(weatherTemplates, time.Now().UnixNano()),
		grip:       world.NewGrip(world.GripConfig(cfg.DynamicTrack)),
		bops:       world.NewBopLedger(),
		drs:        world.DRSZones{Zones: drsZones},
		conns:      make(map[uint8]*tcpConn),
		handshaked: make(chan *handshakeResult, 8),
		udpInbound:  make(chan udpInboundItem, udpQueueCap),
		udpOutbound: make(chan udpOutboundItem, udpQueueCap),
	}
}

// World exposes the shared state the lobby package needs for read-only
// reporting.
func (s *Server) World() (*world.SlotTable, *world.Registry, *world.SessionLedger, *world.Weather) {
	return s.slots, s.registry, s.sessions, s.weather
}

// Run starts the TCP listener, UDP endpoint, and tick engine, and blocks
// until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	tcpAddr := net.JoinHostPort(s.cfg.Server.Address, strconv.Itoa(s.cfg.Server.TCPPort))
	ln, err := net.Listen("tcp", tcpAddr)
	if err != nil {
		return err
	}
	defer ln.Close()
	slog.Info("tcp listener started", "addr", tcpAddr)

	udpAddr := net.JoinHostPort(s.cfg.Server.Address, strconv.Itoa(s.cfg.Server.UDPPort))
	uaddr, err := net.ResolveUDPAddr("udp", udpAddr)
	if err != nil {
		return err
	}
	udpConn, err := net.ListenUDP("udp", uaddr)
	if err != nil {
		return err
	}
	defer udpConn.Close()
	s.udpConn = udpConn
	slog.Info("udp endpoint started", "addr", udpAddr)

	go s.acceptLoop(ctx, ln)
	go s.udpReadLoop(ctx)
	go s.udpSendLoop(ctx)

	go func() {
		<-ctx.Done()
		ln.Close()
		udpConn.Close()
	}()

	return s.runTick(ctx)
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("tcp accept error", "err", err)
			continue
		}
		go s.handshake(ctx, conn)
	}
}
