// Package testbot drives a synthetic client against a running server over
// the real TCP/UDP wire protocol, for load and smoke testing. Adapted from
// the teacher's in-process virtual client: where the teacher injected a
// Client directly into a Room, this bot speaks the actual handshake and
// sends real CarUpdate datagrams, since there is no in-process room to join.
package testbot

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"pitwall/server/internal/wire"

	"github.com/google/uuid"
)

const protocolVersion = 202

// Config describes one synthetic client.
type Config struct {
	ServerAddr string // host:tcp_port
	UDPAddr    string // host:udp_port
	GUID       string
	DriverName string
	CarModel   string
	Password   string
	SendHz     int // CarUpdate rate; defaults to 60
}

// Run connects, completes the handshake, and then sends periodic CarUpdate
// datagrams until ctx is canceled. It returns a wrapped error on any fatal
// failure.
func Run(ctx context.Context, cfg Config) error {
	if cfg.SendHz == 0 {
		cfg.SendHz = 60
	}
	if cfg.GUID == "" {
		cfg.GUID = uuid.New().String()
	}

	conn, err := net.Dial("tcp", cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("testbot: dial tcp: %w", err)
	}
	defer conn.Close()

	welcome, err := handshake(conn, cfg)
	if err != nil {
		return fmt.Errorf("testbot: handshake: %w", err)
	}
	slog.Info("testbot connected", "guid", cfg.GUID, "server", welcome.ServerName, "track", welcome.Track)

	udpConn, err := net.Dial("udp", cfg.UDPAddr)
	if err != nil {
		return fmt.Errorf("testbot: dial udp: %w", err)
	}
	defer udpConn.Close()

	carID, err := bindUDP(udpConn)
	if err != nil {
		return fmt.Errorf("testbot: bind udp: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		readTCPLoop(ctx, conn)
	}()
	go udpReadLoop(ctx, udpConn)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.SendHz))
	defer ticker.Stop()

	var seq uint8
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			writeFrame(conn, wire.IDDisconnect, wire.Disconnect{})
			return nil
		case <-done:
			return nil
		case <-ticker.C:
			sendCarUpdate(udpConn, carID, seq, start)
			seq++
		}
	}
}

// handshake sends JoinRequest and waits for NewCarConnection, WrongProtocol,
// WrongPassword, NoSlotsForCarModel, or Banned (§4.2).
func handshake(conn net.Conn, cfg Config) (wire.NewCarConnection, error) {
	join := wire.JoinRequest{
		ProtocolVersion: protocolVersion,
		GUID:            cfg.GUID,
		DriverName:      cfg.DriverName,
		DriverNation:    "XX",
		CarModel:        cfg.CarModel,
		Password:        cfg.Password,
	}
	if err := writeFrame(conn, wire.IDJoinRequest, join); err != nil {
		return wire.NewCarConnection{}, err
	}

	codec := wire.NewCodec()
	buf := make([]byte, 512)
	for {
		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		n, err := conn.Read(buf)
		if err != nil {
			return wire.NewCarConnection{}, err
		}
		codec.Accept(buf[:n])
		for {
			payload, err := codec.NextFrame()
			if err != nil {
				return wire.NewCarConnection{}, err
			}
			if payload == nil {
				break
			}
			id, decoded, err := wire.DecodePayload(payload)
			if err != nil {
				return wire.NewCarConnection{}, err
			}
			switch id {
			case wire.IDNewCarConnection:
				return decoded.(wire.NewCarConnection), nil
			case wire.IDWrongProtocol, wire.IDWrongPassword, wire.IDNoSlotsForCarModel, wire.IDBanned:
				return wire.NewCarConnection{}, fmt.Errorf("rejected: %v", id)
			}
		}
	}
}

// bindUDP sends UpdateUdpAddress with a best-guess car id of 0 and waits for
// one reply datagram. The server's ack body always carries car id 0, so the
// reply does not reveal the assigned slot; bindUDP always returns 0. The
// server ignores the binding when the bot's slot is not 0.
func bindUDP(conn net.Conn) (uint8, error) {
	if err := sendUDPFrame(conn, wire.IDUpdateUdpAddress, wire.UpdateUdpAddress{CarID: 0}); err != nil {
		return 0, err
	}
	buf := make([]byte, 2048)
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		return 0, err
	}
	_, _, err = wire.DecodePayload(buf[:n])
	if err != nil {
		return 0, err
	}
	return 0, nil
}

func sendCarUpdate(conn net.Conn, carID, seq uint8, start time.Time) {
	update := wire.CarUpdate{
		Sequence:         seq,
		Timestamp:        uint32(time.Since(start).Milliseconds()),
		Position:         wire.Vec3f{X: 0, Y: 0, Z: float32(seq) * 0.5},
		Velocity:         wire.Vec3f{X: 0, Y: 0, Z: 30},
		EngineRPM:        4500,
		Gear:             3,
		Gas:              128,
		NormalizedLapPos: float32(seq%250) / 250,
	}
	sendUDPFrame(conn, wire.IDCarUpdate, update)
}

func readTCPLoop(ctx context.Context, conn net.Conn) {
	codec := wire.NewCodec()
	buf := make([]byte, 512)
	for {
		if ctx.Err() != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("testbot tcp read error", "err", err)
			}
			return
		}
		codec.Accept(buf[:n])
		for {
			payload, err := codec.NextFrame()
			if err != nil || payload == nil {
				break
			}
			id, decoded, err := wire.DecodePayload(payload)
			if err != nil {
				continue
			}
			if id == wire.IDKick {
				slog.Info("testbot kicked", "reason", decoded.(wire.Kick).Reason)
				return
			}
		}
	}
}

func udpReadLoop(ctx context.Context, conn net.Conn) {
	buf := make([]byte, 2048)
	for {
		if ctx.Err() != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("testbot udp read error", "err", err)
			}
			return
		}
		id, decoded, err := wire.DecodePayload(buf[:n])
		if err != nil {
			continue
		}
		if id == wire.IDPing {
			ping := decoded.(wire.Ping)
			sendUDPFrame(conn, wire.IDPong, wire.Pong{SentTimeUnixMs: ping.SentTimeUnixMs})
		}
	}
}

func writeFrame(conn net.Conn, id wire.PacketID, p wire.Packet) error {
	frame := wire.EncodeFrame(wire.EncodePayload(id, p))
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_, err := conn.Write(frame)
	return err
}

func sendUDPFrame(conn net.Conn, id wire.PacketID, p wire.Packet) error {
	payload := wire.EncodePayload(id, p)
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_, err := conn.Write(payload)
	return err
}
