package server

import (
	"context"
	"log/slog"
	"net"

	"pitwall/server/internal/wire"
	"pitwall/server/internal/world"
)

// udpInboundItem is one decoded datagram plus its source address, queued to
// the tick loop for draining (§4.8 step 1).
type udpInboundItem struct {
	addr *net.UDPAddr
	id   wire.PacketID
	pkt  any
}

// udpOutboundItem is one queued (address, packet) pair for the send loop.
type udpOutboundItem struct {
	addr *net.UDPAddr
	data []byte
}

const udpQueueCap = 1024

// udpReadLoop receives one datagram per iteration, decodes it, and enqueues
// it for the tick loop. Malformed datagrams are dropped and logged, never
// fatal to the endpoint (§7).
func (s *Server) udpReadLoop(ctx context.Context) {
	buf := make([]byte, 2048)
	for {
		n, addr, err := s.udpConn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Debug("udp read error", "err", err)
			continue
		}
		id, pkt, err := wire.DecodePayload(buf[:n])
		if err != nil {
			slog.Debug("udp decode error, dropping datagram", "addr", addr, "err", err)
			if s.met != nil {
				s.met.DecodeErrors.Inc()
			}
			continue
		}
		if s.met != nil {
			s.met.DatagramsIn.Inc()
		}
		select {
		case s.udpInbound <- udpInboundItem{addr: addr, id: id, pkt: pkt}:
		default:
			slog.Warn("udp inbound queue full, dropping datagram", "addr", addr)
		}
	}
}

// udpSendLoop drains the outbound queue, writing each datagram to the
// socket. No retry or acknowledgement is performed (§4.4).
func (s *Server) udpSendLoop(ctx context.Context) {
	for {
		select {
		case item := <-s.udpOutbound:
			if _, err := s.udpConn.WriteToUDP(item.data, item.addr); err != nil {
				slog.Debug("udp write error", "addr", item.addr, "err", err)
				continue
			}
			if s.met != nil {
				s.met.DatagramsOut.Inc()
			}
		case <-ctx.Done():
			return
		}
	}
}

// sendUDP enqueues a packet for asynchronous delivery to a bound client.
func (s *Server) sendUDP(c *world.Client, id wire.PacketID, p wire.Packet) {
	addr := c.BoundUDPAddr()
	if addr == nil {
		return
	}
	select {
	case s.udpOutbound <- udpOutboundItem{addr: addr, data: wire.EncodePayload(id, p)}:
	default:
		slog.Warn("udp outbound queue full, dropping packet", "car_id", c.CarID)
	}
}
