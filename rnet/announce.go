package rnet

import (
	"net"

	"gitlab.com/lologarithm/rangewatch/station"
)

// Announcer sends every snapshot as a JSON datagram to a UDP address,
// normally the StationMessages multicast group.
type Announcer struct {
	conn *net.UDPConn
	to   *net.UDPAddr
}

// NewAnnouncer opens a udp socket on local (host:port, port may be 0) to write to.
func NewAnnouncer(local string, to *net.UDPAddr) (*Announcer, error) {
	addr, err := net.ResolveUDPAddr("udp", local)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}
	return &Announcer{conn: conn, to: to}, nil
}

func (a *Announcer) Broadcast(s station.Snapshot) error {
	msg, err := encode(s)
	if err != nil {
		return err
	}
	_, err = a.conn.WriteToUDP(msg, a.to)
	return err
}

func (a *Announcer) Close() error {
	return a.conn.Close()
}
