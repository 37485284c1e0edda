package rnet

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"

	"gitlab.com/lologarithm/rangewatch/station"
)

// StationMessages is the multicast group stations announce their state on.
var StationMessages = &net.UDPAddr{IP: net.IPv4(225, 1, 2, 3), Port: 8765}

// Msg is what is sent over the broadcast network
type Msg struct {
	Station *station.Snapshot
}

// Broadcaster pushes station state to something listening on the network.
type Broadcaster interface {
	Broadcast(s station.Snapshot) error
	Close() error
}

func encode(s station.Snapshot) ([]byte, error) {
	return json.Marshal(Msg{Station: &s})
}

// MyIPs returns the IPv4 addresses of the interfaces that can multicast.
func MyIPs() (mine []string, err error) {
	itfs, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("get network interfaces: %w", err)
	}

	for _, itf := range itfs {
		switch {
		case itf.Flags&net.FlagUp != net.FlagUp:
			continue // skip down interfaces
		case itf.Flags&net.FlagLoopback == net.FlagLoopback:
			continue // skip loopbacks
		case itf.HardwareAddr == nil:
			continue // not real network hardware
		case strings.Contains(itf.Name, "docker"):
			continue // ignore docker network
		}
		if multi, err := itf.MulticastAddrs(); err != nil || len(multi) == 0 {
			continue // no multicast
		}

		addrs, err := itf.Addrs()
		if err != nil {
			return nil, fmt.Errorf("get addrs of %s: %w", itf.Name, err)
		}
		for _, addr := range addrs {
			ip, _, err := net.ParseCIDR(addr.String())
			if err != nil {
				continue
			}
			if ipv4 := ip.To4(); ipv4 != nil {
				mine = append(mine, ipv4.String())
			}
		}
	}
	return mine, nil
}
