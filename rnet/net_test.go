package rnet

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"gitlab.com/lologarithm/rangewatch/station"
)

func TestAnnouncerSendsJSON(t *testing.T) {
	hub, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer hub.Close()

	a, err := NewAnnouncer("127.0.0.1:0", hub.LocalAddr().(*net.UDPAddr))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if err := a.Broadcast(station.Snapshot{Name: "porch", DistanceCM: 12.5, Alert: "Object too close!"}); err != nil {
		t.Fatal(err)
	}

	b := make([]byte, 1024)
	hub.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := hub.ReadFromUDP(b)
	if err != nil {
		t.Fatal(err)
	}
	msg := Msg{}
	if err := json.Unmarshal(b[:n], &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Station == nil || msg.Station.Name != "porch" || msg.Station.Alert != "Object too close!" {
		t.Fatalf("got %#v", msg.Station)
	}
}

func TestMyIPsSkipsLoopback(t *testing.T) {
	ips, err := MyIPs()
	if err != nil {
		t.Skipf("no interfaces: %v", err)
	}
	for _, ip := range ips {
		if net.ParseIP(ip).IsLoopback() {
			t.Fatalf("loopback %s returned", ip)
		}
	}
}
