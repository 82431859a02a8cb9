package discovery

import (
	"net"
	"testing"

	"github.com/hashicorp/mdns"
)

func TestFromEntry(t *testing.T) {
	e := &mdns.ServiceEntry{
		Name:       "living-room._geoparty._tcp.local.",
		AddrV4:     net.IPv4(192, 168, 1, 20),
		Port:       8080,
		InfoFields: []string{"version=1", "path=/game"},
	}
	s, ok := fromEntry(e)
	if !ok {
		t.Fatal("fromEntry rejected a valid entry")
	}
	if s.Instance != "living-room" {
		t.Errorf("Instance = %q, want living-room", s.Instance)
	}
	if got, want := s.URL(), "http://192.168.1.20:8080/game"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestFromEntryRejects(t *testing.T) {
	cases := map[string]*mdns.ServiceEntry{
		"nil":           nil,
		"no address":    {Name: "a._geoparty._tcp.local.", Port: 1},
		"no port":       {Name: "a._geoparty._tcp.local.", AddrV4: net.IPv4(10, 0, 0, 1)},
		"other service": {Name: "printer._ipp._tcp.local.", AddrV4: net.IPv4(10, 0, 0, 1), Port: 631},
	}
	for name, e := range cases {
		if _, ok := fromEntry(e); ok {
			t.Errorf("%s: fromEntry accepted entry", name)
		}
	}
}

func TestAnnouncerStopNil(t *testing.T) {
	var a *Announcer
	if err := a.Stop(); err != nil {
		t.Errorf("Stop() on nil = %v", err)
	}
}
