// Package discovery announces a geoparty server on the local network and
// lets guess clients find it without typing an address.
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const (
	ServiceName    = "_geoparty._tcp"
	DefaultTimeout = 2 * time.Second
)

// Server is a geoparty server seen on the network.
type Server struct {
	Instance string
	Host     string
	Port     int
	Path     string
}

// URL is the base address a client should talk to.
func (s Server) URL() string {
	return "http://" + net.JoinHostPort(s.Host, fmt.Sprint(s.Port)) + s.Path
}

// Announcer keeps an mDNS responder running until Stop.
type Announcer struct {
	server *mdns.Server
}

// Announce advertises instance on port. The TXT record carries the
// version and base path.
func Announce(instance string, port int) (*Announcer, error) {
	ips := localIPv4()
	info := []string{"version=1", "path=/"}
	service, err := mdns.NewMDNSService(instance, ServiceName, "", "", port, ips, info)
	if err != nil {
		return nil, fmt.Errorf("create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mDNS server: %w", err)
	}
	log.Printf("mdns: announcing %q on %s port %d", instance, ServiceName, port)
	return &Announcer{server: server}, nil
}

func (a *Announcer) Stop() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}

func localIPv4() []net.IP {
	var ips []net.IP
	addrs, err := net.InterfaceAddrs()
	if err == nil {
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
				ips = append(ips, ipnet.IP)
			}
		}
	}
	if len(ips) == 0 {
		ips = []net.IP{net.IPv4(127, 0, 0, 1)}
	}
	return ips
}

// Browse queries the network once and returns the servers that answered
// before timeout or ctx ran out, sorted by instance name.
func Browse(ctx context.Context, timeout time.Duration) ([]Server, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	entries := make(chan *mdns.ServiceEntry, 16)
	found := map[string]Server{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if s, ok := fromEntry(e); ok {
				found[s.Instance] = s
			}
		}
	}()

	params := mdns.DefaultParams(ServiceName)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return nil, fmt.Errorf("mdns query: %w", err)
	}

	out := make([]Server, 0, len(found))
	for _, s := range found {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instance < out[j].Instance })
	return out, nil
}

// fromEntry turns a service entry into a Server. Entries for other
// services or without an IPv4 address are ignored.
func fromEntry(e *mdns.ServiceEntry) (Server, bool) {
	if e == nil || e.AddrV4 == nil || e.Port <= 0 {
		return Server{}, false
	}
	name := e.Name
	if i := strings.Index(name, "."+ServiceName); i >= 0 {
		name = name[:i]
	} else if strings.Contains(name, "._") {
		return Server{}, false
	}
	s := Server{Instance: name, Host: e.AddrV4.String(), Port: e.Port, Path: "/"}
	for _, txt := range e.InfoFields {
		if v, ok := strings.CutPrefix(txt, "path="); ok && strings.HasPrefix(v, "/") {
			s.Path = v
		}
	}
	return s, true
}
