package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geoparty/internal/client"
	"geoparty/internal/discovery"
	"geoparty/internal/guessui"
	"geoparty/pkg/guess"
	"geoparty/pkg/kvstore"
)

func main() {
	server := flag.String("server", "", "server base URL, e.g. http://192.168.1.20:8080")
	roundID := flag.String("round", "", "round id; defaults to the host's current round")
	discover := flag.Bool("discover", false, "find the server on the local network")
	statePath := flag.String("state", kvstore.DefaultPath(), "file remembering the selected player")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	base := *server
	if base == "" && *discover {
		base = discoverServer(ctx)
	}
	if base == "" {
		base = "http://localhost:8080"
	}
	api := client.New(base)

	loadCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	id := *roundID
	if id == "" {
		var err error
		if id, err = api.CurrentRound(loadCtx); err != nil {
			log.Fatalf("no round to play on %s: %v", api.Base(), err)
		}
	}

	ctl := guess.New(ctx, id, api, kvstore.Open(*statePath))
	defer ctl.Close()
	if err := ctl.Load(loadCtx); err != nil {
		log.Fatalf("load round %s: %v", id, err)
	}
	img, err := api.FetchMap(loadCtx, ctl.Round().Map)
	if err != nil {
		log.Printf("map unavailable, continuing without it: %v", err)
	}
	cancel()

	log.Printf("playing round %s on %s", id, api.Base())
	if err := guessui.New("geoparty", ctl, img).Run(); err != nil {
		log.Fatal(err)
	}
}

func discoverServer(ctx context.Context) string {
	servers, err := discovery.Browse(ctx, discovery.DefaultTimeout)
	if err != nil {
		log.Printf("discovery failed: %v", err)
		return ""
	}
	if len(servers) == 0 {
		log.Printf("no geoparty server found on the local network")
		return ""
	}
	for _, s := range servers[1:] {
		log.Printf("also found %q at %s", s.Instance, s.URL())
	}
	log.Printf("using %q at %s", servers[0].Instance, servers[0].URL())
	return servers[0].URL()
}
