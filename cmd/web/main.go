package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"geoparty/internal/discovery"
	"geoparty/internal/game"
	"geoparty/internal/handlers"
)

func main() {
	uploads := flag.String("uploads", "uploads", "directory for uploaded maps and scenes")
	displayWidth := flag.Float64("display-width", 960, "widest a map is shown on server pages, in px")
	announce := flag.String("mdns", "", "announce the server on the local network under this name")
	flag.Parse()

	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")
	_ = mime.AddExtensionType(".webp", "image/webp")

	maps, err := game.OpenLibrary(filepath.Join(*uploads, game.MapsDir))
	if err != nil {
		log.Fatal(err)
	}
	scenes, err := game.OpenLibrary(filepath.Join(*uploads, game.ScenesDir))
	if err != nil {
		log.Fatal(err)
	}
	store := game.NewStore()
	cfg := handlers.Config{
		DisplayWidth: *displayWidth,
		BaseURL:      strings.TrimSpace(os.Getenv("BASE_URL")),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		log.Fatal(err)
	}

	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		handlers.NewAPIHandler(store).RegisterRoutes(r)
		handlers.NewGameHandler(store, cfg).RegisterRoutes(r)
	})
	// Host uploads may take longer than the page timeout.
	handlers.NewHostHandler(store, maps, scenes, cfg).RegisterRoutes(r)

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if *announce != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			log.Fatalf("mdns: PORT %q is not a number", port)
		}
		a, err := discovery.Announce(*announce, n)
		if err != nil {
			log.Printf("mdns disabled: %v", err)
		} else {
			defer a.Stop()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on http://localhost%s (uploads in %s)", addr, *uploads)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

//go:embed static/*
var embeddedStatic embed.FS
