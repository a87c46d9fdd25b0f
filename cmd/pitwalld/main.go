package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"pitwall/server/internal/config"
	"pitwall/server/internal/lobby"
	"pitwall/server/internal/metrics"
	"pitwall/server/internal/server"
	"pitwall/server/internal/testbot"
)

func main() {
	if len(os.Args) > 1 {
		if RunCLI(os.Args[1:]) {
			return
		}
	}

	configPath := flag.String("config", "server_cfg.yml", "path to the server YAML configuration")
	httpAddr := flag.String("http-addr", ":8081", "HTTP lobby listen address (/INFO, /JSON, /metrics)")
	logLevel := flag.String("log-level", "", "override the config file's log level (debug|info|warn|error)")
	testGUID := flag.String("test-bot", "", "GUID for a synthetic load-test client (empty to disable)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[config] %v", err)
	}

	level := cfg.Server.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)})))

	met := metrics.New()
	srv := server.New(cfg, met)
	slots, registry, sessions, weather := srv.World()
	lob := lobby.New(cfg, slots, registry, sessions, weather)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		cancel()
	}()

	if *testGUID != "" {
		host := cfg.Server.Address
		if host == "" {
			host = "127.0.0.1"
		}
		go func() {
			err := testbot.Run(ctx, testbot.Config{
				ServerAddr: net.JoinHostPort(host, strconv.Itoa(cfg.Server.TCPPort)),
				UDPAddr:    net.JoinHostPort(host, strconv.Itoa(cfg.Server.UDPPort)),
				GUID:       *testGUID,
				DriverName: "Test Bot",
				CarModel:   cfg.Cars[0],
			})
			if err != nil {
				slog.Error("test bot exited", "err", err)
			}
		}()
	}

	go func() {
		if err := lob.Run(ctx, *httpAddr); err != nil {
			slog.Error("lobby server exited", "err", err)
		}
	}()

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("[server] %v", err)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
