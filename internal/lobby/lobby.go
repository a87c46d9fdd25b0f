// Package lobby exposes a read-only HTTP view of the running server: the
// classic `/INFO` and `/JSON` lobby-browser endpoints plus a Prometheus
// `/metrics` handler, all on one Echo mux.
package lobby

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"pitwall/server/internal/config"
	"pitwall/server/internal/world"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the Echo application backing the lobby endpoints.
type Server struct {
	echo *echo.Echo

	cfg       *config.Config
	slots     *world.SlotTable
	registry  *world.Registry
	sessions  *world.SessionLedger
	weather   *world.Weather
}

// New wires the lobby routes against live server state. cfg is read-only
// after startup; the rest are updated continuously by the tick engine.
func New(cfg *config.Config, slots *world.SlotTable, registry *world.Registry, sessions *world.SessionLedger, weather *world.Weather) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger())

	s := &Server{echo: e, cfg: cfg, slots: slots, registry: registry, sessions: sessions, weather: weather}
	s.registerRoutes()
	return s
}

func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			if req.URL.Path == "/metrics" {
				return nil
			}
			slog.Debug("lobby request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote", c.RealIP(),
			)
			return nil
		}
	}
}

// Echo exposes the underlying Echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.GET("/INFO", s.handleInfo)
	s.echo.GET("/JSON", s.handleJSON)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Run starts Echo and blocks until ctx cancellation or startup failure.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		err := s.echo.Start(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down lobby http server")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.echo.Shutdown(shutCtx)
		slog.Info("lobby http server stopped")
		return nil
	}
}

// infoResponse mirrors the lobby-browser `/INFO` contract field-for-field.
type infoResponse struct {
	IP            string   `json:"ip"`
	Port          int      `json:"port"`
	CPort         int      `json:"cport"`
	TPort         int      `json:"tport"`
	Name          string   `json:"name"`
	Clients       int      `json:"clients"`
	MaxClients    int      `json:"maxclients"`
	Track         string   `json:"track"`
	Cars          []string `json:"cars"`
	TimeOfDay     float32  `json:"timeofday"`
	Session       int      `json:"session"`
	SessionTypes  []uint8  `json:"sessiontypes"`
	Durations     []uint16 `json:"durations"`
	TimeLeft      int      `json:"timeleft"`
	Country       []string `json:"country"`
	Pass          bool     `json:"pass"`
	Timestamp     int64    `json:"timestamp"`
	JSON          bool     `json:"json"`
	L             bool     `json:"l"`
	Pickup        bool     `json:"pickup"`
	Timed         bool     `json:"timed"`
	Extra         bool     `json:"extra"`
	Pit           bool     `json:"pit"`
	Inverted      int      `json:"inverted"`
}

func (s *Server) handleInfo(c echo.Context) error {
	now := time.Now()
	sessions := s.sessions.All()
	types := make([]uint8, len(sessions))
	durations := make([]uint16, len(sessions))
	for i, sd := range sessions {
		types[i] = uint8(sd.Kind)
		durations[i] = sd.DurationSec
	}

	resp := infoResponse{
		IP:           s.cfg.Server.Address,
		Port:         s.cfg.Server.UDPPort,
		CPort:        s.cfg.Server.HTTPPort,
		TPort:        s.cfg.Server.TCPPort,
		Name:         s.cfg.Server.Name,
		Clients:      s.registry.Count(),
		MaxClients:   s.slots.Len(),
		Track:        s.cfg.Track,
		Cars:         s.cfg.Cars,
		TimeOfDay:    s.cfg.SunAngle,
		Session:      s.sessions.Current(),
		SessionTypes: types,
		Durations:    durations,
		TimeLeft:     int(s.sessions.Left(now).Seconds()),
		Country:      []string{},
		Pass:         s.cfg.Server.Password != "",
		Timestamp:    now.Unix(),
		JSON:         true,
		L:            false,
		Pickup:       true,
		Timed:        true,
		Extra:        s.cfg.Game.HasExtraLap,
		Pit:          s.cfg.Game.PitWindowEnabled,
		Inverted:     s.cfg.Game.InvertedGridPositions,
	}
	return c.JSON(http.StatusOK, resp)
}

type jsonSlot struct {
	Model            string `json:"model"`
	Skin             string `json:"skin"`
	DriverName       string `json:"driverName"`
	DriverTeam       string `json:"driverTeam"`
	DriverNation     string `json:"driverNation"`
	IsConnected      bool   `json:"isConnected"`
	IsRequestedGUID  bool   `json:"isRequestedGUID"`
	IsEntryList      bool   `json:"isEntryList"`
}

func (s *Server) handleJSON(c echo.Context) error {
	slots := s.slots.Snapshot()
	out := make([]jsonSlot, len(slots))
	for i, slot := range slots {
		js := jsonSlot{Model: slot.Model, Skin: slot.Skin, IsEntryList: true}
		if slot.Driver != nil {
			js.DriverName = slot.Driver.Name
			js.DriverTeam = slot.Driver.Team
			js.DriverNation = slot.Driver.Nation
			js.IsConnected = true
			js.IsRequestedGUID = slot.Driver.GUID != ""
		}
		out[i] = js
	}
	return c.JSON(http.StatusOK, out)
}
