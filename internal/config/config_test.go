package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		Server: Server{Name: "test", TCPPort: 9600, UDPPort: 9600, HTTPPort: 8081},
		Game: Game{
			ResultScreenTimeSec: 15,
			RaceOverTimeSec:     60,
		},
		Weather: []WeatherTemplate{{Graphics: "3_clear", BaseRoadTemp: 30, BaseAmbientTemp: 20, WindMinSpeed: 0, WindMaxSpeed: 10}},
		Sessions: []SessionConfig{{Name: "Practice", Type: 1, TimeMin: 10}},
		Cars:     []string{"ks_ferrari_sf70h"},
	}
}

func TestValidateAcceptsGoodConfig(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsHighRoadTemp(t *testing.T) {
	c := validConfig()
	c.Weather[0].BaseRoadTemp = 76
	if err := c.Validate(); err == nil {
		t.Error("expected error for road temp over 75C")
	}
}

func TestValidateRejectsHighAmbientTemp(t *testing.T) {
	c := validConfig()
	c.Weather[0].BaseAmbientTemp = 46
	if err := c.Validate(); err == nil {
		t.Error("expected error for ambient temp over 45C")
	}
}

func TestValidateRejectsBadWindBounds(t *testing.T) {
	c := validConfig()
	c.Weather[0].WindMinSpeed = 20
	c.Weather[0].WindMaxSpeed = 10
	if err := c.Validate(); err == nil {
		t.Error("expected error for wind min > max")
	}

	c2 := validConfig()
	c2.Weather[0].WindMaxSpeed = 41
	if err := c2.Validate(); err == nil {
		t.Error("expected error for wind max over 40 m/s")
	}
}

func TestValidateRejectsZeroSessionTime(t *testing.T) {
	c := validConfig()
	c.Sessions[0].TimeMin = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for zero session time")
	}
}

func TestValidateRejectsBadPitWindow(t *testing.T) {
	c := validConfig()
	c.Game.PitWindowEnabled = true
	c.Game.PitWindowStartMin = 30
	c.Game.PitWindowEndMin = 20
	if err := c.Validate(); err == nil {
		t.Error("expected error for pit window end <= start")
	}
}

func TestValidateRejectsShortTimers(t *testing.T) {
	c := validConfig()
	c.Game.ResultScreenTimeSec = 5
	if err := c.Validate(); err == nil {
		t.Error("expected error for result_screen_time_sec < 10")
	}

	c2 := validConfig()
	c2.Game.RaceOverTimeSec = 10
	if err := c2.Validate(); err == nil {
		t.Error("expected error for race_over_time_sec < 30")
	}
}

func TestLoadParsesYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	body := `
server:
  name: test-server
  address: 0.0.0.0
  tcp_port: 9600
  udp_port: 9600
  http_port: 8081
game:
  result_screen_time_sec: 15
  race_over_time_sec: 60
weather:
  - graphics: 3_clear
    base_road_temp: 30
    base_ambient_temp: 20
    wind_max_speed: 10
sessions:
  - name: Practice
    type: 1
    time_min: 10
cars:
  - ks_ferrari_sf70h
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Name != "test-server" {
		t.Errorf("expected name test-server, got %s", cfg.Server.Name)
	}
}
