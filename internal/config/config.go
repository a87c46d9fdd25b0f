// Package config loads and validates the on-disk YAML server configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Server holds connection and process-level options.
type Server struct {
	Name            string `yaml:"name"`
	Address         string `yaml:"address"`
	TCPPort         int    `yaml:"tcp_port"`
	UDPPort         int    `yaml:"udp_port"`
	HTTPPort        int    `yaml:"http_port"`
	MaxClients      int    `yaml:"max_clients"`
	WelcomeMessage  string `yaml:"welcome_message"`
	ClientSendHz    int    `yaml:"client_send_interval_hz"`
	Password        string `yaml:"password"`
	AdminPassword   string `yaml:"admin_password"`
	LogLevel        string `yaml:"log_level"`
}

// Game holds gameplay rule options.
type Game struct {
	Tyres               []string `yaml:"tyres"`
	TCAllowed            string   `yaml:"tc_allowed"`
	ABSAllowed           string   `yaml:"abs_allowed"`
	StabilityAllowed     bool     `yaml:"stability_allowed"`
	AutoClutchAllowed    bool     `yaml:"auto_clutch_allowed"`
	TyreBlanketsAllowed  bool     `yaml:"tyre_blankets_allowed"`
	DamageMultiplier     float32  `yaml:"damage_multiplier"`
	FuelRate             float32  `yaml:"fuel_rate"`
	TyreWearRate         float32  `yaml:"tyre_wear_rate"`
	ForceVirtualMirror   bool     `yaml:"force_virtual_mirror"`
	MaxContactsPerKm     int      `yaml:"max_contacts_per_km"`
	PitWindowStartMin    int      `yaml:"pit_window_start_min"`
	PitWindowEndMin      int      `yaml:"pit_window_end_min"`
	PitWindowEnabled     bool     `yaml:"pit_window_enabled"`
	VoteDurationSec      int      `yaml:"vote_duration_sec"`
	HasExtraLap          bool     `yaml:"has_extra_lap"`
	GasPenaltyDisabled   bool     `yaml:"gas_penalty_disabled"`
	StartRule            int      `yaml:"start_rule"`
	InvertedGridPositions int     `yaml:"inverted_grid_positions"`
	ResultScreenTimeSec  int      `yaml:"result_screen_time_sec"`
	RaceOverTimeSec      int      `yaml:"race_over_time_sec"`
	Bops                 []BopEntry `yaml:"bops"`
}

// BopEntry configures the ballast/restrictor pair applied to every car
// joining with the matching model.
type BopEntry struct {
	CarModel   string  `yaml:"car_model"`
	Ballast    float32 `yaml:"ballast"`
	Restrictor float32 `yaml:"restrictor"`
}

// DynamicTrack holds the grip-evolution parameters.
type DynamicTrack struct {
	Enabled         bool    `yaml:"enabled"`
	BaseGrip        float32 `yaml:"base_grip"`
	GripPerLap      float32 `yaml:"grip_per_lap"`
	SessionTransfer float32 `yaml:"session_transfer"`
}

// WeatherTemplate mirrors world.WeatherTemplate in config-file shape.
type WeatherTemplate struct {
	Graphics          string  `yaml:"graphics"`
	BaseRoadTemp      float32 `yaml:"base_road_temp"`
	VariationRoadTemp float32 `yaml:"variation_road_temp"`
	BaseAmbientTemp   float32 `yaml:"base_ambient_temp"`
	VariationAmbient  float32 `yaml:"variation_ambient"`
	WindMinSpeed      float32 `yaml:"wind_min_speed"`
	WindMaxSpeed      float32 `yaml:"wind_max_speed"`
	WindBaseDirection float32 `yaml:"wind_base_direction"`
	WindVariation     float32 `yaml:"wind_variation"`
}

// SessionConfig is one configured session entry.
type SessionConfig struct {
	Name     string `yaml:"name"`
	Type     int    `yaml:"type"` // 0=Booking 1=Practice 2=Qualify 3=Race
	TimeMin  int    `yaml:"time_min"`
	Laps     int    `yaml:"laps"`
}

// DRSZoneConfig is one DRS detection/activation marker pair.
type DRSZoneConfig struct {
	DetectionPoint       float32 `yaml:"detection_point"`
	ActivationStartPoint float32 `yaml:"activation_start_point"`
}

// Config is the full on-disk configuration.
type Config struct {
	Server              Server            `yaml:"server"`
	Game                Game              `yaml:"game"`
	DynamicTrack        DynamicTrack      `yaml:"dynamic_track"`
	Weather             []WeatherTemplate `yaml:"weather"`
	Sessions            []SessionConfig   `yaml:"sessions"`
	SunAngle            float32           `yaml:"sun_angle"`
	TimeOfDayMultiplier float32           `yaml:"time_of_day_multiplier"`
	Track               string            `yaml:"track"`
	TrackConfig         string            `yaml:"track_config"`
	Cars                []string          `yaml:"cars"`
	CarSkins            []string          `yaml:"car_skins"`
	DRSZones            []DRSZoneConfig   `yaml:"drs_zones"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate enforces the invariants named in §6: temperature ceilings, wind
// bounds, nonzero session time, pit window ordering, and the two minimum
// timers.
func (c *Config) Validate() error {
	for _, w := range c.Weather {
		if w.BaseRoadTemp > 75 {
			return fmt.Errorf("weather %q: road temp %.1f exceeds 75C ceiling", w.Graphics, w.BaseRoadTemp)
		}
		if w.BaseAmbientTemp > 45 {
			return fmt.Errorf("weather %q: ambient temp %.1f exceeds 45C ceiling", w.Graphics, w.BaseAmbientTemp)
		}
		if w.WindMinSpeed > w.WindMaxSpeed {
			return fmt.Errorf("weather %q: wind min %.1f exceeds wind max %.1f", w.Graphics, w.WindMinSpeed, w.WindMaxSpeed)
		}
		if w.WindMaxSpeed > 40 {
			return fmt.Errorf("weather %q: wind max %.1f exceeds 40 m/s ceiling", w.Graphics, w.WindMaxSpeed)
		}
	}
	if len(c.Sessions) == 0 {
		return fmt.Errorf("at least one session is required")
	}
	for _, s := range c.Sessions {
		if s.TimeMin == 0 {
			return fmt.Errorf("session %q: time must be nonzero", s.Name)
		}
	}
	if c.Game.PitWindowEnabled && c.Game.PitWindowEndMin <= c.Game.PitWindowStartMin {
		return fmt.Errorf("pit window end (%d) must exceed start (%d)", c.Game.PitWindowEndMin, c.Game.PitWindowStartMin)
	}
	if c.Game.ResultScreenTimeSec < 10 {
		return fmt.Errorf("result_screen_time_sec %d below 10s minimum", c.Game.ResultScreenTimeSec)
	}
	if c.Game.RaceOverTimeSec < 30 {
		return fmt.Errorf("race_over_time_sec %d below 30s minimum", c.Game.RaceOverTimeSec)
	}
	if len(c.Cars) == 0 {
		return fmt.Errorf("at least one configured car is required")
	}
	return nil
}
