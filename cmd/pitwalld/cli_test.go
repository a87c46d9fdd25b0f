package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "server_cfg.yml")
	body := `
server:
  name: test server
  tcp_port: 9600
  udp_port: 9600
  http_port: 8081
game:
  result_screen_time_sec: 30
  race_over_time_sec: 60
weather:
  - graphics: "3_clear"
sessions:
  - name: Practice
    type: 1
    time_min: 10
track: monza
track_config: full
cars:
  - ks_ferrari_sf70h
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunCLIVersionReturnsTrue(t *testing.T) {
	if !RunCLI([]string{"version"}) {
		t.Error("expected version subcommand to be handled")
	}
}

func TestRunCLIUnknownSubcommandReturnsFalse(t *testing.T) {
	if RunCLI([]string{"bogus"}) {
		t.Error("expected unknown subcommand to fall through")
	}
}

func TestRunCLIEmptyArgsReturnsFalse(t *testing.T) {
	if RunCLI([]string{}) {
		t.Error("expected empty args to fall through")
	}
}

func TestCLIStatusReturnsTrue(t *testing.T) {
	path := writeTestConfig(t)
	if !cliStatus([]string{"-config", path}) {
		t.Error("expected status subcommand to be handled")
	}
}
