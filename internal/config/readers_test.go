package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRedisPort(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "redis_cache.conf")
	content := `# redis configuration
dbfilename redis_cache.rdb
bind 127.0.0.1

port 13000
maxmemory 100mb
`
	if err := os.WriteFile(conf, []byte(content), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	port, err := RedisPort(conf)
	if err != nil {
		t.Fatalf("RedisPort returned error: %v", err)
	}
	if port != 13000 {
		t.Fatalf("expected port 13000, got %d", port)
	}
}

func TestRedisPortMissingFile(t *testing.T) {
	port, err := RedisPort(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("missing file must not error, got %v", err)
	}
	if port != 0 {
		t.Fatalf("expected zero port, got %d", port)
	}
}

func TestRedisPortMalformed(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "redis_cache.conf")
	if err := os.WriteFile(conf, []byte("port thirteen-thousand\n"), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	if _, err := RedisPort(conf); err == nil {
		t.Fatal("expected malformed port to error")
	}
}

func TestRedisPortNoPortLine(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "redis_cache.conf")
	if err := os.WriteFile(conf, []byte("bind 127.0.0.1\n# port 9999 commented out\n"), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	port, err := RedisPort(conf)
	if err != nil {
		t.Fatalf("RedisPort returned error: %v", err)
	}
	if port != 0 {
		t.Fatalf("expected zero port, got %d", port)
	}
}

func TestSiteConfigPort(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "common_site_config.json")
	content := `{
  "db_host": "localhost",
  "webserver_port": 8001,
  "socketio_port": "9001",
  "background_workers": 1
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write site config: %v", err)
	}

	cfg, err := LoadSiteConfig(path)
	if err != nil {
		t.Fatalf("LoadSiteConfig returned error: %v", err)
	}
	if got := cfg.Port("webserver_port"); got != 8001 {
		t.Fatalf("expected numeric port 8001, got %d", got)
	}
	if got := cfg.Port("socketio_port"); got != 9001 {
		t.Fatalf("expected string port 9001, got %d", got)
	}
	if got := cfg.Port("db_host"); got != 0 {
		t.Fatalf("non-numeric value must read as zero, got %d", got)
	}
	if got := cfg.Port("missing_key"); got != 0 {
		t.Fatalf("absent key must read as zero, got %d", got)
	}
}

func TestLoadSiteConfigMissingFile(t *testing.T) {
	cfg, err := LoadSiteConfig(filepath.Join(t.TempDir(), "common_site_config.json"))
	if err != nil {
		t.Fatalf("missing site config must not error, got %v", err)
	}
	if got := cfg.Port("webserver_port"); got != 0 {
		t.Fatalf("expected zero port from empty config, got %d", got)
	}
}

func TestPortForPrecedence(t *testing.T) {
	dir := t.TempDir()
	env, err := NewEnv(dir)
	if err != nil {
		t.Fatalf("NewEnv: %v", err)
	}
	if err := os.MkdirAll(env.ConfigDir, 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	conf := filepath.Join(env.ConfigDir, "redis_queue.conf")
	if err := os.WriteFile(conf, []byte("port 11000\n"), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	port, err := env.PortFor(&PortSource{RedisConf: conf, Default: 6379})
	if err != nil {
		t.Fatalf("PortFor returned error: %v", err)
	}
	if port != 11000 {
		t.Fatalf("configured port must win over default, got %d", port)
	}

	port, err = env.PortFor(&PortSource{SiteKey: "webserver_port", Default: 8000})
	if err != nil {
		t.Fatalf("PortFor returned error: %v", err)
	}
	if port != 8000 {
		t.Fatalf("expected default when site key absent, got %d", port)
	}

	port, err = env.PortFor(nil)
	if err != nil {
		t.Fatalf("PortFor(nil) returned error: %v", err)
	}
	if port != 0 {
		t.Fatalf("nil source must yield zero, got %d", port)
	}
}
