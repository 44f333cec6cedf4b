package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultGrace is the wait budget for general application processes.
	DefaultGrace = 10 * time.Second
	// StoreGrace is the shorter wait budget for auxiliary store daemons.
	StoreGrace = 5 * time.Second
)

// LoadManifest reads a role manifest from the provided path.
func LoadManifest(path string) (*Manifest, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest path: %w", err)
	}

	f, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	var doc Manifest
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", absPath, err)
	}
	if err := doc.ApplyDefaults(); err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// RolesFor returns the ordered shutdown targets for a stack root: the
// manifest at manifestPath when one exists, otherwise the built-in role set.
// Order is significant and fixed for the lifetime of the run.
func RolesFor(env *Env, manifestPath string) ([]*Role, error) {
	path := env.Path(manifestPath)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultRoles(env), nil
		}
		return nil, fmt.Errorf("stat manifest: %w", err)
	}
	doc, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return doc.materialise(env), nil
}

func (m *Manifest) materialise(env *Env) []*Role {
	roles := make([]*Role, 0, len(m.Roles))
	for _, spec := range m.Roles {
		role := &Role{
			Name:    spec.Name,
			PidFile: env.Path(spec.PidFile),
			Port:    spec.Port.Clone(),
			Pattern: spec.Pattern,
			Timeout: spec.Timeout.Duration,
		}
		if role.Port != nil && role.Port.RedisConf != "" {
			role.Port.RedisConf = env.Path(role.Port.RedisConf)
		}
		roles = append(roles, role)
	}
	return roles
}

// DefaultRoles enumerates the standard bench-style stack in reverse
// dependency order: workers and schedulers first, the stores they depend on
// last.
func DefaultRoles(env *Env) []*Role {
	redis := func(name string) *Role {
		return &Role{
			Name:    name,
			PidFile: filepath.Join(env.PidsDir, name+".pid"),
			Port:    &PortSource{RedisConf: filepath.Join(env.ConfigDir, name+".conf")},
			Pattern: name + ".conf",
			Timeout: StoreGrace,
		}
	}
	return []*Role{
		{Name: "worker", Pattern: "bench worker", Timeout: DefaultGrace},
		{Name: "scheduler", Pattern: "bench schedule", Timeout: DefaultGrace},
		{Name: "watcher", Pattern: "bench watch", Timeout: DefaultGrace},
		{
			Name:    "web",
			Port:    &PortSource{SiteKey: "webserver_port", Default: 8000},
			Pattern: "gunicorn",
			Timeout: DefaultGrace,
		},
		{
			Name:    "socketio",
			Port:    &PortSource{SiteKey: "socketio_port", Default: 9000},
			Pattern: "socketio.js",
			Timeout: DefaultGrace,
		},
		redis("redis_cache"),
		redis("redis_queue"),
		redis("redis_socketio"),
	}
}
