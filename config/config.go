// Package config loads forcegraph settings from defaults, an optional YAML
// file and FORCEGRAPH_* environment variables, in that order of precedence
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/TFMV/forcegraph/graph"
	"github.com/TFMV/forcegraph/ingest"
	"github.com/TFMV/forcegraph/physics"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "FORCEGRAPH_"

// Config is the complete application configuration
type Config struct {
	Physics   physics.Config `yaml:"physics"`
	Graph     Graph          `yaml:"graph"`
	Placement Placement      `yaml:"placement"`
	Topology  Topology       `yaml:"topology"`
	Render    Render         `yaml:"render"`
	Server    Server         `yaml:"server"`
	Logging   Logging        `yaml:"logging"`

	// LoadedFrom lists the sources applied, lowest precedence first
	LoadedFrom []string `yaml:"-"`
}

// Graph selects the graph backend
type Graph struct {
	Backend  string `yaml:"backend" validate:"oneof=set matrix"`
	Capacity int    `yaml:"capacity" validate:"gte=0"` // 0 sizes the matrix to the input
}

// Placement selects how unplaced nodes get a starting position
type Placement struct {
	Strategy string `yaml:"strategy" validate:"oneof=random noise"`
	Seed     int64  `yaml:"seed"`
}

// Topology sizes the generated demo graph
type Topology struct {
	Nodes    int `yaml:"nodes" validate:"gte=0"`
	PerGroup int `yaml:"per_group" validate:"gte=1"`
}

// Render holds output defaults
type Render struct {
	Format      string  `yaml:"format" validate:"oneof=svg report ascii json dot csv"`
	Width       float64 `yaml:"width" validate:"gt=0"`
	Height      float64 `yaml:"height" validate:"gt=0"`
	ColorScheme string  `yaml:"color_scheme" validate:"oneof=default surreal"`
}

// Server holds HTTP settings
type Server struct {
	Port           int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `yaml:"write_timeout" validate:"gt=0"`
	MaxRequestSize int64         `yaml:"max_request_size" validate:"gt=0"`
	MaxNodes       int           `yaml:"max_nodes" validate:"gte=1"` // largest scenario accepted over HTTP
	MaxSteps       int           `yaml:"max_steps" validate:"gte=1"` // largest ?steps= accepted over HTTP
}

// Logging configures the zap logger
type Logging struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing else is given
func Default() *Config {
	return &Config{
		Physics: physics.DefaultConfig(),
		Graph: Graph{
			Backend: graph.BackendSet,
		},
		Placement: Placement{
			Strategy: "random",
			Seed:     physics.DefaultPlacementSeed,
		},
		Topology: Topology{
			Nodes:    ingest.DefaultGroupedNodes,
			PerGroup: ingest.DefaultNodesPerGroup,
		},
		Render: Render{
			Format:      "svg",
			Width:       800,
			Height:      600,
			ColorScheme: "default",
		},
		Server: Server{
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
			MaxRequestSize: 1 << 20,
			MaxNodes:       400,
			MaxSteps:       10000,
		},
		Logging: Logging{
			Level: "info",
		},
		LoadedFrom: []string{"defaults"},
	}
}

// Load builds the configuration. An empty path skips the file layer; a
// path that does not exist is an error
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnvironmentVariables(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile overlays a YAML file. Unknown keys are rejected
func (c *Config) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.LoadedFrom = append(c.LoadedFrom, path)
	return nil
}

// loadEnvironmentVariables overlays FORCEGRAPH_* variables
func (c *Config) loadEnvironmentVariables() error {
	applied := false
	lookup := func(name string) (string, bool) {
		v, ok := os.LookupEnv(EnvPrefix + name)
		v = strings.TrimSpace(v)
		if ok && v != "" {
			applied = true
			return v, true
		}
		return "", false
	}

	if v, ok := lookup("STEPS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sSTEPS: %w", EnvPrefix, err)
		}
		c.Physics.Steps = n
	}
	if v, ok := lookup("BACKEND"); ok {
		c.Graph.Backend = strings.ToLower(v)
	}
	if v, ok := lookup("PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPORT: %w", EnvPrefix, err)
		}
		c.Server.Port = n
	}
	if v, ok := lookup("SEED"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEED: %w", EnvPrefix, err)
		}
		c.Placement.Seed = n
	}
	if v, ok := lookup("PLACEMENT"); ok {
		c.Placement.Strategy = strings.ToLower(v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.Logging.Level = strings.ToLower(v)
	}

	if applied {
		c.LoadedFrom = append(c.LoadedFrom, "environment")
	}
	return nil
}

var validate = validator.New()

// Validate checks struct constraints, the force constants, and the rules
// that span sections
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s must satisfy '%s %s' (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	if err := c.Physics.Validate(); err != nil {
		return err
	}

	if c.Graph.Backend == graph.BackendMatrix && c.Graph.Capacity > 0 && c.Graph.Capacity < c.Topology.Nodes {
		return fmt.Errorf("graph.capacity %d cannot hold topology.nodes %d", c.Graph.Capacity, c.Topology.Nodes)
	}
	return nil
}

// Placer returns the configured placement strategy
func (c *Config) Placer() (physics.Placer, error) {
	return physics.NewPlacer(c.Placement.Strategy, c.Placement.Seed)
}
