// Package config loads settings for the sketch server, the desktop editor
// and the render tool.
//
// Values are layered: built-in defaults, then an optional TOML file, then an
// optional .env file, then the process environment, then command-line flags.
package config

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"plan-sketcher/internal/drawing"
	"plan-sketcher/internal/render"
	"plan-sketcher/pkg/colorutil"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"
)

// ErrInvalid is returned for a configuration that cannot be used.
var ErrInvalid = errors.New("invalid config")

// Duration is a time.Duration that reads from TOML strings like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Client ClientConfig `toml:"client"`
	Canvas CanvasConfig `toml:"canvas"`
	Log    LogConfig    `toml:"log"`
}

type ServerConfig struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	MaxBody        int64    `toml:"max_body"`
}

type StoreConfig struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type ClientConfig struct {
	APIURL  string   `toml:"api_url"`
	Timeout Duration `toml:"timeout"`
}

// CanvasConfig sets the drawing surface. Colors are hex strings.
type CanvasConfig struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	StrokeWidth float64 `toml:"stroke_width"`
	FontSize    float64 `toml:"font_size"`
	Background  string  `toml:"background"`
	Stroke      string  `toml:"stroke"`
	Draft       string  `toml:"draft"`
	Label       string  `toml:"label"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:    5000,
			MaxBody: 8 << 20,
		},
		Store: StoreConfig{
			Backend:    BackendFile,
			Dir:        "data/drawings",
			Database:   "plans",
			Collection: drawing.DefaultCollection,
		},
		Client: ClientConfig{
			APIURL:  "http://localhost:5000",
			Timeout: Duration{10 * time.Second},
		},
		Canvas: CanvasConfig{
			Width:       render.DefaultWidth,
			Height:      render.DefaultHeight,
			StrokeWidth: 1,
			FontSize:    render.DefaultFontSize,
			Background:  colorutil.Hex(colorutil.White),
			Stroke:      colorutil.Hex(colorutil.Black),
			Draft:       colorutil.Hex(colorutil.DraftGray),
			Label:       colorutil.Hex(colorutil.Black),
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds a Config from the defaults, the TOML file at path and the
// .env file at envFile, then the environment. Either path may be empty.
// A missing .env file is not an error; a missing TOML file is.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, os.ErrNotExist):
		default:
			return cfg, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT %q", ErrInvalid, v)
		}
		c.Server.Port = port
	}
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	backendSet := false
	if v, ok := lookup("STORE_BACKEND"); ok && v != "" {
		c.Store.Backend = strings.ToLower(v)
		backendSet = true
	}
	if v, ok := lookup("STORE_DIR"); ok && v != "" {
		c.Store.Dir = v
	}
	if v, ok := lookup("MONGO_URI"); ok && v != "" {
		c.Store.MongoURI = v
		if !backendSet {
			c.Store.Backend = BackendMongo
		}
	}
	if v, ok := lookup("MONGO_DB"); ok && v != "" {
		c.Store.Database = v
	}

	if v, ok := lookup("API_URL"); ok && v != "" {
		c.Client.APIURL = v
	} else if v, ok := lookup("VITE_API_URL"); ok && v != "" {
		c.Client.APIURL = v
	}

	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Flag names understood by RegisterFlags and ApplyFlags.
const (
	FlagPort     = "port"
	FlagStore    = "store"
	FlagStoreDir = "store-dir"
	FlagMongoURI = "mongo-uri"
	FlagMongoDB  = "mongo-db"
	FlagAPIURL   = "api-url"
	FlagLogLevel = "log-level"
)

// RegisterFlags defines the override flags on fs. Their values only take
// effect through ApplyFlags, and only for flags given on the command line.
func RegisterFlags(fs *flag.FlagSet) {
	fs.Int(FlagPort, 0, "HTTP port (overrides PORT)")
	fs.String(FlagStore, "", "store backend: memory, file or mongo (overrides STORE_BACKEND)")
	fs.String(FlagStoreDir, "", "directory for the file backend (overrides STORE_DIR)")
	fs.String(FlagMongoURI, "", "MongoDB connection string (overrides MONGO_URI)")
	fs.String(FlagMongoDB, "", "MongoDB database (overrides MONGO_DB)")
	fs.String(FlagAPIURL, "", "drawing API base URL (overrides API_URL)")
	fs.String(FlagLogLevel, "", "log level: debug, info, warn or error (overrides LOG_LEVEL)")
}

// ApplyFlags copies every flag set on the command line into c.
func (c *Config) ApplyFlags(fs *flag.FlagSet) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		v := f.Value.String()
		switch f.Name {
		case FlagPort:
			port, perr := strconv.Atoi(v)
			if perr != nil {
				err = fmt.Errorf("%w: -port %q", ErrInvalid, v)
				return
			}
			c.Server.Port = port
		case FlagStore:
			c.Store.Backend = strings.ToLower(v)
		case FlagStoreDir:
			c.Store.Dir = v
		case FlagMongoURI:
			c.Store.MongoURI = v
		case FlagMongoDB:
			c.Store.Database = v
		case FlagAPIURL:
			c.Client.APIURL = v
		case FlagLogLevel:
			c.Log.Level = v
		}
	})
	return err
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalid, c.Server.Port)
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendFile:
		if c.Store.Dir == "" {
			return fmt.Errorf("%w: file backend needs a directory", ErrInvalid)
		}
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("%w: mongo backend needs MONGO_URI", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalid, c.Store.Backend)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := c.Canvas.Options(); err != nil {
		return err
	}
	return nil
}

// Addr returns the listen address for the server.
func (c ServerConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Options converts the canvas settings for the renderer.
func (c CanvasConfig) Options() (render.Options, error) {
	opts := render.Options{
		Width:       c.Width,
		Height:      c.Height,
		StrokeWidth: c.StrokeWidth,
		FontSize:    c.FontSize,
	}
	var err error
	if opts.Background, err = parseColor("background", c.Background); err != nil {
		return opts, err
	}
	if opts.Stroke, err = parseColor("stroke", c.Stroke); err != nil {
		return opts, err
	}
	if opts.Draft, err = parseColor("draft", c.Draft); err != nil {
		return opts, err
	}
	if opts.Label, err = parseColor("label", c.Label); err != nil {
		return opts, err
	}
	return opts, nil
}

// parseColor reads a hex color. An empty value leaves the renderer default.
func parseColor(name, v string) (color.RGBA, error) {
	if v == "" {
		return color.RGBA{}, nil
	}
	c, err := colorutil.ParseHex(v)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: canvas %s: %v", ErrInvalid, name, err)
	}
	return c, nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}
	return level, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c LogConfig) Logger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenStore opens the configured drawing store.
func (c StoreConfig) OpenStore(ctx context.Context, logger *slog.Logger) (drawing.Store, error) {
	switch c.Backend {
	case BackendMemory:
		return drawing.NewMemoryStore(), nil
	case BackendFile:
		return drawing.NewFileStore(c.Dir, logger)
	case BackendMongo:
		return drawing.NewMongoStore(ctx, c.MongoURI, c.Database, c.Collection, logger)
	}
	return nil, fmt.Errorf("%w: unknown store backend %q", ErrInvalid, c.Backend)
}
