package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/soocke/slice-bot-go/domain/input"
)

// Input source names accepted by Config.Input.
const (
	InputTerminal = "terminal"
	InputGlobal   = "global"
	InputWindow   = "window"
)

// Config holds runtime configuration for capture, detection, actuation and app behavior.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug     bool   `json:"debug"`
	DryRun    bool   `json:"dry_run"`
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	LogFile   string `json:"log_file"`

	// Capture region (screen pixels)
	RegionX       int  `json:"region_x"`
	RegionY       int  `json:"region_y"`
	RegionW       int  `json:"region_w"`
	RegionH       int  `json:"region_h"`
	SkipUnchanged bool `json:"skip_unchanged"`

	// Detection parameters
	HazardTemplate string  `json:"hazard_template"`
	TargetTemplate string  `json:"target_template"`
	IoUThreshold   float64 `json:"iou_threshold"`
	Confidence     float64 `json:"confidence"`
	ImageSize      int     `json:"image_size"`
	Stride         int     `json:"stride"`

	// Safety filter
	CutoffY float64 `json:"cutoff_y"`

	// Gesture
	Radius          float64 `json:"radius"`
	Steps           int     `json:"steps"`
	StepDelayMicros int     `json:"step_delay_micros"`

	// Keys
	Input   string `json:"input"`
	QuitKey string `json:"quit_key"`
	StopKey string `json:"stop_key"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:           false,
		DryRun:          false,
		LogLevel:        "info",
		LogFormat:       "json",
		LogFile:         "",
		RegionX:         0,
		RegionY:         0,
		RegionW:         1920,
		RegionH:         1080,
		SkipUnchanged:   true,
		HazardTemplate:  "templates/hazard.png",
		TargetTemplate:  "templates/target.png",
		IoUThreshold:    0.25,
		Confidence:      0.70,
		ImageSize:       640,
		Stride:          4,
		CutoffY:         1000,
		Radius:          50,
		Steps:           50,
		StepDelayMicros: 1,
		Input:           InputGlobal,
		QuitKey:         "q",
		StopKey:         "esc",
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "json" && c.LogFormat != "text" {
		c.LogFormat = "json"
	}
	if c.RegionX < 0 {
		c.RegionX = 0
	}
	if c.RegionY < 0 {
		c.RegionY = 0
	}
	if c.RegionW <= 0 {
		c.RegionW = 1920
	}
	if c.RegionH <= 0 {
		c.RegionH = 1080
	}
	if c.IoUThreshold <= 0 || c.IoUThreshold > 1 {
		c.IoUThreshold = 0.25
	}
	if c.Confidence <= 0 || c.Confidence > 1 {
		c.Confidence = 0.70
	}
	if c.ImageSize <= 0 {
		c.ImageSize = 640
	}
	if c.Stride <= 0 {
		c.Stride = 4
	}
	if c.CutoffY <= 0 {
		c.CutoffY = 1000
	}
	if c.Radius <= 0 {
		c.Radius = 50
	}
	if c.Steps <= 0 {
		c.Steps = 50
	}
	if c.StepDelayMicros < 0 {
		c.StepDelayMicros = 0
	}
	c.Input = strings.ToLower(strings.TrimSpace(c.Input))
	switch c.Input {
	case InputTerminal, InputGlobal, InputWindow:
	default:
		c.Input = InputGlobal
	}
	// Keys are limited to names every input source can observe.
	c.QuitKey = input.NormalizeKey(c.QuitKey)
	if !input.ValidKey(c.QuitKey) {
		c.QuitKey = "q"
	}
	c.StopKey = input.NormalizeKey(c.StopKey)
	if !input.ValidKey(c.StopKey) || c.StopKey == c.QuitKey {
		c.StopKey = "esc"
		if c.QuitKey == "esc" {
			c.StopKey = "x"
		}
	}
	return nil
}

// StepDelay returns the pause between two gesture steps.
func (c *Config) StepDelay() time.Duration {
	return time.Duration(c.StepDelayMicros) * time.Microsecond
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
