package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/trackpace/internal/profile"
	"github.com/banshee-data/trackpace/internal/sim"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for tuning parameters.
// Every field is optional; the Get* accessors fall back to built-in
// defaults for anything not set.
type TuningConfig struct {
	// Path building
	ClusteringDistance *float64 `json:"clustering_distance,omitempty"`

	// Speed limits
	MaxVelocity              *float64 `json:"max_velocity,omitempty"`
	CurvatureVelocityScaling *float64 `json:"curvature_velocity_scaling,omitempty"`

	// Braking profile
	Acceleration   *float64 `json:"acceleration,omitempty"`
	DistanceOffset *float64 `json:"distance_offset,omitempty"`
	ReactionTime   *string  `json:"reaction_time,omitempty"` // duration string like "150ms"

	// Simulator params (optional)
	TimeStep          *string  `json:"time_step,omitempty"` // duration string like "20ms"
	WaypointRadius    *float64 `json:"waypoint_radius,omitempty"`
	AgentAcceleration *float64 `json:"agent_acceleration,omitempty"`
	AgentDeceleration *float64 `json:"agent_deceleration,omitempty"`
	TurnRate          *float64 `json:"turn_rate,omitempty"` // rad/s
	MaxTicks          *int     `json:"max_ticks,omitempty"`
	Laps              *int     `json:"laps,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// DefaultTuningConfig returns a TuningConfig with every field set to its
// built-in default.
func DefaultTuningConfig() *TuningConfig {
	empty := EmptyTuningConfig()
	return &TuningConfig{
		ClusteringDistance:       ptrFloat64(empty.GetClusteringDistance()),
		MaxVelocity:              ptrFloat64(empty.GetMaxVelocity()),
		CurvatureVelocityScaling: ptrFloat64(empty.GetCurvatureVelocityScaling()),
		Acceleration:             ptrFloat64(empty.GetAcceleration()),
		DistanceOffset:           ptrFloat64(empty.GetDistanceOffset()),
		ReactionTime:             ptrString(empty.GetReactionTime().String()),
		TimeStep:                 ptrString(empty.GetTimeStep().String()),
		WaypointRadius:           ptrFloat64(empty.GetWaypointRadius()),
		AgentAcceleration:        ptrFloat64(empty.GetAgentAcceleration()),
		AgentDeceleration:        ptrFloat64(empty.GetAgentDeceleration()),
		TurnRate:                 ptrFloat64(empty.GetTurnRate()),
		MaxTicks:                 ptrInt(empty.GetMaxTicks()),
		Laps:                     ptrInt(empty.GetLaps()),
	}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from cmd/<tool>/ subpackages
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	nonNegative := []struct {
		name string
		v    *float64
	}{
		{"clustering_distance", c.ClusteringDistance},
		{"acceleration", c.Acceleration},
		{"distance_offset", c.DistanceOffset},
		{"waypoint_radius", c.WaypointRadius},
		{"agent_acceleration", c.AgentAcceleration},
		{"agent_deceleration", c.AgentDeceleration},
		{"turn_rate", c.TurnRate},
	}
	for _, f := range nonNegative {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", f.name, *f.v)
		}
	}

	if c.MaxVelocity != nil && *c.MaxVelocity <= 0 {
		return fmt.Errorf("max_velocity must be positive, got %f", *c.MaxVelocity)
	}
	if c.CurvatureVelocityScaling != nil && *c.CurvatureVelocityScaling <= 0 {
		return fmt.Errorf("curvature_velocity_scaling must be positive, got %f", *c.CurvatureVelocityScaling)
	}

	if c.ReactionTime != nil && *c.ReactionTime != "" {
		d, err := time.ParseDuration(*c.ReactionTime)
		if err != nil {
			return fmt.Errorf("invalid reaction_time '%s': %w", *c.ReactionTime, err)
		}
		if d < 0 {
			return fmt.Errorf("reaction_time must be non-negative, got %s", d)
		}
	}

	if c.TimeStep != nil && *c.TimeStep != "" {
		d, err := time.ParseDuration(*c.TimeStep)
		if err != nil {
			return fmt.Errorf("invalid time_step '%s': %w", *c.TimeStep, err)
		}
		if d <= 0 {
			return fmt.Errorf("time_step must be positive, got %s", d)
		}
	}

	if c.MaxTicks != nil && *c.MaxTicks <= 0 {
		return fmt.Errorf("max_ticks must be positive, got %d", *c.MaxTicks)
	}
	if c.Laps != nil && *c.Laps < 0 {
		return fmt.Errorf("laps must be non-negative, got %d", *c.Laps)
	}

	return nil
}

// Limits builds the speed limits shared by every path point.
func (c *TuningConfig) Limits() profile.Limits {
	return profile.Limits{
		MaxVelocity:              c.GetMaxVelocity(),
		CurvatureVelocityScaling: c.GetCurvatureVelocityScaling(),
	}
}

// Profile builds the braking model.
func (c *TuningConfig) Profile() profile.Profile {
	return profile.Profile{
		Acceleration:   c.GetAcceleration(),
		DistanceOffset: c.GetDistanceOffset(),
		ReactionTime:   c.GetReactionTime(),
	}
}

// SimConfig builds the host simulator configuration.
func (c *TuningConfig) SimConfig() sim.Config {
	return sim.Config{
		TimeStep:       c.GetTimeStep(),
		WaypointRadius: c.GetWaypointRadius(),
		Acceleration:   c.GetAgentAcceleration(),
		Deceleration:   c.GetAgentDeceleration(),
		TurnRate:       c.GetTurnRate(),
		MaxTicks:       c.GetMaxTicks(),
		Laps:           c.GetLaps(),
	}
}

// GetClusteringDistance returns the clustering_distance value or the default.
func (c *TuningConfig) GetClusteringDistance() float64 {
	if c.ClusteringDistance == nil {
		return 400.0
	}
	return *c.ClusteringDistance
}

// GetMaxVelocity returns the max_velocity value or the default.
func (c *TuningConfig) GetMaxVelocity() float64 {
	if c.MaxVelocity == nil {
		return profile.DefaultLimits().MaxVelocity
	}
	return *c.MaxVelocity
}

// GetCurvatureVelocityScaling returns the curvature_velocity_scaling value or the default.
func (c *TuningConfig) GetCurvatureVelocityScaling() float64 {
	if c.CurvatureVelocityScaling == nil {
		return profile.DefaultLimits().CurvatureVelocityScaling
	}
	return *c.CurvatureVelocityScaling
}

// GetAcceleration returns the acceleration value or the default.
func (c *TuningConfig) GetAcceleration() float64 {
	if c.Acceleration == nil {
		return profile.DefaultProfile().Acceleration
	}
	return *c.Acceleration
}

// GetDistanceOffset returns the distance_offset value or the default.
func (c *TuningConfig) GetDistanceOffset() float64 {
	if c.DistanceOffset == nil {
		return profile.DefaultProfile().DistanceOffset
	}
	return *c.DistanceOffset
}

// GetReactionTime parses and returns the ReactionTime as a time.Duration.
func (c *TuningConfig) GetReactionTime() time.Duration {
	if c.ReactionTime == nil || *c.ReactionTime == "" {
		return 0 // default: no actuation lag
	}
	d, err := time.ParseDuration(*c.ReactionTime)
	if err != nil {
		return 0 // default on parse error
	}
	return d
}

// GetTimeStep parses and returns the TimeStep as a time.Duration.
func (c *TuningConfig) GetTimeStep() time.Duration {
	if c.TimeStep == nil || *c.TimeStep == "" {
		return sim.DefaultConfig().TimeStep
	}
	d, err := time.ParseDuration(*c.TimeStep)
	if err != nil {
		return sim.DefaultConfig().TimeStep // default on parse error
	}
	return d
}

// GetWaypointRadius returns the waypoint_radius value or the default.
func (c *TuningConfig) GetWaypointRadius() float64 {
	if c.WaypointRadius == nil {
		return sim.DefaultConfig().WaypointRadius
	}
	return *c.WaypointRadius
}

// GetAgentAcceleration returns the agent_acceleration value or the default.
func (c *TuningConfig) GetAgentAcceleration() float64 {
	if c.AgentAcceleration == nil {
		return sim.DefaultConfig().Acceleration
	}
	return *c.AgentAcceleration
}

// GetAgentDeceleration returns the agent_deceleration value or the default.
func (c *TuningConfig) GetAgentDeceleration() float64 {
	if c.AgentDeceleration == nil {
		return sim.DefaultConfig().Deceleration
	}
	return *c.AgentDeceleration
}

// GetTurnRate returns the turn_rate value or the default.
func (c *TuningConfig) GetTurnRate() float64 {
	if c.TurnRate == nil {
		return sim.DefaultConfig().TurnRate
	}
	return *c.TurnRate
}

// GetMaxTicks returns the max_ticks value or the default.
func (c *TuningConfig) GetMaxTicks() int {
	if c.MaxTicks == nil {
		return sim.DefaultConfig().MaxTicks
	}
	return *c.MaxTicks
}

// GetLaps returns the laps value or the default.
func (c *TuningConfig) GetLaps() int {
	if c.Laps == nil {
		return sim.DefaultConfig().Laps
	}
	return *c.Laps
}
