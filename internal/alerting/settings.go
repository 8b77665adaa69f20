package alerting

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidSettings = errors.New("invalid rule settings")

// Settings holds every tunable of the rule engine. It is decoded from the
// "rules" section of the config and may be swapped at runtime.
type Settings struct {
	Tick     time.Duration    `mapstructure:"tick"`
	Heatbed  HeatbedSettings  `mapstructure:"heatbed"`
	Power    PowerSettings    `mapstructure:"power"`
	Motion   MotionSettings   `mapstructure:"motion"`
	Fan      FanSettings      `mapstructure:"fan"`
	Extruder ExtruderSettings `mapstructure:"extruder"`
	Leveling LevelingSettings `mapstructure:"leveling"`
}

type HeatbedSettings struct {
	Dwell           time.Duration `mapstructure:"dwell"`
	Band            float64       `mapstructure:"band"`              // allowed distance from target, °C
	NoCurrentPower  float64       `mapstructure:"no_current_power"`  // heater duty below this counts as no current
	OpenCircuitTemp float64       `mapstructure:"open_circuit_temp"` // readings at or below this mean a disconnected probe
	ShortTemp       float64       `mapstructure:"short_temp"`
	MinRise         float64       `mapstructure:"min_rise"` // °C per tick expected at full power
}

type PowerSettings struct {
	Dwell         time.Duration `mapstructure:"dwell"`
	PrintingState string        `mapstructure:"printing_state"`
}

type MotionSettings struct {
	Dwell           time.Duration `mapstructure:"dwell"`
	MinVelocity     float64       `mapstructure:"min_velocity"`
	MinDisplacement float64       `mapstructure:"min_displacement"`
}

type FanSettings struct {
	Dwell      time.Duration `mapstructure:"dwell"`
	StallSpeed float64       `mapstructure:"stall_speed"`
	FullSpeed  float64       `mapstructure:"full_speed"`
	MinRPM     float64       `mapstructure:"min_rpm"`
}

type ExtruderSettings struct {
	Dwell    time.Duration `mapstructure:"dwell"`
	Band     float64       `mapstructure:"band"`
	MinPower float64       `mapstructure:"min_power"`
	MinTemp  float64       `mapstructure:"min_temp"`
	MaxTemp  float64       `mapstructure:"max_temp"`
}

type LevelingSettings struct {
	MaxDelta float64 `mapstructure:"max_delta"` // mm
}

// DefaultSettings returns the thresholds the engine ships with.
func DefaultSettings() Settings {
	return Settings{
		Tick: time.Second,
		Heatbed: HeatbedSettings{
			Dwell:           10 * time.Second,
			Band:            10,
			NoCurrentPower:  0.1,
			OpenCircuitTemp: -5,
			ShortTemp:       280,
			MinRise:         1,
		},
		Power: PowerSettings{
			Dwell:         10 * time.Second,
			PrintingState: "printing",
		},
		Motion: MotionSettings{
			Dwell:           time.Second,
			MinVelocity:     0.1,
			MinDisplacement: 0.1,
		},
		Fan: FanSettings{
			Dwell:      15 * time.Second,
			StallSpeed: 0.3,
			FullSpeed:  0.9,
			MinRPM:     1000,
		},
		Extruder: ExtruderSettings{
			Dwell:    15 * time.Second,
			Band:     15,
			MinPower: 0.8,
			MinTemp:  -10,
			MaxTemp:  320,
		},
		Leveling: LevelingSettings{
			MaxDelta: 0.6,
		},
	}
}

// Validate rejects settings the engine cannot run with.
func (s Settings) Validate() error {
	if s.Tick <= 0 {
		return fmt.Errorf("%w: tick must be positive, got %s", ErrInvalidSettings, s.Tick)
	}
	dwells := map[string]time.Duration{
		FamilyHeatbed:  s.Heatbed.Dwell,
		FamilyPower:    s.Power.Dwell,
		FamilyMotion:   s.Motion.Dwell,
		FamilyFan:      s.Fan.Dwell,
		FamilyExtruder: s.Extruder.Dwell,
	}
	for name, d := range dwells {
		if d < 0 {
			return fmt.Errorf("%w: %s dwell is negative", ErrInvalidSettings, name)
		}
	}
	if s.Leveling.MaxDelta <= 0 {
		return fmt.Errorf("%w: leveling max_delta must be positive", ErrInvalidSettings)
	}
	return nil
}
