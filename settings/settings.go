package settings

import (
	"errors"
	"os"

	"github.com/oomph-ac/motionsim/input"
	"github.com/oomph-ac/motionsim/oerror"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
)

// maxHorizon is the furthest a prediction may look ahead.
const maxHorizon = 200

// Settings contains everything that can be configured for the predictions.
type Settings struct {
	Prediction struct {
		// Horizon is the number of ticks simulated players are predicted ahead.
		Horizon int `default:"30"`
		// DeadAngle is the dead zone in degrees used when guessing the keys of other players.
		DeadAngle float64 `default:"20"`
		// ArrowTicks is the maximum number of ticks an arrow is simulated for.
		ArrowTicks int `default:"100"`
		// FallTicks is the maximum number of ticks a fall is searched for a landing.
		FallTicks int `default:"20"`
	}
	Log struct {
		// Level is the logrus level name, such as "info" or "debug".
		Level string `default:"info"`
	}
	Stats struct {
		// Enabled starts the runtime stats viewer.
		Enabled bool
		Address string `default:"localhost:8080"`
	}
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	settings := Settings{}
	settings.Prediction.Horizon = 30
	settings.Prediction.DeadAngle = input.DefaultDeadAngle
	settings.Prediction.ArrowTicks = 100
	settings.Prediction.FallTicks = 20

	settings.Log.Level = logrus.InfoLevel.String()

	settings.Stats.Address = "localhost:8080"
	return settings
}

// LogLevel returns the parsed log level.
func (s Settings) LogLevel() (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(s.Log.Level)
	if err != nil {
		return 0, oerror.New("%w: %v", oerror.ErrInvalidSettings, err)
	}
	return lvl, nil
}

// Validate returns an error wrapping oerror.ErrInvalidSettings if a setting is out of range.
func (s Settings) Validate() error {
	if s.Prediction.Horizon <= 0 || s.Prediction.Horizon > maxHorizon {
		return oerror.New("%w: horizon must be between 1 and %d, got %d", oerror.ErrInvalidSettings, maxHorizon, s.Prediction.Horizon)
	}
	if s.Prediction.DeadAngle < 0 || s.Prediction.DeadAngle >= 45 {
		return oerror.New("%w: dead angle must be in [0, 45), got %v", oerror.ErrInvalidSettings, s.Prediction.DeadAngle)
	}
	if s.Prediction.ArrowTicks <= 0 || s.Prediction.FallTicks <= 0 {
		return oerror.New("%w: arrow and fall ticks must be positive", oerror.ErrInvalidSettings)
	}
	_, err := s.LogLevel()
	return err
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		return oerror.New("settings file already exists")
	}

	data, err := toml.Marshal(DefaultSettings())
	if err != nil {
		return oerror.New("failed encoding default settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return oerror.New("failed creating settings file: %w", err)
	}
	return nil
}

// Load will load the settings from your settings file, and return an error if the file does not exist.
// Settings missing from the file keep their default value.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, oerror.New("error reading config: %w", err)
	}

	settings := DefaultSettings()
	if err = toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, oerror.New("error decoding config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
