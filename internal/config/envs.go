package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds the visualizer's configuration values.
type Config struct {
	Host        string        // Host to bind the HTTP server to, empty for all interfaces
	Port        int           // Port for the HTTP server
	Rows        int           // Rows of a freshly generated grid
	Cols        int           // Columns of a freshly generated grid
	WallDensity float64       // Share of cells blocked in a fresh grid
	MaxCells    int           // Largest rows*cols a client may request
	VisitDelay  time.Duration // Pause between visited/frontier events on /run
	PathDelay   time.Duration // Pause between path events on /run
	LogLevel    log.Level     // Minimum level written by the logger
}

// Addr is the listen address.
func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// Load reads a .env file if one exists, then the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Debugf(".env file not found or could not be loaded: %v", err)
	}

	var (
		c   Config
		err error
	)
	c.Host = getEnvWithDefault("VIZ_HOST", "")
	if c.Port, err = getEnvAsInt("VIZ_PORT", 8080); err != nil {
		return Config{}, err
	}
	if c.Rows, err = getEnvAsInt("GRID_ROWS", 20); err != nil {
		return Config{}, err
	}
	if c.Cols, err = getEnvAsInt("GRID_COLS", 30); err != nil {
		return Config{}, err
	}
	if c.MaxCells, err = getEnvAsInt("GRID_MAX_CELLS", 1<<20); err != nil {
		return Config{}, err
	}
	if c.WallDensity, err = getEnvAsFloat("WALL_DENSITY", 0.25); err != nil {
		return Config{}, err
	}
	if c.VisitDelay, err = getEnvAsDuration("VISIT_DELAY", 20*time.Millisecond); err != nil {
		return Config{}, err
	}
	if c.PathDelay, err = getEnvAsDuration("PATH_DELAY", 40*time.Millisecond); err != nil {
		return Config{}, err
	}
	if c.LogLevel, err = log.ParseLevel(getEnvWithDefault("LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if c.Rows <= 0 || c.Cols <= 0 {
		return Config{}, fmt.Errorf("GRID_ROWS and GRID_COLS must be positive, got %dx%d", c.Rows, c.Cols)
	}
	if c.MaxCells <= 0 || c.Rows > c.MaxCells/c.Cols {
		return Config{}, fmt.Errorf("GRID_MAX_CELLS must be positive and cover %dx%d, got %d", c.Rows, c.Cols, c.MaxCells)
	}
	if c.WallDensity < 0 || c.WallDensity > 1 {
		return Config{}, fmt.Errorf("WALL_DENSITY must be within [0,1], got %v", c.WallDensity)
	}
	return c, nil
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be a number: %w", key, err)
	}
	return value, nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be a duration: %w", key, err)
	}
	return value, nil
}
