package config

import (
	"fmt"
	"time"

	"github.com/mpapenbr/stagerace-classification-go/pkg/processing/elapsed"
)

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DB                 string // connection string for the database
	WaitForServices    string // duration to wait for other services to be ready
	LogLevel           string // sets the log level (zap log level values)
	SQLLogLevel        string // sets the log level for sql subsystem
	LogFormat          string // text vs json
	LogFilter          string // zapfilter rules, empty means no filtering
	MigrationSourceURL string // location of migration files
	BunchingThreshold  string // finishers within this gap get the time of the rider ahead
	Ordering           string // ordering of points and mountain classification (gc, points)
	SnapshotName       string // name used when storing a snapshot
)

const (
	OrderingGC     = "gc"
	OrderingPoints = "points"
)

// Config holds the configuration values which are used by the application
type Config struct {
	BunchingThreshold time.Duration
	Ordering          string
}

// Resolve converts the raw CLI values into a Config
func Resolve() (*Config, error) {
	ret := &Config{
		BunchingThreshold: elapsed.DefaultBunchingThreshold,
		Ordering:          Ordering,
	}
	if BunchingThreshold != "" {
		d, err := time.ParseDuration(BunchingThreshold)
		if err != nil {
			return nil, fmt.Errorf("invalid bunching threshold %q: %w", BunchingThreshold, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("bunching threshold must not be negative: %s", d)
		}
		ret.BunchingThreshold = d
	}
	switch ret.Ordering {
	case "":
		ret.Ordering = OrderingGC
	case OrderingGC, OrderingPoints:
	default:
		return nil, fmt.Errorf("unknown ordering %q (use %s or %s)",
			ret.Ordering, OrderingGC, OrderingPoints)
	}
	return ret, nil
}
