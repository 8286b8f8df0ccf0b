package util

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mpapenbr/stagerace-classification-go/log"
	"github.com/mpapenbr/stagerace-classification-go/pkg/config"
	"github.com/mpapenbr/stagerace-classification-go/pkg/db/postgres"
	"github.com/mpapenbr/stagerace-classification-go/pkg/utils"
)

func ParseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// SetupLogger creates the application logger from the log flags and makes
// it the default one. The second logger is used for sql tracing.
func SetupLogger() (logger, sqlLogger *log.Logger, err error) {
	opts := []log.Option{log.WithCaller(true), log.AddCallerSkip(1)}
	if config.LogFilter != "" {
		filter, err := log.WithFilter(config.LogFilter)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log filter %q: %w", config.LogFilter, err)
		}
		opts = append(opts, filter)
	}
	switch config.LogFormat {
	case "json":
		logger = log.New(os.Stderr, ParseLogLevel(config.LogLevel, log.InfoLevel), opts...)
		sqlLogger = log.New(os.Stderr, ParseLogLevel(config.SQLLogLevel, log.InfoLevel), opts...)
	default:
		logger = log.DevLogger(os.Stderr, ParseLogLevel(config.LogLevel, log.InfoLevel), opts...)
		sqlLogger = log.DevLogger(os.Stderr,
			ParseLogLevel(config.SQLLogLevel, log.InfoLevel), opts...)
	}
	log.ResetDefault(logger)
	return logger, sqlLogger.Named("sql"), nil
}

// WaitForDB blocks until the database host configured by --db accepts tcp
// connections or the --wait-for-services duration has passed.
func WaitForDB() error {
	timeout, err := time.ParseDuration(config.WaitForServices)
	if err != nil {
		log.Warn("Invalid duration value. Setting default 60s", log.ErrorField(err))
		timeout = 60 * time.Second
	}
	if addr := utils.ExtractFromDBURL(config.DB); addr != "" {
		if err := utils.WaitForTCP(addr, timeout); err != nil {
			return fmt.Errorf("database not ready: %w", err)
		}
	}
	return nil
}

// OpenDB waits for the database and returns a connection pool
func OpenDB(ctx context.Context, sqlLogger *log.Logger) (*pgxpool.Pool, error) {
	if err := WaitForDB(); err != nil {
		return nil, err
	}
	return postgres.InitWithURL(ctx, config.DB, postgres.WithTracer(sqlLogger))
}
