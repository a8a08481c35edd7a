package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/gobblers-backend/internal/config"
	"github.com/rocketscienceinc/gobblers-backend/internal/repository"
	"github.com/rocketscienceinc/gobblers-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gobblers-backend/internal/stats"
	"github.com/rocketscienceinc/gobblers-backend/internal/transport/terminal"
	"github.com/rocketscienceinc/gobblers-backend/internal/usecase"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	matchRepo, closeRepo, err := newMatchRepository(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	recorder, closeStats, err := newRecorder(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeStats()

	// a nil *stats.Recorder must not end up inside a non-nil interface
	var statsRecorder usecase.StatsRecorder
	if recorder != nil {
		statsRecorder = recorder

		defer func() {
			if err := recorder.Close(); err != nil {
				log.Error("could not close stats sink", "error", err)
			}
		}()
	}

	matchUseCase := usecase.NewMatchManager(logger, matchRepo, statsRecorder)
	session := terminal.New(logger, matchUseCase, conf.DefaultPlayerNames(), in, out)

	// run terminal session
	sessionErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting terminal session", "storage", conf.Storage, "stats", conf.Stats.Driver)
		sessionErrCh <- session.Run(ctx)
	}()

	select {
	case err = <-sessionErrCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("terminal session error: %w", err)
		}
		log.Info("Terminal session finished")
		return nil
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func newMatchRepository(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.MatchRepository, func(), error) {
	if conf.Storage == config.StorageMemory {
		return repository.NewMemoryMatchRepository(), func() {}, nil
	}

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return nil, nil, ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString, conf.Redis.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeRepo := func() {
		if err := redisStorage.Close(); err != nil {
			logger.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewMatchRepository(redisStorage.Connection, conf.Redis.MatchTTL), closeRepo, nil
}

// newRecorder returns a nil recorder when stats are disabled.
func newRecorder(ctx context.Context, logger *slog.Logger, conf *config.Config) (*stats.Recorder, func(), error) {
	switch conf.Stats.Driver {
	case config.StatsCSV:
		sink, err := stats.NewCSVSink(conf.Stats.CSVPath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open csv stats: %w", err)
		}
		return stats.NewRecorder(logger, sink), func() {}, nil

	case config.StatsSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(conf.Stats.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open sqlite stats: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, nil, fmt.Errorf("could not init sqlite stats: %w", err)
		}

		closeStorage := func() {
			if err := sqliteStorage.Close(); err != nil {
				logger.Error("could not close sqlite storage", "error", err)
			}
		}

		return stats.NewRecorder(logger, stats.NewSQLiteSink(sqliteStorage.Connection)), closeStorage, nil

	default:
		return nil, func() {}, nil
	}
}
