package service

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"commentboard/app/config"
	"commentboard/app/repositories"

	"github.com/dgraph-io/badger/v4"
)

// store is an opened repository plus whatever must be released with it.
type store struct {
	repo  repositories.CommentRepository
	db    *badger.DB
	close func() error
}

func (s *store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openStore opens the configured backend, creating it if needed.
func openStore(cfg config.StoreConfig, logger *slog.Logger) (*store, error) {
	switch cfg.Driver {
	case config.DriverBadger:
		db, err := openBadger(cfg.BadgerDir, logger)
		if err != nil {
			return nil, err
		}
		return &store{
			repo:  repositories.NewBadgerCommentRepository(db),
			db:    db,
			close: db.Close,
		}, nil
	default:
		repo := repositories.NewJSONFileCommentRepository(cfg.Path)
		if err := repo.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize %s: %w", cfg.Path, err)
		}
		return &store{repo: repo}, nil
	}
}

func openBadger(dir string, logger *slog.Logger) (*badger.DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{logger})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return db, nil
}

// storeLocation is the file or directory holding the configured store.
func storeLocation(cfg config.StoreConfig) string {
	if cfg.Driver == config.DriverBadger {
		return cfg.BadgerDir
	}
	return cfg.Path
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

func ensureParent(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

// badgerLogger routes badger's internal logging through slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "badger")
}
