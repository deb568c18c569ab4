// Package backup provides store snapshots, restore and CSV catalog
// exchange.
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tokopos/internal/core/apperror"
	"tokopos/internal/core/tx"
	"tokopos/internal/core/types"
	"tokopos/internal/domain/audit"
	"tokopos/internal/domain/catalog"
	"tokopos/pkg/logger"
)

const backupPrefix = "backup_pos_"

// Service copies the store file and exchanges the catalog as CSV.
// Snapshots are plain byte copies; they are valid because the store
// runs in rollback-journal mode and writes are serialized.
type Service struct {
	dbPath    string
	backupDir string
	exportDir string
	txm       tx.Manager
	products  catalog.Repository
	aud       *audit.Service
	now       func() time.Time
}

// New wires the backup service. txm serializes snapshots against
// writers.
func New(dbPath, backupDir, exportDir string, txm tx.Manager, products catalog.Repository, aud *audit.Service) *Service {
	return &Service{
		dbPath:    dbPath,
		backupDir: backupDir,
		exportDir: exportDir,
		txm:       txm,
		products:  products,
		aud:       aud,
		now:       time.Now,
	}
}

// Backup snapshots the store file into the backup directory and
// returns the snapshot path.
func (s *Service) Backup(ctx context.Context) (string, error) {
	stamp := s.now().Format(types.FileStampLayout)
	dst := filepath.Join(s.backupDir, fmt.Sprintf("%s%s.db", backupPrefix, stamp))

	// RunInTransaction holds the manager's write mutex, so no unit of
	// work commits while the file is being copied.
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return copyFile(s.dbPath, dst)
	})
	if err != nil {
		return "", err
	}

	logger.Info(ctx, "database backed up", "path", dst)
	if err := s.aud.Append(ctx, audit.ActivityBackup, "file="+filepath.Base(dst)); err != nil {
		logger.Warn(ctx, "failed to record backup", "error", err)
	}
	return dst, nil
}

// AutoBackupDaily takes a snapshot unless one already exists for
// today. Returns the path of the new snapshot, or empty when today is
// already covered.
func (s *Service) AutoBackupDaily(ctx context.Context) (string, error) {
	today := s.now().Format(types.CompactDateLayout)

	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		return "", apperror.NewInternal(fmt.Errorf("read backup dir: %w", err))
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), backupPrefix+today) {
			return "", nil
		}
	}
	return s.Backup(ctx)
}

// Restore replaces the store file with a snapshot. The caller must
// have closed the database handle first and must restart the process
// afterwards.
func (s *Service) Restore(ctx context.Context, snapshotPath string) error {
	if _, err := os.Stat(snapshotPath); err != nil {
		return apperror.NewNotFound("backup", snapshotPath)
	}

	if err := copyFile(snapshotPath, s.dbPath); err != nil {
		return err
	}

	// The rollback journal of the overwritten store, if any, would be
	// replayed against the restored file. Remove it.
	_ = os.Remove(s.dbPath + "-journal")

	logger.Warn(ctx, "database restored", "from", snapshotPath)
	return nil
}

// ListBackups returns snapshot paths, newest name first.
func (s *Service) ListBackups() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("read backup dir: %w", err))
	}

	paths := []string{}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), backupPrefix) && strings.HasSuffix(e.Name(), ".db") {
			paths = append(paths, filepath.Join(s.backupDir, e.Name()))
		}
	}
	for i, j := 0, len(paths)-1; i < j; i, j = i+1, j-1 {
		paths[i], paths[j] = paths[j], paths[i]
	}
	return paths, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("open %s: %w", src, err))
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("create %s: %w", dst, err))
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return apperror.NewInternal(fmt.Errorf("copy to %s: %w", dst, err))
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return apperror.NewInternal(fmt.Errorf("sync %s: %w", dst, err))
	}
	return out.Close()
}
