package backup

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/stampet/internal/constants"
	"github.com/julianstephens/stampet/internal/logger"
)

const timestampLayout = "20060102-150405"

// ErrNoDataFile is returned when the storage file to back up does not exist.
var ErrNoDataFile = errors.New("storage file does not exist")

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager backs up the local storage file. SQLite files are copied with
// VACUUM INTO, JSON files byte for byte.
type Manager struct {
	dataPath  string
	backupDir string
	suffix    string
	now       func() time.Time
}

// NewManager creates a backup manager for the storage file at dataPath.
// Backups live in a "backups" directory next to it.
func NewManager(dataPath string) *Manager {
	suffix := filepath.Ext(dataPath)
	if suffix == "" {
		suffix = ".db"
	}
	return &Manager{
		dataPath:  dataPath,
		backupDir: filepath.Join(filepath.Dir(dataPath), constants.BackupDirName),
		suffix:    suffix,
		now:       time.Now,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

func (m *Manager) isJSON() bool {
	return strings.EqualFold(m.suffix, ".json")
}

// CreateBackup copies the storage file and prunes backups beyond the limit.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// skipRotation keeps the pre-restore safety copy from pruning the backup
// being restored.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if _, err := os.Stat(m.dataPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %s", ErrNoDataFile, m.dataPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	backupPath, err := m.nextBackupPath()
	if err != nil {
		return "", err
	}

	if m.isJSON() {
		err = m.backupJSON(backupPath)
	} else {
		err = m.backupDatabase(backupPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", m.dataPath, err)
	}
	logger.Info("Backup created", "path", backupPath)

	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			logger.Warn("Failed to rotate old backups", "error", err)
		}
	}

	return backupPath, nil
}

func (m *Manager) nextBackupPath() (string, error) {
	stamp := m.now().Format(timestampLayout)
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+m.suffix)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", errors.New("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, counter, m.suffix))
	}
}

func (m *Manager) backupJSON(destPath string) error {
	data, err := os.ReadFile(m.dataPath)
	if err != nil {
		return err
	}
	if !json.Valid(data) {
		return errors.New("source file is not valid JSON")
	}
	return copyFile(m.dataPath, destPath)
}

func (m *Manager) backupDatabase(destPath string) error {
	srcDB, err := sql.Open("sqlite", m.dataPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer srcDB.Close()

	var count int
	if err := srcDB.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := srcDB.Exec("VACUUM INTO ?", destPath); err != nil {
		logger.Debug("VACUUM INTO failed, falling back to file copy", "error", err)
		srcDB.Close()
		return copyFile(m.dataPath, destPath)
	}
	return nil
}

// ListBackups returns all backups, newest first.
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, m.suffix) {
			continue
		}

		ts, ok := parseTimestamp(strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), m.suffix))
		if !ok {
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{Path: path, Timestamp: ts, Size: info.Size()})
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Path > backups[j].Path
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// parseTimestamp accepts "YYYYMMDD-HHMMSS" with an optional "-N" counter.
func parseTimestamp(s string) (time.Time, bool) {
	if len(s) > len(timestampLayout) {
		counter := strings.TrimPrefix(s[len(timestampLayout):], "-")
		if _, err := strconv.Atoi(counter); err != nil {
			return time.Time{}, false
		}
		s = s[:len(timestampLayout)]
	}
	ts, err := time.ParseInLocation(timestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// RestoreBackup replaces the storage file with a backup. The current file,
// if any, is backed up first; its path is returned.
func (m *Manager) RestoreBackup(backupPath string) (string, error) {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return "", fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if err := m.verifyBackup(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var safety string
	if _, err := os.Stat(m.dataPath); err == nil {
		safety, err = m.createBackup(true)
		if err != nil {
			return "", fmt.Errorf("failed to back up current data before restore: %w", err)
		}
	}

	tempPath := m.dataPath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return "", fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.dataPath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return "", fmt.Errorf("failed to restore data: %w", err)
	}
	logger.Info("Backup restored", "from", backupPath)
	return safety, nil
}

func (m *Manager) verifyBackup(path string) error {
	if m.isJSON() {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !json.Valid(data) {
			return errors.New("not valid JSON")
		}
		return nil
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	return db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
