package reliability

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/finsight/internal/database"
)

const (
	backupPrefix       = "finsight-backup-"
	backupSuffix       = ".tar.gz"
	backupTimeLayout   = "2006-01-02-150405"
	metadataFilename   = "backup-metadata.json"
	backupFormatVer    = "1"
	minBackupsToKeep   = 3
	stagingDirName     = "backup-staging"
	databaseBackupName = "finsight.db"
)

// BackupMetadata describes the contents of one archive
type BackupMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Database  string    `json:"database"`
	SizeBytes int64     `json:"size_bytes"`
	Checksum  string    `json:"checksum"`
}

// BackupInfo is one archive stored in the bucket
type BackupInfo struct {
	Filename  string    `json:"filename"`
	Timestamp time.Time `json:"timestamp"`
	SizeBytes int64     `json:"size_bytes"`
	AgeHours  int64     `json:"age_hours"`
}

// CloudBackupService archives the database and ships it to object storage
type CloudBackupService struct {
	store   ObjectStore
	db      *database.DB
	dataDir string
	now     func() time.Time
	log     zerolog.Logger
}

// NewCloudBackupService creates a new cloud backup service
func NewCloudBackupService(store ObjectStore, db *database.DB, dataDir string, log zerolog.Logger) *CloudBackupService {
	return &CloudBackupService{
		store:   store,
		db:      db,
		dataDir: dataDir,
		now:     time.Now,
		log:     log.With().Str("service", "cloud_backup").Logger(),
	}
}

// CreateAndUploadBackup snapshots the database into a tar.gz archive and uploads it.
// It returns the object key.
func (s *CloudBackupService) CreateAndUploadBackup(ctx context.Context) (string, error) {
	startTime := time.Now()
	now := s.now().UTC()

	stagingDir := filepath.Join(s.dataDir, stagingDirName)
	if err := os.MkdirAll(stagingDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(stagingDir)

	dbPath := filepath.Join(stagingDir, databaseBackupName)
	if err := BackupDatabase(s.db, dbPath); err != nil {
		return "", err
	}

	info, err := os.Stat(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat database backup: %w", err)
	}
	checksum, err := calculateChecksum(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to calculate checksum: %w", err)
	}

	metadataPath := filepath.Join(stagingDir, metadataFilename)
	if err := writeMetadata(metadataPath, BackupMetadata{
		Timestamp: now,
		Version:   backupFormatVer,
		Database:  databaseBackupName,
		SizeBytes: info.Size(),
		Checksum:  checksum,
	}); err != nil {
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	archiveName := backupPrefix + now.Format(backupTimeLayout) + backupSuffix
	archivePath := filepath.Join(stagingDir, archiveName)
	if err := createArchive(archivePath, stagingDir, []string{databaseBackupName, metadataFilename}); err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	archiveInfo, err := os.Stat(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat archive: %w", err)
	}
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer archiveFile.Close()

	if err := s.store.Upload(ctx, archiveName, archiveFile, archiveInfo.Size()); err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	s.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Str("archive", archiveName).
		Int64("size_bytes", archiveInfo.Size()).
		Msg("Cloud backup completed")

	return archiveName, nil
}

// ListBackups lists stored archives, newest first. Objects that do not follow the
// archive naming scheme are ignored.
func (s *CloudBackupService) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	objects, err := s.store.List(ctx, backupPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	now := s.now()
	backups := make([]BackupInfo, 0, len(objects))
	for _, obj := range objects {
		if obj.Key == nil {
			continue
		}
		filename := *obj.Key
		if !strings.HasPrefix(filename, backupPrefix) || !strings.HasSuffix(filename, backupSuffix) {
			continue
		}

		stamp := strings.TrimSuffix(strings.TrimPrefix(filename, backupPrefix), backupSuffix)
		timestamp, err := time.Parse(backupTimeLayout, stamp)
		if err != nil {
			s.log.Warn().Str("filename", filename).Msg("Failed to parse timestamp from filename")
			continue
		}

		var size int64
		if obj.Size != nil {
			size = *obj.Size
		}

		backups = append(backups, BackupInfo{
			Filename:  filename,
			Timestamp: timestamp,
			SizeBytes: size,
			AgeHours:  int64(now.Sub(timestamp).Hours()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// RotateOldBackups deletes archives older than retentionDays. The three newest are
// always kept and a retention of zero keeps everything. It returns the number deleted.
func (s *CloudBackupService) RotateOldBackups(ctx context.Context, retentionDays int) (int, error) {
	backups, err := s.ListBackups(ctx)
	if err != nil {
		return 0, err
	}
	if retentionDays <= 0 || len(backups) <= minBackupsToKeep {
		return 0, nil
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	deleted := 0
	for _, backup := range backups[minBackupsToKeep:] {
		if !backup.Timestamp.Before(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, backup.Filename); err != nil {
			s.log.Error().Err(err).Str("filename", backup.Filename).Msg("Failed to delete old backup")
			continue
		}
		deleted++
	}

	s.log.Info().
		Int("deleted", deleted).
		Int("remaining", len(backups)-deleted).
		Msg("Backup rotation completed")

	return deleted, nil
}

func calculateChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("sha256:%x", hash.Sum(nil)), nil
}

func writeMetadata(path string, metadata BackupMetadata) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

// createArchive writes the named files of sourceDir into a tar.gz at archivePath
func createArchive(archivePath, sourceDir string, filenames []string) (err error) {
	archiveFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer func() {
		if cerr := archiveFile.Close(); err == nil {
			err = cerr
		}
	}()

	gzipWriter := gzip.NewWriter(archiveFile)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, name := range filenames {
		if err := addFileToArchive(tarWriter, filepath.Join(sourceDir, name), name); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", name, err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		return err
	}
	return gzipWriter.Close()
}

func addFileToArchive(tarWriter *tar.Writer, filePath, nameInArchive string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header := &tar.Header{
		Name:    nameInArchive,
		Size:    info.Size(),
		Mode:    int64(info.Mode()),
		ModTime: info.ModTime(),
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return err
	}

	_, err = io.Copy(tarWriter, file)
	return err
}
