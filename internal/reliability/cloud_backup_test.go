package reliability

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/finsight/internal/database"
	testutil "github.com/aristath/finsight/internal/testing"
)

// memoryStore is an in-memory ObjectStore
type memoryStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleteErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) Upload(ctx context.Context, key string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: got %d want %d", len(data), size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStore) List(ctx context.Context, prefix string) ([]types.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make([]types.Object, 0, len(keys))
	for _, k := range keys {
		out = append(out, types.Object{Key: aws.String(k), Size: aws.Int64(int64(len(m.objects[k])))})
	}
	return out, nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) put(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = []byte("x")
}

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	files := make(map[string][]byte)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		files[hdr.Name] = content
	}
	return files
}

func TestCreateAndUploadBackup(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := db.Conn().Exec(`INSERT INTO accounts (id, user_id, name, type, balance, updated_at) VALUES ('a1', 'u1', 'Savings', 'savings', '1200', 0)`)
	require.NoError(t, err)

	store := newMemoryStore()
	dataDir := t.TempDir()
	svc := NewCloudBackupService(store, db, dataDir, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, time.March, 31, 14, 30, 22, 0, time.UTC) }

	key, err := svc.CreateAndUploadBackup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "finsight-backup-2025-03-31-143022.tar.gz", key)
	assert.NoDirExists(t, filepath.Join(dataDir, stagingDirName))

	files := readArchive(t, store.objects[key])
	require.Contains(t, files, databaseBackupName)
	require.Contains(t, files, metadataFilename)

	var meta BackupMetadata
	require.NoError(t, json.Unmarshal(files[metadataFilename], &meta))
	assert.Equal(t, fmt.Sprintf("sha256:%x", sha256.Sum256(files[databaseBackupName])), meta.Checksum)
	assert.Equal(t, int64(len(files[databaseBackupName])), meta.SizeBytes)

	// The archived copy is a working database
	restoredPath := filepath.Join(t.TempDir(), "restored.db")
	require.NoError(t, os.WriteFile(restoredPath, files[databaseBackupName], 0o644))
	restored, err := database.New(database.Config{Path: restoredPath, Name: "restored"})
	require.NoError(t, err)
	defer restored.Close()

	var balance string
	require.NoError(t, restored.Conn().QueryRow(`SELECT balance FROM accounts WHERE id = 'a1'`).Scan(&balance))
	assert.Equal(t, "1200", balance)
}

func TestBackupDatabase_NilDatabase(t *testing.T) {
	assert.Error(t, BackupDatabase(nil, filepath.Join(t.TempDir(), "x.db")))
}

func TestListBackups_SortsAndSkipsForeignObjects(t *testing.T) {
	store := newMemoryStore()
	store.put("finsight-backup-2025-03-01-020000.tar.gz")
	store.put("finsight-backup-2025-03-03-020000.tar.gz")
	store.put("finsight-backup-garbage.tar.gz")
	store.put("finsight-backup-2025-03-02-020000.zip")

	svc := NewCloudBackupService(store, nil, t.TempDir(), zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, time.March, 4, 2, 0, 0, 0, time.UTC) }

	backups, err := svc.ListBackups(context.Background())
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "finsight-backup-2025-03-03-020000.tar.gz", backups[0].Filename)
	assert.Equal(t, int64(24), backups[0].AgeHours)
	assert.Equal(t, int64(72), backups[1].AgeHours)
}

func TestRotateOldBackups(t *testing.T) {
	store := newMemoryStore()
	for day := 1; day <= 6; day++ {
		store.put(fmt.Sprintf("finsight-backup-2025-01-%02d-020000.tar.gz", day))
	}
	store.put("finsight-backup-2025-03-30-020000.tar.gz")

	svc := NewCloudBackupService(store, nil, t.TempDir(), zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC) }

	deleted, err := svc.RotateOldBackups(context.Background(), 30)
	require.NoError(t, err)
	// Newest three survive: Mar 30, Jan 6, Jan 5
	assert.Equal(t, 4, deleted)

	remaining, err := svc.ListBackups(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 3)
	assert.Equal(t, "finsight-backup-2025-01-05-020000.tar.gz", remaining[2].Filename)
}

func TestRotateOldBackups_KeepsEverythingWithZeroRetention(t *testing.T) {
	store := newMemoryStore()
	for day := 1; day <= 5; day++ {
		store.put(fmt.Sprintf("finsight-backup-2024-01-%02d-020000.tar.gz", day))
	}

	svc := NewCloudBackupService(store, nil, t.TempDir(), zerolog.Nop())
	deleted, err := svc.RotateOldBackups(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestRotateOldBackups_DeleteErrorsAreSkipped(t *testing.T) {
	store := newMemoryStore()
	for day := 1; day <= 5; day++ {
		store.put(fmt.Sprintf("finsight-backup-2024-01-%02d-020000.tar.gz", day))
	}
	store.deleteErr = errors.New("access denied")

	svc := NewCloudBackupService(store, nil, t.TempDir(), zerolog.Nop())
	deleted, err := svc.RotateOldBackups(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
