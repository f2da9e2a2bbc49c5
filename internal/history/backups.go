package history

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	backupPrefix = "history_"
	backupExt    = ".csv"
)

// Backups manages timestamped snapshot files in a directory separate from
// the primary store. A backup's identifier is its file name.
type Backups struct {
	dir string
	now func() time.Time
}

func NewBackups(dir string) *Backups {
	return &Backups{dir: dir, now: time.Now}
}

func (b *Backups) Dir() string {
	return b.dir
}

// Write stores groups as a new backup and returns its identifier.
func (b *Backups) Write(groups []Group) (string, error) {
	var buf bytes.Buffer
	if err := encodeCSV(&buf, groups); err != nil {
		return "", err
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", err
	}

	stamp := backupPrefix + b.now().Format("20060102_150405")
	for n := 0; ; n++ {
		id := stamp + backupExt
		if n > 0 {
			id = fmt.Sprintf("%s_%d%s", stamp, n, backupExt)
		}

		f, err := os.OpenFile(filepath.Join(b.dir, id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", err
		}

		if _, err := f.Write(buf.Bytes()); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", err
		}
		if err := f.Close(); err != nil {
			os.Remove(f.Name())
			return "", err
		}
		return id, nil
	}
}

// Read loads the backup named id.
func (b *Backups) Read(id string) ([]Group, error) {
	if id == "" || id != filepath.Base(id) || id == "." || id == ".." {
		return nil, &HistoryError{Op: "restore", Msg: fmt.Sprintf("Invalid backup identifier %q", id), Err: ErrBackupNotFound}
	}

	data, err := os.ReadFile(filepath.Join(b.dir, id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, &HistoryError{Op: "restore", Msg: fmt.Sprintf("Backup file %s does not exist", id), Err: ErrBackupNotFound}
	}
	if err != nil {
		return nil, err
	}

	return decodeCSV(bytes.NewReader(data))
}

// List returns backup identifiers, oldest first.
func (b *Backups) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupExt) {
			ids = append(ids, name)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
