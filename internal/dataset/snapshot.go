package dataset

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flashsale-dashboard/internal/models"
)

const snapshotVersion = "v1"

type snapshot struct {
	Version    string
	Source     string
	CSVModTime time.Time
	Records    []models.SaleRecord
}

func snapshotFilename(dir, csvPath string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(csvPath)
	return filepath.Join(dir, fmt.Sprintf("%s_%s.gob", name, snapshotVersion))
}

func saveSnapshot(dir string, ds *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	file, err := os.Create(snapshotFilename(dir, ds.source))
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewEncoder(file).Encode(snapshot{
		Version:    snapshotVersion,
		Source:     ds.source,
		CSVModTime: ds.modTime,
		Records:    ds.records,
	})
}

// loadSnapshot returns the snapshot of csvPath if it was taken from a file
// with the given modification time.
func loadSnapshot(dir, csvPath string, modTime time.Time) (*Dataset, error) {
	file, err := os.Open(snapshotFilename(dir, csvPath))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var snap snapshot
	if err := gob.NewDecoder(file).Decode(&snap); err != nil {
		return nil, err
	}

	if snap.Version != snapshotVersion || snap.Source != csvPath || !snap.CSVModTime.Equal(modTime) {
		return nil, fmt.Errorf("snapshot is stale")
	}
	if len(snap.Records) == 0 {
		return nil, ErrNoRecords
	}

	ds := New(snap.Records, csvPath)
	ds.modTime = snap.CSVModTime
	return ds, nil
}
