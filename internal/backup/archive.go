package backup

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/donfanning/pushclip/internal/models"
)

// snapshotEntryName is the single file inside a backup archive.
const snapshotEntryName = "snapshot.json"

// WriteArchive serializes a snapshot into a single-entry zip archive, the
// blob format stored in the cloud object store.
func WriteArchive(snap *models.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("error serializing snapshot: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create(snapshotEntryName)
	if err != nil {
		return nil, fmt.Errorf("error creating archive entry: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("error writing archive entry: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("error finalizing archive: %w", err)
	}

	return buf.Bytes(), nil
}

// ReadArchive extracts a snapshot from a backup archive.
func ReadArchive(blob []byte) (*models.Snapshot, error) {
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, fmt.Errorf("error opening archive: %w", err)
	}

	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == snapshotEntryName {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("archive has no %s entry", snapshotEntryName)
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening archive entry: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("error reading archive entry: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("error deserializing snapshot: %w", err)
	}
	return &snap, nil
}
