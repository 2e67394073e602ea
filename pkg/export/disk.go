package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vango-dev/vango-lite/internal/errors"
)

// DiskExporter stores snapshots on the local filesystem as <id>.html with
// a <id>.meta JSON sidecar.
type DiskExporter struct {
	dir string
}

// NewDiskExporter creates the directory if needed.
func NewDiskExporter(dir string) (*DiskExporter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("E100").WithDetail("create " + dir).Wrap(err)
	}
	return &DiskExporter{dir: dir}, nil
}

// Export implements Exporter. It returns the path of the HTML file.
func (d *DiskExporter) Export(ctx context.Context, snap *Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	prepare(snap)

	path := filepath.Join(d.dir, snap.ID+".html")
	if err := os.WriteFile(path, []byte(snap.HTML), 0644); err != nil {
		return "", errors.New("E100").WithDetail("write " + path).Wrap(err)
	}

	meta, err := json.Marshal(snap)
	if err != nil {
		os.Remove(path)
		return "", errors.New("E100").Wrap(err)
	}
	if err := os.WriteFile(d.metaPath(snap.ID), meta, 0644); err != nil {
		os.Remove(path)
		return "", errors.New("E100").WithDetail("write metadata").Wrap(err)
	}
	return path, nil
}

// Load reads a snapshot back.
func (d *DiskExporter) Load(id string) (*Snapshot, error) {
	data, err := os.ReadFile(d.metaPath(id))
	if err != nil {
		return nil, errors.New("E100").WithDetail("snapshot " + id + " not found").Wrap(err)
	}
	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, errors.New("E100").Wrap(err)
	}
	html, err := os.ReadFile(filepath.Join(d.dir, id+".html"))
	if err != nil {
		return nil, errors.New("E100").WithDetail("snapshot " + id + " has no HTML").Wrap(err)
	}
	snap.HTML = string(html)
	return snap, nil
}

// List returns the stored snapshot IDs, sorted.
func (d *DiskExporter) List() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, errors.New("E100").Wrap(err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := strings.CutSuffix(entry.Name(), ".meta"); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (d *DiskExporter) metaPath(id string) string {
	return filepath.Join(d.dir, id+".meta")
}
