package calib

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// RegionFile is the file name of the saved control region inside the data dir.
const RegionFile = "region.json"

// Region is a viewport inside a display, in monitor-relative pixels. A zero
// Rect means the whole display.
type Region struct {
	Display int  `json:"display"`
	Rect    Rect `json:"rect"`
}

// Empty reports whether the region covers the whole display.
func (r Region) Empty() bool {
	n := Normalize(r.Rect)
	return n.W <= 0 || n.H <= 0
}

// LoadRegion reads a region from disk. Missing files return the zero region.
func LoadRegion(path string) (Region, error) {
	var r Region
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return r, nil
		}
		return r, err
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, err
	}
	return r, nil
}

// SaveRegion writes a region to disk, creating parent directories as needed.
func SaveRegion(path string, r Region) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
