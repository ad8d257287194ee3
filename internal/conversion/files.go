package conversion

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoWorkbookFound is returned when a directory holds no Excel workbook
var ErrNoWorkbookFound = errors.New("no Excel workbook found")

// overrideFile is the product_config.json layout; only the per-product
// overrides are read, sheet defaults come from the policy.
type overrideFile struct {
	ProductSpecificShelfLife map[string]int `json:"product_specific_shelf_life"`
}

// LoadOverrides reads per-product shelf lives keyed by "code_lot". A missing
// file is not an error and yields no overrides.
func LoadOverrides(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, err
	}

	var f overrideFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if f.ProductSpecificShelfLife == nil {
		return map[string]int{}, nil
	}
	return f.ProductSpecificShelfLife, nil
}

// FindLatestWorkbook returns the most recently modified .xlsx or .xlsm file
// in dir, skipping Office lock files ("~$...").
func FindLatestWorkbook(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	type candidate struct {
		path    string
		modTime int64
	}
	var found []candidate
	for _, e := range entries {
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if e.IsDir() || strings.HasPrefix(name, "~$") || (ext != ".xlsx" && ext != ".xlsm") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{path: filepath.Join(dir, name), modTime: info.ModTime().UnixNano()})
	}
	if len(found) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoWorkbookFound, dir)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].modTime > found[j].modTime })
	return found[0].path, nil
}
