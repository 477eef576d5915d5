package registry

import (
	"encoding/json"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/sds-assess/internal/model"
)

// baselineExts lists the accepted baseline file extensions in lookup order.
var baselineExts = []string{".yaml", ".yml", ".json"}

// LoadRecordFile decodes one baseline record for domain d from fsys. The
// format is chosen by extension: YAML for .yaml/.yml, JSON for .json.
// Extracted content in the file is discarded; only labels and addresses
// survive.
func LoadRecordFile(fsys fs.FS, path string, d model.Domain) (model.Record, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read baseline %s", path)
	}

	rec, err := model.NewRecord(d)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, rec); err != nil {
			return nil, eris.Wrapf(err, "registry: unmarshal baseline %s", path)
		}
	default:
		if err := yaml.Unmarshal(data, rec); err != nil {
			return nil, eris.Wrapf(err, "registry: unmarshal baseline %s", path)
		}
	}

	for _, nc := range rec.Cells() {
		nc.Cell.Clear()
	}
	return rec, nil
}

// findBaselineFile returns the first existing <domain><ext> path in fsys.
func findBaselineFile(fsys fs.FS, d model.Domain) (string, error) {
	for _, ext := range baselineExts {
		name := string(d) + ext
		if _, err := fs.Stat(fsys, name); err == nil {
			return name, nil
		}
	}
	return "", eris.Errorf("registry: no baseline file for domain %q", d)
}
