// Package registry loads the baseline record groups: the per-domain field
// labels and template addresses that every run starts from.
package registry

import (
	"embed"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sds-assess/internal/model"
)

//go:embed defaults/*.yaml
var defaultBaseline embed.FS

// Source supplies a fresh baseline RecordSet for each run.
type Source interface {
	Load() (*model.RecordSet, error)
}

// FSSource reads one baseline file per domain from a filesystem.
type FSSource struct {
	fsys fs.FS
	name string
}

// NewDirSource reads baselines from a directory on disk.
func NewDirSource(dir string) *FSSource {
	return &FSSource{fsys: os.DirFS(dir), name: dir}
}

// NewDefaultSource reads the baselines compiled into the binary.
func NewDefaultSource() *FSSource {
	sub, err := fs.Sub(defaultBaseline, "defaults")
	if err != nil {
		// Only reachable if the embed directive and path disagree.
		panic(err)
	}
	return &FSSource{fsys: sub, name: "embedded"}
}

// NewSource returns a directory source when dir is set, the embedded
// defaults otherwise.
func NewSource(dir string) Source {
	if dir == "" {
		return NewDefaultSource()
	}
	return NewDirSource(dir)
}

// Load decodes all six domains. Any missing or malformed file fails the load.
func (s *FSSource) Load() (*model.RecordSet, error) {
	set := &model.RecordSet{}
	for _, d := range model.AllDomains() {
		path, err := findBaselineFile(s.fsys, d)
		if err != nil {
			return nil, eris.Wrapf(err, "registry: load baseline from %s", s.name)
		}
		rec, err := LoadRecordFile(s.fsys, path, d)
		if err != nil {
			return nil, err
		}
		if err := set.Put(rec); err != nil {
			return nil, eris.Wrap(err, "registry: store baseline record")
		}
	}

	zap.L().Debug("registry: baseline loaded",
		zap.String("source", s.name),
		zap.Int("groups", len(set.Groups())),
	)
	return set, nil
}
