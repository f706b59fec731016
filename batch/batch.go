// Package batch drives multi-file decoding. The core decoders are
// stateless per call; everything cross-file (the mapping table, the
// resolver, the processed set, the tally) lives here, passed explicitly.
package batch

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/reclaimers/halo5_tag_browser/status"
	"github.com/reclaimers/halo5_tag_browser/tag"
	"github.com/reclaimers/halo5_tag_browser/tag/light"
	"github.com/reclaimers/halo5_tag_browser/tag/mat"
	"github.com/reclaimers/halo5_tag_browser/tagindex"
	"github.com/reclaimers/halo5_tag_browser/vfs"
)

const (
	LightFileExt    = ".structure_lights"
	MaterialFileExt = ".material"
)

// IsTagFile reports whether the browser knows how to decode the file.
func IsTagFile(name string) bool {
	return strings.HasSuffix(name, LightFileExt) || strings.HasSuffix(name, MaterialFileExt)
}

// Session is the immutable cross-file state of one decoding batch. Safe
// for concurrent use once constructed.
type Session struct {
	Index    tagindex.Table
	Resolver mat.AssetResolver
}

func NewSession(index tagindex.Table, resolver mat.AssetResolver) *Session {
	return &Session{Index: index, Resolver: resolver}
}

// ProcessedSet tracks identifiers a batch already handled. Caller-owned,
// the decoders themselves never deduplicate.
type ProcessedSet map[string]bool

// CheckAndMark reports whether name was already processed, marking it.
func (p ProcessedSet) CheckAndMark(name string) bool {
	if p[name] {
		return true
	}
	p[name] = true
	return false
}

// Outcome is the labeled per-file result of a batch run. Err is set for
// hard failures; Warnings carry the soft ones of a successful decode.
type Outcome struct {
	Name     string
	Err      error
	Warnings []string
	Lights   []light.Descriptor
	Material *mat.Material
}

type Tally struct {
	Succeeded int
	Failed    int
	Skipped   int
}

func (s *Session) DecodeLightFile(d vfs.Directory, name string) ([]light.Descriptor, error) {
	data, err := vfs.ReadFile(d, name)
	if err != nil {
		return nil, err
	}
	lights, err := light.Decode(tag.NewBufferCursor(data))
	return lights, errors.Wrapf(err, "%s", name)
}

func (s *Session) DecodeMaterialFile(d vfs.Directory, name string) (*mat.Material, []string, error) {
	data, err := vfs.ReadFile(d, name)
	if err != nil {
		return nil, nil, err
	}
	m, warnings, err := mat.Decode(tag.NewBufferCursor(data), s.Index, s.Resolver)
	return m, warnings, errors.Wrapf(err, "%s", name)
}

func (s *Session) decodeOne(d vfs.Directory, name string) Outcome {
	out := Outcome{Name: name}
	switch {
	case strings.HasSuffix(name, LightFileExt):
		out.Lights, out.Err = s.DecodeLightFile(d, name)
	case strings.HasSuffix(name, MaterialFileExt):
		out.Material, out.Warnings, out.Err = s.DecodeMaterialFile(d, name)
	default:
		out.Err = errors.Errorf("%s: unknown tag file kind", name)
	}
	return out
}

// Run decodes every tag file in dir. A failed file never aborts the rest.
// Names already in processed are skipped and marked into the tally.
func (s *Session) Run(dir vfs.Directory, processed ProcessedSet, workers int) ([]Outcome, Tally, error) {
	names, err := dir.List()
	if err != nil {
		return nil, Tally{}, err
	}
	sort.Strings(names)

	var tally Tally
	queue := make([]string, 0, len(names))
	for _, name := range names {
		if !IsTagFile(name) {
			continue
		}
		if processed != nil && processed.CheckAndMark(name) {
			tally.Skipped++
			continue
		}
		queue = append(queue, name)
	}

	if workers < 1 {
		workers = 1
	}
	jobs := make(chan string)
	results := make(chan Outcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				results <- s.decodeOne(dir, name)
			}
		}()
	}
	go func() {
		for _, name := range queue {
			jobs <- name
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	outcomes := make([]Outcome, 0, len(queue))
	for out := range results {
		if out.Err != nil {
			tally.Failed++
			status.Error("%s: %v", out.Name, out.Err)
		} else {
			tally.Succeeded++
		}
		outcomes = append(outcomes, out)
		status.Progress(len(outcomes), len(queue), out.Name)
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Name < outcomes[j].Name })
	status.Info("batch done: %d ok, %d failed, %d skipped",
		tally.Succeeded, tally.Failed, tally.Skipped)
	return outcomes, tally, nil
}

// FindMaterialFile locates <materialName>.material under root, walking
// subdirectories, matching case-insensitively. Returns the containing
// directory and the real file name.
func FindMaterialFile(root vfs.Directory, materialName string) (vfs.Directory, string, bool) {
	want := strings.ToLower(materialName) + MaterialFileExt

	names, err := root.List()
	if err != nil {
		return nil, "", false
	}
	sort.Strings(names)

	for _, name := range names {
		e, err := root.GetElement(name)
		if err != nil {
			continue
		}
		if e.IsDirectory() {
			if d, n, ok := FindMaterialFile(e.(vfs.Directory), materialName); ok {
				return d, n, true
			}
			continue
		}
		if strings.ToLower(name) == want {
			return root, name, true
		}
	}
	return nil, "", false
}
