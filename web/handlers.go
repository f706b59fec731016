package web

import (
	"bytes"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/reclaimers/halo5_tag_browser/batch"
	"github.com/reclaimers/halo5_tag_browser/tag"
	"github.com/reclaimers/halo5_tag_browser/tag/light"
	"github.com/reclaimers/halo5_tag_browser/vfs"
	"github.com/reclaimers/halo5_tag_browser/webutils"
)

func (s *Server) HandlerList(w http.ResponseWriter, r *http.Request) {
	files, err := s.root.List()
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	tagFiles := make([]string, 0, len(files))
	for _, f := range files {
		if batch.IsTagFile(f) {
			tagFiles = append(tagFiles, f)
		}
	}
	sort.Strings(tagFiles)
	webutils.WriteJson(w, tagFiles)
}

func (s *Server) HandlerFileList(w http.ResponseWriter, r *http.Request) {
	webutils.WriteJson(w, s.session.Index)
}

func (s *Server) HandlerLight(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	if !strings.HasSuffix(file, batch.LightFileExt) {
		webutils.WriteError(w, errors.Errorf("%q is not a %s file", file, batch.LightFileExt))
		return
	}
	lights, err := s.session.DecodeLightFile(s.root, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, lights)
}

func (s *Server) HandlerMaterial(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	if !strings.HasSuffix(file, batch.MaterialFileExt) {
		webutils.WriteError(w, errors.Errorf("%q is not a %s file", file, batch.MaterialFileExt))
		return
	}
	m, warnings, err := s.session.DecodeMaterialFile(s.root, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, struct {
		Material interface{}
		Warnings []string
	}{m, warnings})
}

func (s *Server) HandlerSections(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	data, err := readTagFile(s, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	sections, err := tag.LocateSections(tag.NewBufferCursor(data))
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteJson(w, sections)
}

func (s *Server) HandlerBatch(w http.ResponseWriter, r *http.Request) {
	outcomes, tally, err := s.session.Run(s.root, make(batch.ProcessedSet), 4)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	type result struct {
		Name     string
		Error    string `json:",omitempty"`
		Warnings []string
	}
	results := make([]result, 0, len(outcomes))
	for _, out := range outcomes {
		res := result{Name: out.Name, Warnings: out.Warnings}
		if out.Err != nil {
			res.Error = out.Err.Error()
		}
		results = append(results, res)
	}
	webutils.WriteJson(w, struct {
		Tally   interface{}
		Results []result
	}{tally, results})
}

func (s *Server) HandlerLightGLTF(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	lights, err := s.session.DecodeLightFile(s.root, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := light.ExportGLTF(&buf, lights, s.settings.PositionScale,
		s.settings.AreaScale, s.settings.EnergyScale); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, file+".glb")
}

func (s *Server) HandlerDump(w http.ResponseWriter, r *http.Request) {
	file := mux.Vars(r)["file"]
	data, err := readTagFile(s, file)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, bytes.NewReader(data), file)
}

func readTagFile(s *Server, file string) ([]byte, error) {
	if !batch.IsTagFile(file) {
		return nil, errors.Errorf("%q is not a known tag file kind", file)
	}
	return vfs.ReadFile(s.root, file)
}
