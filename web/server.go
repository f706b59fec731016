package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/reclaimers/halo5_tag_browser/batch"
	"github.com/reclaimers/halo5_tag_browser/config"
	"github.com/reclaimers/halo5_tag_browser/status"
	"github.com/reclaimers/halo5_tag_browser/vfs"
)

// Server exposes decoded tags as JSON and glTF over HTTP.
type Server struct {
	root     vfs.Directory
	session  *batch.Session
	settings config.Settings
}

func NewServer(root vfs.Directory, session *batch.Session, settings config.Settings) *Server {
	return &Server{
		root:     root,
		session:  session,
		settings: settings,
	}
}

func (s *Server) Start(addr string) error {
	r := mux.NewRouter()
	r.HandleFunc("/json/list", s.HandlerList)
	r.HandleFunc("/json/filelist", s.HandlerFileList)
	r.HandleFunc("/json/light/{file}", s.HandlerLight)
	r.HandleFunc("/json/material/{file}", s.HandlerMaterial)
	r.HandleFunc("/json/sections/{file}", s.HandlerSections)
	r.HandleFunc("/json/batch", s.HandlerBatch)
	r.HandleFunc("/gltf/light/{file}", s.HandlerLightGLTF)
	r.HandleFunc("/dump/{file}", s.HandlerDump)
	r.HandleFunc("/ws", status.Handler)

	h := handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(r))

	log.Printf("[web] Starting server %v", addr)
	return http.ListenAndServe(addr, h)
}
