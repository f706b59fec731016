package main

import (
	"flag"
	"log"

	"github.com/reclaimers/halo5_tag_browser/batch"
	"github.com/reclaimers/halo5_tag_browser/config"
	"github.com/reclaimers/halo5_tag_browser/tagindex"
	"github.com/reclaimers/halo5_tag_browser/vfs"
	"github.com/reclaimers/halo5_tag_browser/web"
)

func main() {
	var addr, cfgpath, dir, texdir, filelist, encoding string
	var check bool
	var workers int
	flag.StringVar(&addr, "i", "", "Address of server")
	flag.StringVar(&cfgpath, "config", "", "Path to yaml settings file")
	flag.StringVar(&dir, "dir", "", "Path to .structure_lights / .material files")
	flag.StringVar(&texdir, "texdir", "", "Path to converted bitmap textures")
	flag.StringVar(&filelist, "filelist", "", "Path to the ID mapping table (filepaths.txt)")
	flag.StringVar(&encoding, "encoding", "", "Filelist text encoding override")
	flag.BoolVar(&check, "check", false, "Decode everything in -dir, print the tally and exit")
	flag.IntVar(&workers, "workers", 4, "Parallel decode workers for -check")
	flag.Parse()

	settings, err := config.Load(cfgpath)
	if err != nil {
		log.Fatal(err)
	}
	if dir != "" {
		settings.TagsDir = dir
	}
	if texdir != "" {
		settings.TexturesDir = texdir
	}
	if filelist != "" {
		settings.FileListPath = filelist
	}
	if addr != "" {
		settings.ListenAddr = addr
	}
	if encoding != "" {
		if err := config.SetEncoding(encoding); err != nil {
			log.Fatal(err)
		}
	}

	if settings.TagsDir == "" {
		flag.PrintDefaults()
		return
	}

	index := tagindex.Table{}
	if settings.FileListPath != "" {
		index, err = tagindex.Load(settings.FileListPath)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("[main] Loaded %d filelist entries", len(index))
	} else {
		log.Printf("[main] No filelist, shader names and bitmaps will not resolve")
	}

	root := vfs.NewDirectoryDriver(settings.TagsDir)
	resolver := vfs.NewTextureResolver(settings.TexturesDir, ".bitmap", settings.TextureExt)
	session := batch.NewSession(index, resolver)

	if check {
		parseCheck(root, session, workers)
		return
	}

	if err := web.NewServer(root, session, settings).Start(settings.ListenAddr); err != nil {
		log.Fatal(err)
	}
}
