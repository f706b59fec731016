// tagdump decodes a single tag file and dumps the result to stdout.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/reclaimers/halo5_tag_browser/config"
	"github.com/reclaimers/halo5_tag_browser/tag"
	"github.com/reclaimers/halo5_tag_browser/tag/light"
	"github.com/reclaimers/halo5_tag_browser/tag/mat"
	"github.com/reclaimers/halo5_tag_browser/tagindex"
	"github.com/reclaimers/halo5_tag_browser/utils"
	"github.com/reclaimers/halo5_tag_browser/vfs"
)

func main() {
	var filelist, texdir string
	var sections, strtable bool
	flag.StringVar(&filelist, "filelist", "", "Path to the ID mapping table")
	flag.StringVar(&texdir, "texdir", "", "Path to converted bitmap textures")
	flag.BoolVar(&sections, "sections", false, "Only print the located file sections")
	flag.BoolVar(&strtable, "strtable", false, "Also print the string table")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.PrintDefaults()
		os.Exit(2)
	}
	fpath := flag.Arg(0)

	data, err := os.ReadFile(fpath)
	if err != nil {
		log.Fatal(err)
	}

	if sections {
		s, err := tag.LocateSections(tag.NewBufferCursor(data))
		if err != nil {
			log.Fatal(err)
		}
		utils.Dump(s)
		return
	}

	if strtable {
		c := tag.NewBufferCursor(data)
		hdr, err := tag.ParseFileHeader(c)
		if err != nil {
			log.Fatal(err)
		}
		table, err := tag.DecodeStringTable(c, hdr.StringTableLength())
		if err != nil {
			log.Fatal(err)
		}
		for _, e := range table {
			log.Printf("0x%.8x %q", e.Hash, e.Text)
		}
	}

	index := tagindex.Table{}
	if filelist != "" {
		if index, err = tagindex.Load(filelist); err != nil {
			log.Fatal(err)
		}
	}
	settings := config.Default()
	resolver := vfs.NewTextureResolver(texdir, ".bitmap", settings.TextureExt)

	switch {
	case strings.HasSuffix(fpath, ".structure_lights"):
		lights, err := light.Decode(tag.NewBufferCursor(data))
		if err != nil {
			log.Fatal(err)
		}
		utils.Dump(lights)
	case strings.HasSuffix(fpath, ".material"):
		m, warnings, err := mat.Decode(tag.NewBufferCursor(data), index, resolver)
		if err != nil {
			log.Fatal(err)
		}
		utils.Dump(m)
		for _, warn := range warnings {
			log.Printf("warning: %s", warn)
		}
	default:
		log.Fatalf("cannot tell tag kind of %q from its extension", filepath.Base(fpath))
	}
}
