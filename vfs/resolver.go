package vfs

import (
	"os"
	"path/filepath"
	"strings"
)

// TextureResolver implements the material decoder's asset resolver over a
// converted-texture directory: rewrites the source .bitmap extension to
// the converted format and checks the file exists. Indexer paths use
// backslash separators regardless of host platform.
type TextureResolver struct {
	baseDir   string
	sourceExt string
	targetExt string
}

func NewTextureResolver(baseDir, sourceExt, targetExt string) *TextureResolver {
	return &TextureResolver{
		baseDir:   baseDir,
		sourceExt: sourceExt,
		targetExt: targetExt,
	}
}

func (tr *TextureResolver) Resolve(sourcePath string) (string, bool) {
	rel := strings.TrimSuffix(sourcePath, tr.sourceExt) + tr.targetExt
	rel = strings.ReplaceAll(rel, "\\", string(filepath.Separator))
	full := filepath.Join(tr.baseDir, rel)

	if s, err := os.Stat(full); err != nil || s.IsDir() {
		return "", false
	}
	return full, true
}
