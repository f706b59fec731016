package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Settings is the per-session configuration, loadable from a yaml file
// and overridable by flags. It is passed explicitly, decoders keep no
// ambient state.
type Settings struct {
	// TagsDir holds the .structure_lights / .material files.
	TagsDir string `yaml:"tags_dir"`
	// TexturesDir holds the converted bitmap images.
	TexturesDir string `yaml:"textures_dir"`
	// FileListPath is the ID mapping table produced by the offline indexer.
	FileListPath string `yaml:"filelist"`

	// TextureExt replaces the .bitmap extension of resolved paths.
	TextureExt string `yaml:"texture_ext"`

	// Unit conversions into the target coordinate convention. Placement
	// details, never applied inside the decoders.
	PositionScale float32 `yaml:"position_scale"`
	AreaScale     float32 `yaml:"area_scale"`
	EnergyScale   float32 `yaml:"energy_scale"`

	ListenAddr string `yaml:"listen_addr"`
	Encoding   string `yaml:"encoding"`
}

func Default() Settings {
	return Settings{
		TextureExt:    ".png",
		PositionScale: 3.048,
		AreaScale:     5.5,
		EnergyScale:   10.0,
		ListenAddr:    ":8000",
	}
}

// Load reads yaml settings over the defaults. A missing file is not an
// error, flags alone are a valid configuration.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrapf(err, "settings %q", path)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, errors.Wrapf(err, "settings %q", path)
	}
	if s.Encoding != "" {
		if err := SetEncoding(s.Encoding); err != nil {
			return s, err
		}
	}
	return s, nil
}
