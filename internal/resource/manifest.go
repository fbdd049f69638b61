package resource

// Asset maps a handle to a file inside the pack. Blake2b, when set, is the
// hex BLAKE2b-256 digest the file must match.
type Asset struct {
	Path    string `yaml:"path"`
	Blake2b string `yaml:"blake2b"`
}

// FontSpec names a font file and its point size.
type FontSpec struct {
	Path string `yaml:"path"`
	Size int    `yaml:"size"`
}

// Defaults are used when a lookup misses.
type Defaults struct {
	Font           string `yaml:"font"`
	Color          string `yaml:"color"`
	MissingTexture string `yaml:"missing_texture"`
}

type manifestFile struct {
	Assets   map[string]Asset    `yaml:"assets"`
	Colors   map[string]string   `yaml:"colors"`
	Fonts    map[string]FontSpec `yaml:"fonts"`
	Defaults Defaults            `yaml:"defaults"`
}
