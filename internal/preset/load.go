package preset

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDictionary reads a section/key/value configuration file from path,
// the same gopkg.in/yaml.v3 library the engine's top-level configuration
// uses, since no retrieval-pack dependency speaks the original's
// ini-flavored preset file format directly. A missing or malformed file is
// an error rather than a silently empty dictionary: an operator pointing
// -presets at a bad path should see it immediately, not discover it when
// every PRESET command starts failing.
func LoadDictionary(path string) (Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return d, nil
}
