package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/firesafe/estimator/internal/estimation"
	"github.com/goccy/go-json"
	"github.com/muhammadmuzzammil1998/jsonc"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// LoadConfiguration reads a configuration file. Files ending in .yaml or .yml are
// parsed as YAML, anything else as JSON that may contain comments.
// Older layouts are migrated before validation.
func LoadConfiguration(path string) (estimation.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return estimation.Configuration{}, errors.Wrap(err, "reading configuration file")
	}
	cfg, err := ParseConfiguration(data, filepath.Ext(path))
	if err != nil {
		return estimation.Configuration{}, errors.Wrapf(err, "loading %s", path)
	}
	return cfg, nil
}

func ParseConfiguration(data []byte, ext string) (estimation.Configuration, error) {
	var raw []byte
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return estimation.Configuration{}, errors.Wrap(err, "parsing yaml")
		}
		raw = converted
	default:
		raw = jsonc.ToJSON(data)
	}

	var cfg estimation.Configuration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return estimation.Configuration{}, errors.Wrap(err, "decoding configuration")
	}

	cfg = estimation.Migrate(cfg)
	if err := estimation.ValidateOverride(cfg); err != nil {
		return estimation.Configuration{}, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
