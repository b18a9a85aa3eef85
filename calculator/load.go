package calculator

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Load reads a JSON array of calculator definitions.
func Load(r io.Reader) ([]Calculator, error) {
	var calcs []Calculator
	if err := json.NewDecoder(r).Decode(&calcs); err != nil {
		return nil, errors.Wrap(err, "decoding calculators")
	}
	return calcs, nil
}

// LoadFile reads calculator definitions from a file. Files named *.yaml or
// *.yml are YAML using the same field names as JSON; anything else is JSON.
func LoadFile(path string) ([]Calculator, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading calculators")
	}
	var calcs []Calculator
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &calcs)
	default:
		err = json.Unmarshal(b, &calcs)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decoding calculators from %s", path)
	}
	return calcs, nil
}
