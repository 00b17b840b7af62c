package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aristath/cppi/internal/domain"
)

// LoadStrategyFile overlays the parameters found in a YAML file on base.
// Keys that are absent keep their base value; unknown keys are rejected.
//
//	rate_type: compound
//	guarantee_ratio: 0.9
//	risk_multiplier: 3
func LoadStrategyFile(path string, base domain.Parameters) (domain.Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("failed to open strategy file: %w", err)
	}
	defer f.Close()

	p, err := decodeStrategy(f, base)
	if err != nil {
		return base, fmt.Errorf("strategy file %s: %w", path, err)
	}
	return p, nil
}

func decodeStrategy(r io.Reader, base domain.Parameters) (domain.Parameters, error) {
	p := base
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return base, err
	}
	return p, nil
}
