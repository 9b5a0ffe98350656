package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Exclusoes is a standalone exclusion-list file. Lists given here replace
// the defaults entirely; an empty list excludes nothing.
type Exclusoes struct {
	Proventos []string `yaml:"proventos"`
	Descontos []string `yaml:"descontos"`
}

// CarregarExclusoes reads an exclusion YAML and applies it to the config.
func CarregarExclusoes(caminho string, c *Config) error {
	data, err := os.ReadFile(caminho)
	if err != nil {
		return fmt.Errorf("erro ao ler exclusões: %w", err)
	}

	var e Exclusoes
	if err := yaml.Unmarshal(data, &e); err != nil {
		return fmt.Errorf("erro ao interpretar exclusões: %w", err)
	}

	c.ExcluirProventos = e.Proventos
	c.ExcluirDescontos = e.Descontos
	return nil
}
