package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config carries everything a run needs: where to find inputs, where to
// write outputs and which events to drop. Values come from defaults, an
// optional YAML config file, FOLHACSV_* environment variables and flags,
// in increasing precedence.
type Config struct {
	DiretorioEntrada string   `mapstructure:"diretorio_entrada"`
	DiretorioSaida   string   `mapstructure:"diretorio_saida"`
	ArquivosEntrada  []string `mapstructure:"arquivos_entrada"`
	SaidaDetalhe     string   `mapstructure:"saida_detalhe"`
	SaidaAgrupado    string   `mapstructure:"saida_agrupado"`
	ExcluirProventos []string `mapstructure:"excluir_proventos"`
	ExcluirDescontos []string `mapstructure:"excluir_descontos"`
}

// Event numbers excluded by default, matching the payroll team's standing
// lists. Override via config file or an exclusion YAML.
var (
	ProventosExcluidosPadrao = []string{
		"295", "320", "340", "341", "342", "360", "590", "595", "860", "890",
		"960", "1015", "1115", "1405", "1545", "1755", "1765", "1955", "2000", "2001",
		"2003", "2004", "2006", "2008", "2009", "2012", "2013", "2014", "2015", "2016",
		"2017", "2018", "2019", "2020", "2021", "2023", "2024", "2025", "2026", "2028",
		"2034", "30109",
	}
	DescontosExcluidosPadrao = []string{"8340", "9005", "9015"}
)

// ArquivosEntradaPadrao is the built-in input list used when no files are
// passed on the command line.
var ArquivosEntradaPadrao = []string{"1802002.txt", "11802004.txt", "11802005.txt"}

// Build assembles the configuration. flags may be nil; when given, set
// flags override the file and environment.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("diretorio_entrada", "arquivos_leitura")
	v.SetDefault("diretorio_saida", "")
	v.SetDefault("arquivos_entrada", ArquivosEntradaPadrao)
	v.SetDefault("saida_detalhe", "detalhe_unificado.csv")
	v.SetDefault("saida_agrupado", "valores_agrupados_por_matricula.csv")
	v.SetDefault("excluir_proventos", ProventosExcluidosPadrao)
	v.SetDefault("excluir_descontos", DescontosExcluidosPadrao)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("FOLHACSV")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, semArquivo := err.(viper.ConfigFileNotFoundError); !semArquivo && cfgFile != "" {
			return nil, fmt.Errorf("erro ao ler configuração: %w", err)
		}
	}

	if flags != nil {
		vincular := map[string]string{
			"entrada": "diretorio_entrada",
			"saida":   "diretorio_saida",
		}
		for nome, chave := range vincular {
			if f := flags.Lookup(nome); f != nil && f.Changed {
				if err := v.BindPFlag(chave, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("erro ao interpretar configuração: %w", err)
	}
	return &c, nil
}
