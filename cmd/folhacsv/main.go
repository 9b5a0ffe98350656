package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"folhacsv/pkg/config"
	"folhacsv/pkg/parser"
	"folhacsv/pkg/relatorio"
	"folhacsv/pkg/service"
	"folhacsv/pkg/unificar"
)

var (
	cfgFile       string
	formato       string
	exclusoesFile string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "folhacsv",
	Short: "Converte relatórios de eventos da folha em CSVs detalhados e agrupados",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var gerarCmd = &cobra.Command{
	Use:   "gerar [flags] [arquivo...]",
	Short: "Gera os CSVs detalhado e agrupado a partir dos arquivos de leitura",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := novoLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		if exclusoesFile != "" {
			if err := config.CarregarExclusoes(exclusoesFile, cfg); err != nil {
				return err
			}
		}

		processor := service.NewProcessor(cfg, logger)
		if err := processor.Gerar(args, parser.Formato(formato)); err != nil {
			logger.Error("geração falhou", "error", err)
			return err
		}
		return nil
	},
}

var unificarCmd = &cobra.Command{
	Use:   "unificar [flags]",
	Short: "Unifica CSVs agrupados em um único arquivo com união de colunas",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := novoLogger()

		entradas, _ := cmd.Flags().GetStringSlice("inputs")
		saida, _ := cmd.Flags().GetString("output")
		semOrganograma, _ := cmd.Flags().GetBool("no-organograma")
		semOrigem, _ := cmd.Flags().GetBool("no-origem")

		err := unificar.Unificar(logger, unificar.Opcoes{
			Entradas:       entradas,
			Saida:          saida,
			ComOrganograma: !semOrganograma && !semOrigem,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Arquivo unificado gerado em: %s\n", saida)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:    "inspect <arquivo>",
	Short:  "Processa um arquivo e imprime o resultado bruto (depuração)",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := novoLogger()

		cfg, err := config.Build(cfgFile, nil)
		if err != nil {
			return err
		}

		processor := service.NewProcessor(cfg, logger)
		res, f, err := processor.Inspecionar(args[0], parser.Formato(formato))
		if err != nil {
			return err
		}

		fmt.Printf("formato: %s  organograma: %s\n", f, relatorio.RotuloOrganograma(args[0]))
		pp.Println(res)
		return nil
	},
}

func novoLogger() *log.Logger {
	nivel := log.InfoLevel
	if verbose {
		nivel = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    verbose,
		ReportTimestamp: true,
		Prefix:          "folhacsv",
		Level:           nivel,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Arquivo de configuração (padrão: config.yaml)")
	rootCmd.PersistentFlags().StringVar(&formato, "formato", string(parser.FormatoAuto), "Formato de entrada: auto, eventos, blocos ou jsonl")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Registra também as linhas e valores descartados")

	gerarCmd.Flags().String("entrada", "", "Diretório dos arquivos de leitura")
	gerarCmd.Flags().String("saida", "", "Diretório dos arquivos gerados")
	gerarCmd.Flags().StringVar(&exclusoesFile, "exclusoes", "", "Arquivo YAML com listas de eventos a excluir")

	unificarCmd.Flags().StringSliceP("inputs", "i", []string{
		"1802002_agrupado.csv",
		"11802004_agrupado.csv",
		"11802005_agrupado.csv",
	}, "Arquivos CSV de entrada")
	unificarCmd.Flags().StringP("output", "o", "merged_agrupado.csv", "Caminho do CSV de saída")
	unificarCmd.Flags().Bool("no-organograma", false, "Não adiciona a coluna organograma")
	unificarCmd.Flags().Bool("no-origem", false, "Sinônimo de --no-organograma")

	rootCmd.AddCommand(gerarCmd)
	rootCmd.AddCommand(unificarCmd)
	rootCmd.AddCommand(inspectCmd)
}

func main() {
	// Environment overrides may live in a local .env.
	_ = gotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
