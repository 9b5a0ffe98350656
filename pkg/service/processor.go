package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"folhacsv/pkg/config"
	"folhacsv/pkg/models"
	"folhacsv/pkg/parser"
	"folhacsv/pkg/relatorio"
)

// Processor runs one conversion: parse every input file sequentially and
// write the reports. Files never share state; each parse produces its own
// totals, meta and details.
type Processor struct {
	cfg    *config.Config
	logger *log.Logger
	parser *parser.Parser
}

func NewProcessor(cfg *config.Config, logger *log.Logger) *Processor {
	return &Processor{
		cfg:    cfg,
		logger: logger,
		parser: parser.New(logger, parser.Opcoes{
			ExcluirProventos: cfg.ExcluirProventos,
			ExcluirDescontos: cfg.ExcluirDescontos,
		}),
	}
}

// Gerar processes the given input files, or the configured default list
// when none are given. Event-stream files accumulate into the unified
// detail and aggregate reports; block and JSON-line files produce a
// per-file <base>_agrupado.csv. With no inputs at all, the detail output
// carries a single informational row and the run still succeeds.
func (p *Processor) Gerar(arquivos []string, formato parser.Formato) error {
	entradas := p.resolverEntradas(arquivos)
	if len(entradas) == 0 {
		p.logger.Info("nenhum arquivo de entrada", "saida", p.saida(p.cfg.SaidaDetalhe))
		return p.escrever(p.saida(p.cfg.SaidaDetalhe), func(f *os.File) error {
			return relatorio.EscreverMensagemInformativa(f)
		})
	}

	var detalhes []models.Detalhe
	var agregados []models.Agregado
	unificado := false

	for _, caminho := range entradas {
		data, err := os.ReadFile(caminho)
		if err != nil {
			return fmt.Errorf("erro ao ler %s: %w", caminho, err)
		}

		res, f, err := p.parser.ProcessBytes(data, filepath.Base(caminho), formato)
		if err != nil {
			return fmt.Errorf("erro ao processar %s: %w", caminho, err)
		}

		rotulo := relatorio.RotuloOrganograma(caminho)
		p.logger.Info("arquivo processado", "arquivo", caminho, "formato", f,
			"matriculas", len(res.Totais), "detalhes", len(res.Detalhes))

		if f == parser.FormatoEventos {
			unificado = true
			for _, matricula := range matriculasOrdenadas(res.Totais) {
				meta := res.Meta[matricula]
				agregados = append(agregados, models.Agregado{
					Matricula:   matricula,
					Nome:        meta.Nome,
					CPF:         meta.CPF,
					Total:       res.Totais[matricula],
					Organograma: rotulo,
				})
			}
			for _, d := range res.Detalhes {
				d.Organograma = rotulo
				detalhes = append(detalhes, d)
			}
			continue
		}

		// Single-file variants write their own aggregate.
		saida := p.saidaAgrupado(caminho)
		err = p.escrever(saida, func(arq *os.File) error {
			return relatorio.EscreverAgrupadoSimples(arq, res.Totais, res.Meta, f == parser.FormatoBlocos)
		})
		if err != nil {
			return err
		}
		p.logger.Info("agrupado gerado", "saida", saida)
	}

	if !unificado {
		return nil
	}

	relatorio.OrdenarDetalhes(detalhes)
	relatorio.OrdenarAgregados(agregados)

	saidaDetalhe := p.saida(p.cfg.SaidaDetalhe)
	if err := p.escrever(saidaDetalhe, func(f *os.File) error {
		return relatorio.EscreverDetalhes(f, detalhes)
	}); err != nil {
		return err
	}
	p.logger.Info("detalhe gerado", "saida", saidaDetalhe, "registros", len(detalhes))

	saidaAgrupado := p.saida(p.cfg.SaidaAgrupado)
	if err := p.escrever(saidaAgrupado, func(f *os.File) error {
		return relatorio.EscreverAgregados(f, agregados)
	}); err != nil {
		return err
	}
	p.logger.Info("agrupado gerado", "saida", saidaAgrupado, "registros", len(agregados))

	return nil
}

// Inspecionar parses a single file and returns the raw result, for the
// debug command.
func (p *Processor) Inspecionar(caminho string, formato parser.Formato) (*parser.Resultado, parser.Formato, error) {
	data, err := os.ReadFile(caminho)
	if err != nil {
		return nil, "", fmt.Errorf("erro ao ler %s: %w", caminho, err)
	}
	return p.parser.ProcessBytes(data, filepath.Base(caminho), formato)
}

// resolverEntradas falls back to the configured default list and resolves
// relative paths inside the configured input directory.
func (p *Processor) resolverEntradas(arquivos []string) []string {
	if len(arquivos) == 0 {
		arquivos = p.cfg.ArquivosEntrada
	}
	resolvidos := make([]string, 0, len(arquivos))
	for _, a := range arquivos {
		if !filepath.IsAbs(a) && p.cfg.DiretorioEntrada != "" {
			a = filepath.Join(p.cfg.DiretorioEntrada, a)
		}
		resolvidos = append(resolvidos, a)
	}
	return resolvidos
}

func (p *Processor) saida(nome string) string {
	if p.cfg.DiretorioSaida != "" {
		return filepath.Join(p.cfg.DiretorioSaida, nome)
	}
	return nome
}

func (p *Processor) saidaAgrupado(entrada string) string {
	base := filepath.Base(entrada)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return p.saida(base + "_agrupado.csv")
}

func (p *Processor) escrever(caminho string, escreve func(*os.File) error) error {
	if dir := filepath.Dir(caminho); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("erro ao criar diretório de saída: %w", err)
		}
	}
	f, err := os.Create(caminho)
	if err != nil {
		return fmt.Errorf("erro ao criar %s: %w", caminho, err)
	}
	defer f.Close()

	if err := escreve(f); err != nil {
		return fmt.Errorf("erro ao escrever %s: %w", caminho, err)
	}
	return nil
}

// matriculasOrdenadas returns map keys sorted lexically so per-file
// accumulation order is deterministic before the final sort.
func matriculasOrdenadas(totais map[string]decimal.Decimal) []string {
	matriculas := make([]string, 0, len(totais))
	for m := range totais {
		matriculas = append(matriculas, m)
	}
	sort.Strings(matriculas)
	return matriculas
}
