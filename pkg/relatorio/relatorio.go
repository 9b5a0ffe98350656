package relatorio

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"folhacsv/pkg/models"
)

// Column headers of the generated reports.
var (
	CabecalhoDetalhe  = []string{"numeroOrganograma", "matricula", "nome", "cpf", "numeroEvento", "tipoEvento", "valorEvento", "organograma"}
	CabecalhoAgregado = []string{"matricula", "nome", "cpf", "total", "organograma"}
)

// Quantizar renders an exact amount with two decimal places, rounding
// half up (ties away from zero). Rounding happens only here, at emission.
func Quantizar(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// RotuloOrganograma derives the origin label from a source filename: the
// base name without extension and without a trailing "_agrupado".
func RotuloOrganograma(caminho string) string {
	base := filepath.Base(caminho)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSuffix(base, "_agrupado")
}

// OrdenarDetalhes sorts detail records by organograma number, matricula and
// event type. Numeric keys order numerically ahead of non-numeric ones;
// PROVENTO sorts before DESCONTO before anything else.
func OrdenarDetalhes(detalhes []models.Detalhe) {
	sort.SliceStable(detalhes, func(i, j int) bool {
		if c := models.CompararNumericoPrimeiro(detalhes[i].NumeroOrganograma, detalhes[j].NumeroOrganograma); c != 0 {
			return c < 0
		}
		if c := models.CompararNumericoPrimeiro(detalhes[i].Matricula, detalhes[j].Matricula); c != 0 {
			return c < 0
		}
		return models.OrdemTipoEvento(detalhes[i].TipoEvento) < models.OrdemTipoEvento(detalhes[j].TipoEvento)
	})
}

// OrdenarAgregados sorts aggregate records by organograma label and then
// matricula with the numeric-first rule.
func OrdenarAgregados(agregados []models.Agregado) {
	sort.SliceStable(agregados, func(i, j int) bool {
		if agregados[i].Organograma != agregados[j].Organograma {
			return agregados[i].Organograma < agregados[j].Organograma
		}
		return models.CompararNumericoPrimeiro(agregados[i].Matricula, agregados[j].Matricula) < 0
	})
}

// EscreverDetalhes writes the unified detail report.
func EscreverDetalhes(w io.Writer, detalhes []models.Detalhe) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CabecalhoDetalhe); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}
	for _, d := range detalhes {
		registro := []string{
			d.NumeroOrganograma,
			d.Matricula,
			d.Nome,
			d.CPF,
			d.NumeroEvento,
			d.TipoEvento,
			Quantizar(d.Valor),
			d.Organograma,
		}
		if err := cw.Write(registro); err != nil {
			return fmt.Errorf("erro ao escrever detalhe: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EscreverAgregados writes the unified per-matricula aggregate report.
func EscreverAgregados(w io.Writer, agregados []models.Agregado) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CabecalhoAgregado); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}
	for _, a := range agregados {
		registro := []string{a.Matricula, a.Nome, a.CPF, Quantizar(a.Total), a.Organograma}
		if err := cw.Write(registro); err != nil {
			return fmt.Errorf("erro ao escrever agregado: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EscreverAgrupadoSimples writes the single-file aggregate variants, sorted
// by matricula lexically: matricula,nome,cpf,total with meta, or
// matricula,total without.
func EscreverAgrupadoSimples(w io.Writer, totais map[string]decimal.Decimal, meta map[string]models.Funcionario, comMeta bool) error {
	matriculas := make([]string, 0, len(totais))
	for matricula := range totais {
		matriculas = append(matriculas, matricula)
	}
	sort.Strings(matriculas)

	cw := csv.NewWriter(w)
	cabecalho := []string{"matricula", "total"}
	if comMeta {
		cabecalho = []string{"matricula", "nome", "cpf", "total"}
	}
	if err := cw.Write(cabecalho); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	for _, matricula := range matriculas {
		total := Quantizar(totais[matricula])
		registro := []string{matricula, total}
		if comMeta {
			f := meta[matricula]
			registro = []string{matricula, f.Nome, f.CPF, total}
		}
		if err := cw.Write(registro); err != nil {
			return fmt.Errorf("erro ao escrever agregado: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EscreverMensagemInformativa replaces the report when no input files were
// given; the run still succeeds.
func EscreverMensagemInformativa(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"mensagem"}); err != nil {
		return err
	}
	if err := cw.Write([]string{"Nenhum arquivo de leitura informado (use argumentos ou preencha arquivos_entrada)."}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
