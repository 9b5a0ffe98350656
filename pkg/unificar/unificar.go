// Package unificar merges independently generated aggregate CSVs into one
// file: union of all columns, preferred columns first, and an organograma
// column tagging each row with its source file.
package unificar

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Opcoes configures one merge run.
type Opcoes struct {
	Entradas []string
	Saida    string
	// ComOrganograma appends the origin column; on by default.
	ComOrganograma bool
}

// Columns that lead the merged header when present in any input.
var colunasPreferidas = []string{"matricula", "nome", "cpf", "total"}

const sufixoAgrupado = "_agrupado.csv"

type arquivoEntrada struct {
	caminho     string
	delimitador rune
	cabecalho   []string
	conteudo    string
}

// Unificar reads every input CSV, computes the union of their headers and
// writes a single combined CSV. A missing input aborts the merge before any
// output is written.
func Unificar(logger *log.Logger, opcoes Opcoes) error {
	arquivos := make([]arquivoEntrada, 0, len(opcoes.Entradas))
	var uniao []string
	vistas := make(map[string]struct{})

	for _, caminho := range opcoes.Entradas {
		if info, err := os.Stat(caminho); err != nil || info.IsDir() {
			return fmt.Errorf("arquivo não encontrado: %s", caminho)
		}
		arq, err := lerArquivo(caminho)
		if err != nil {
			return err
		}
		logger.Debug("arquivo inspecionado", "arquivo", caminho,
			"delimitador", string(arq.delimitador), "colunas", len(arq.cabecalho))
		arquivos = append(arquivos, arq)
		for _, h := range arq.cabecalho {
			if _, ok := vistas[h]; !ok {
				vistas[h] = struct{}{}
				uniao = append(uniao, h)
			}
		}
	}

	colunas := ordenarColunas(uniao)
	saida := colunas
	if opcoes.ComOrganograma {
		saida = append(append([]string{}, colunas...), "organograma")
	}

	if dir := filepath.Dir(opcoes.Saida); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("erro ao criar diretório de saída: %w", err)
		}
	}
	f, err := os.Create(opcoes.Saida)
	if err != nil {
		return fmt.Errorf("erro ao criar saída: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(saida); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	for _, arq := range arquivos {
		origem := rotuloOrigem(arq.caminho)
		linhas, err := lerLinhas(arq)
		if err != nil {
			return err
		}
		for _, linha := range linhas {
			registro := make([]string, 0, len(saida))
			for _, coluna := range colunas {
				registro = append(registro, linha[coluna])
			}
			if opcoes.ComOrganograma {
				registro = append(registro, origem)
			}
			if err := cw.Write(registro); err != nil {
				return fmt.Errorf("erro ao escrever registro: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ordenarColunas puts the preferred columns first, then the remaining ones
// in first-seen order.
func ordenarColunas(uniao []string) []string {
	presentes := make(map[string]struct{}, len(uniao))
	for _, h := range uniao {
		presentes[h] = struct{}{}
	}
	preferidas := make(map[string]struct{}, len(colunasPreferidas))

	var colunas []string
	for _, h := range colunasPreferidas {
		if _, ok := presentes[h]; ok {
			colunas = append(colunas, h)
			preferidas[h] = struct{}{}
		}
	}
	for _, h := range uniao {
		if _, ok := preferidas[h]; !ok {
			colunas = append(colunas, h)
		}
	}
	return colunas
}

// rotuloOrigem strips the known aggregate suffix from the filename.
func rotuloOrigem(caminho string) string {
	base := filepath.Base(caminho)
	if strings.HasSuffix(strings.ToLower(base), sufixoAgrupado) {
		return base[:len(base)-len(sufixoAgrupado)]
	}
	return base
}

// lerArquivo decodes the file trying utf-8 with BOM, plain utf-8 and
// latin-1 in order, then detects the delimiter and reads the header.
func lerArquivo(caminho string) (arquivoEntrada, error) {
	conteudo, err := lerDecodificado(caminho)
	if err != nil {
		return arquivoEntrada{}, err
	}

	delimitador := detectarDelimitador(conteudo)
	r := csv.NewReader(strings.NewReader(conteudo))
	r.Comma = delimitador
	r.FieldsPerRecord = -1

	cabecalho, err := r.Read()
	if err == io.EOF {
		cabecalho = nil
	} else if err != nil {
		return arquivoEntrada{}, fmt.Errorf("erro ao ler cabeçalho de %s: %w", caminho, err)
	}

	return arquivoEntrada{
		caminho:     caminho,
		delimitador: delimitador,
		cabecalho:   cabecalho,
		conteudo:    conteudo,
	}, nil
}

// lerLinhas re-reads an input restricted to its own header, as maps keyed by
// column name.
func lerLinhas(arq arquivoEntrada) ([]map[string]string, error) {
	r := csv.NewReader(strings.NewReader(arq.conteudo))
	r.Comma = arq.delimitador
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("erro ao ler %s: %w", arq.caminho, err)
	}

	var linhas []map[string]string
	for {
		registro, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao ler %s: %w", arq.caminho, err)
		}
		linha := make(map[string]string, len(arq.cabecalho))
		for i, coluna := range arq.cabecalho {
			if i < len(registro) {
				linha[coluna] = registro[i]
			} else {
				linha[coluna] = ""
			}
		}
		linhas = append(linhas, linha)
	}
	return linhas, nil
}

// lerDecodificado tries the encoding candidates in order; latin-1 never
// fails, so something always comes back for an existing file.
func lerDecodificado(caminho string) (string, error) {
	data, err := os.ReadFile(caminho)
	if err != nil {
		return "", fmt.Errorf("erro ao ler %s: %w", caminho, err)
	}

	// utf-8-sig
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}

	decodificado, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("erro ao decodificar %s: %w", caminho, err)
	}
	return string(decodificado), nil
}

// detectarDelimitador scores the candidate delimiters on the header line;
// comma wins ties.
func detectarDelimitador(conteudo string) rune {
	primeira := conteudo
	if i := strings.IndexByte(conteudo, '\n'); i >= 0 {
		primeira = conteudo[:i]
	}

	delimitador := ','
	melhor := strings.Count(primeira, ",")
	for _, candidato := range []rune{';', '\t', '|'} {
		if n := strings.Count(primeira, string(candidato)); n > melhor {
			melhor = n
			delimitador = candidato
		}
	}
	return delimitador
}
