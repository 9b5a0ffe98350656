package parser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"folhacsv/pkg/models"
)

// Formato selects how a payroll export file is interpreted.
type Formato string

const (
	// FormatoAuto sniffs the content: JSON lines, labeled event blocks or
	// fixed four-line employee blocks.
	FormatoAuto Formato = "auto"
	// FormatoEventos is the labeled key/value stream with funcionarios
	// sections and numeroEvento/tipoEvento lines.
	FormatoEventos Formato = "eventos"
	// FormatoBlocos is the strict matricula/nome/cpf/valor four-line block
	// layout.
	FormatoBlocos Formato = "blocos"
	// FormatoJSONL is one JSON object per line.
	FormatoJSONL Formato = "jsonl"
)

// Opcoes is the immutable parsing configuration. Event numbers listed per
// type are dropped entirely; an empty list excludes nothing.
type Opcoes struct {
	ExcluirProventos []string
	ExcluirDescontos []string
}

// Resultado holds everything extracted from one input file.
type Resultado struct {
	// Totais maps matricula to the exact-precision sum of signed amounts.
	Totais map[string]decimal.Decimal
	// Meta maps matricula to the last-seen nome/cpf.
	Meta map[string]models.Funcionario
	// Detalhes lists contributions in the order events were flushed. Only
	// the eventos format produces details.
	Detalhes []models.Detalhe
}

func novoResultado() *Resultado {
	return &Resultado{
		Totais: make(map[string]decimal.Decimal),
		Meta:   make(map[string]models.Funcionario),
	}
}

type Parser struct {
	logger           *log.Logger
	excluirProventos map[string]struct{}
	excluirDescontos map[string]struct{}
}

func New(logger *log.Logger, opcoes Opcoes) *Parser {
	return &Parser{
		logger:           logger,
		excluirProventos: conjunto(opcoes.ExcluirProventos),
		excluirDescontos: conjunto(opcoes.ExcluirDescontos),
	}
}

func conjunto(valores []string) map[string]struct{} {
	m := make(map[string]struct{}, len(valores))
	for _, v := range valores {
		m[strings.TrimSpace(v)] = struct{}{}
	}
	return m
}

// permitido reports whether an event survives the exclusion lists. Types
// other than PROVENTO/DESCONTO are never allowed since only those carry a
// sign. An empty list for a type allows every event of that type.
func (p *Parser) permitido(numero, tipo string) bool {
	switch strings.ToUpper(tipo) {
	case models.TipoProvento:
		if len(p.excluirProventos) == 0 {
			return true
		}
		_, excluido := p.excluirProventos[numero]
		return !excluido
	case models.TipoDesconto:
		if len(p.excluirDescontos) == 0 {
			return true
		}
		_, excluido := p.excluirDescontos[numero]
		return !excluido
	}
	return false
}

// ProcessBytes parses one export file. The returned Formato is the one
// actually used after sniffing.
func (p *Parser) ProcessBytes(data []byte, filename string, formato Formato) (*Resultado, Formato, error) {
	// Undecodable bytes are replaced, never fatal.
	conteudo := strings.ToValidUTF8(string(data), "�")
	linhas := strings.Split(conteudo, "\n")
	for i, ln := range linhas {
		linhas[i] = strings.TrimRight(ln, "\r")
	}

	if formato == "" || formato == FormatoAuto {
		formato = detectarFormato(linhas)
		p.logger.Debug("formato detectado", "formato", formato, "arquivo", filename)
	}

	switch formato {
	case FormatoEventos:
		return p.parseEventos(linhas), formato, nil
	case FormatoBlocos:
		return p.parseBlocos(linhas), formato, nil
	case FormatoJSONL:
		return p.parseJSONL(linhas), formato, nil
	default:
		return nil, formato, fmt.Errorf("formato desconhecido: %s", formato)
	}
}

// detectarFormato sniffs the content. A first non-blank line opening a JSON
// object means jsonl; any funcionarios/numeroEvento/tipoEvento label means
// the event stream; otherwise the fixed block layout.
func detectarFormato(linhas []string) Formato {
	for _, ln := range linhas {
		s := strings.TrimSpace(ln)
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, "{") {
			return FormatoJSONL
		}
		break
	}
	for _, ln := range linhas {
		if reFuncionarios.MatchString(ln) || reNumeroEvento.MatchString(ln) ||
			reTipoEvento.MatchString(ln) || reTipoProvento.MatchString(ln) {
			return FormatoEventos
		}
	}
	return FormatoBlocos
}
