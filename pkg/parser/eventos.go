package parser

import (
	"strings"

	"github.com/shopspring/decimal"

	"folhacsv/pkg/models"
)

type contribuicao struct {
	matricula string
	nome      string
	cpf       string
	valor     decimal.Decimal
}

// eventoPendente buffers contributions until both numeroEvento and
// tipoEvento are known; the two lines may arrive in either order,
// interleaved with employee field lines.
type eventoPendente struct {
	numero      string
	tipo        string
	temNumero   bool
	temTipo     bool
	organograma string
	contribs    []contribuicao
}

// pronto is the single flush precondition: both halves of the join present
// and at least one buffered contribution.
func (e *eventoPendente) pronto() bool {
	return e.temNumero && e.temTipo && len(e.contribs) > 0
}

// maquinaEventos walks the labeled line stream tracking the current
// employee, the current organograma and the pending event buffer.
type maquinaEventos struct {
	parser *Parser
	res    *Resultado

	matricula   string
	nome        string
	cpf         string
	organograma string

	dentroFuncionarios bool
	pendente           eventoPendente
}

// parseEventos reconstructs employee/event records from the labeled export
// stream. An event still pending at end of file is discarded without a
// flush; that mirrors the source system and means a file ending mid-event
// silently loses that event's contributions.
func (p *Parser) parseEventos(linhas []string) *Resultado {
	m := maquinaEventos{parser: p, res: novoResultado()}
	for _, ln := range linhas {
		m.linha(ln)
	}
	return m.res
}

func (m *maquinaEventos) linha(ln string) {
	campo, valor := ExtrairCampo(ln)
	switch campo {
	case CampoNumeroEvento:
		m.pendente.numero = valor
		m.pendente.temNumero = true
		m.dentroFuncionarios = false
		m.descarregar()

	case CampoTipoEvento:
		m.pendente.tipo = strings.ToUpper(valor)
		m.pendente.temTipo = true
		m.dentroFuncionarios = false
		m.descarregar()

	case CampoNumeroOrganograma:
		m.organograma = valor

	case CampoFuncionarios:
		// A new event block is starting; whatever was pending is abandoned.
		m.dentroFuncionarios = true
		m.pendente = eventoPendente{organograma: m.organograma}

	case CampoMatricula:
		m.matricula = valor
		if m.dentroFuncionarios && m.matricula != "" {
			if _, ok := m.res.Totais[m.matricula]; !ok {
				m.res.Totais[m.matricula] = decimal.Decimal{}
			}
		}
		if m.matricula != "" && (m.nome != "" || m.cpf != "") {
			m.atualizarMeta()
		}

	case CampoNome:
		m.nome = valor
		if m.matricula != "" {
			m.atualizarMeta()
		}

	case CampoCPF:
		m.cpf = valor
		if m.matricula != "" {
			m.atualizarMeta()
		}

	case CampoValor:
		if !m.dentroFuncionarios || m.matricula == "" {
			return
		}
		v, ok := ParseValor(valor)
		if !ok {
			m.parser.logger.Debug("valor ignorado", "matricula", m.matricula, "valor", valor)
			return
		}
		nome, cpf := m.nome, m.cpf
		if f, ok := m.res.Meta[m.matricula]; ok {
			nome, cpf = f.Nome, f.CPF
		}
		m.pendente.contribs = append(m.pendente.contribs, contribuicao{
			matricula: m.matricula,
			nome:      nome,
			cpf:       cpf,
			valor:     v,
		})
	}
}

func (m *maquinaEventos) atualizarMeta() {
	m.res.Meta[m.matricula] = models.Funcionario{
		Matricula: m.matricula,
		Nome:      m.nome,
		CPF:       m.cpf,
	}
}

// descarregar flushes the pending event when ready: applies the type's sign
// to every buffered amount, updates running totals and emits one Detalhe per
// contribution, unless the event is excluded, in which case the buffer is
// dropped without emitting. The buffer is cleared after every flush attempt
// whether or not emission occurred.
func (m *maquinaEventos) descarregar() {
	if !m.pendente.pronto() {
		return
	}

	if m.parser.permitido(m.pendente.numero, m.pendente.tipo) {
		sinal := decimal.NewFromInt(1)
		if m.pendente.tipo != models.TipoProvento {
			sinal = decimal.NewFromInt(-1)
		}
		for _, c := range m.pendente.contribs {
			aplicado := c.valor.Mul(sinal)
			m.res.Totais[c.matricula] = m.res.Totais[c.matricula].Add(aplicado)
			m.res.Detalhes = append(m.res.Detalhes, models.Detalhe{
				NumeroOrganograma: m.pendente.organograma,
				Matricula:         c.matricula,
				Nome:              c.nome,
				CPF:               c.cpf,
				NumeroEvento:      m.pendente.numero,
				TipoEvento:        m.pendente.tipo,
				Valor:             aplicado,
			})
		}
	} else {
		m.parser.logger.Debug("evento excluído",
			"numeroEvento", m.pendente.numero, "tipoEvento", m.pendente.tipo,
			"contribuicoes", len(m.pendente.contribs))
	}

	m.pendente = eventoPendente{}
}
