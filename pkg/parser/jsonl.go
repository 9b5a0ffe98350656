package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"folhacsv/pkg/models"
)

// registroFuncionario is one employee entry recovered from a JSON line.
type registroFuncionario struct {
	matricula string
	nome      string
	cpf       string
	valor     string
}

// Fallback patterns for lines that are not valid JSON. Group 2 is the quoted
// value, group 3 the bare one.
var (
	reJSONMatricula = regexp.MustCompile(`(?i)"matricula"\s*:\s*("([^"]*)"|([^,}\]]+))`)
	reJSONNome      = regexp.MustCompile(`(?i)"nome"\s*:\s*("([^"]*)"|([^,}\]]+))`)
	reJSONCPF       = regexp.MustCompile(`(?i)"cpf"\s*:\s*("([^"]*)"|([^,}\]]+))`)
	reJSONValor     = regexp.MustCompile(`(?i)"valor"\s*:\s*("([^"]*)"|([^,}\]]+))`)
)

// parseJSONL handles exports with one JSON object per line. Each line goes
// through two extraction strategies in fixed order: proper JSON decoding,
// then a regex scan for malformed lines. Lines that fail both, or lack a
// matricula, or carry an unparsable valor, are skipped.
func (p *Parser) parseJSONL(linhas []string) *Resultado {
	res := novoResultado()

	for n, ln := range linhas {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}

		reg, ok := extrairRegistroJSON(ln)
		if !ok {
			reg, ok = extrairRegistroVarredura(ln)
		}
		if !ok {
			p.logger.Debug("linha ignorada", "linha", n+1)
			continue
		}

		valor, ok := ParseValor(reg.valor)
		if !ok {
			p.logger.Debug("valor ignorado", "linha", n+1, "matricula", reg.matricula, "valor", reg.valor)
			continue
		}

		res.Totais[reg.matricula] = res.Totais[reg.matricula].Add(valor)
		if _, existe := res.Meta[reg.matricula]; !existe {
			res.Meta[reg.matricula] = models.Funcionario{
				Matricula: reg.matricula,
				Nome:      reg.nome,
				CPF:       reg.cpf,
			}
		}
	}

	return res
}

// extrairRegistroJSON decodes the line as a JSON object and pulls the fields
// with case-insensitive key lookup. Numbers are kept as their literal text
// so no precision is lost before normalization.
func extrairRegistroJSON(linha string) (registroFuncionario, bool) {
	dec := json.NewDecoder(strings.NewReader(linha))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return registroFuncionario{}, false
	}

	buscar := func(chave string) (any, bool) {
		if v, ok := obj[chave]; ok {
			return v, true
		}
		for k, v := range obj {
			if strings.EqualFold(k, chave) {
				return v, true
			}
		}
		return nil, false
	}

	matricula, ok := buscar("matricula")
	if !ok || matricula == nil {
		return registroFuncionario{}, false
	}

	texto := func(v any) string {
		switch t := v.(type) {
		case nil:
			return ""
		case string:
			return strings.TrimSpace(tirarAspas(t))
		case json.Number:
			return t.String()
		default:
			return strings.TrimSpace(fmt.Sprint(t))
		}
	}

	reg := registroFuncionario{matricula: texto(matricula)}
	if v, ok := buscar("nome"); ok {
		reg.nome = texto(v)
	}
	if v, ok := buscar("cpf"); ok {
		reg.cpf = texto(v)
	}
	if v, ok := buscar("valor"); ok {
		reg.valor = texto(v)
	}
	return reg, true
}

// extrairRegistroVarredura recovers the fields from a malformed line by
// scanning for the quoted keys directly.
func extrairRegistroVarredura(linha string) (registroFuncionario, bool) {
	valorDe := func(re *regexp.Regexp) string {
		m := re.FindStringSubmatch(linha)
		if m == nil {
			return ""
		}
		v := m[3]
		if strings.HasPrefix(m[1], `"`) {
			v = m[2]
		}
		return strings.TrimSpace(tirarAspas(v))
	}

	matricula := valorDe(reJSONMatricula)
	if matricula == "" {
		return registroFuncionario{}, false
	}

	return registroFuncionario{
		matricula: matricula,
		nome:      valorDe(reJSONNome),
		cpf:       valorDe(reJSONCPF),
		valor:     valorDe(reJSONValor),
	}, true
}
