package parser

import (
	"strings"

	"folhacsv/pkg/models"
)

// parseBlocos handles exports laid out as strict four-line employee blocks:
// matricula, nome, cpf, valor. A window that does not complete the block
// advances a single line and retries; a valid block advances past itself.
// First-seen nome/cpf win for a repeated matricula.
func (p *Parser) parseBlocos(linhas []string) *Resultado {
	res := novoResultado()

	for i := 0; i < len(linhas); {
		mMat := reMatricula.FindStringSubmatch(linhas[i])
		if mMat == nil {
			i++
			continue
		}
		if i+3 >= len(linhas) {
			break
		}

		mNome := reNome.FindStringSubmatch(linhas[i+1])
		mCPF := reCPF.FindStringSubmatch(linhas[i+2])
		mVal := reValor.FindStringSubmatch(linhas[i+3])
		if mNome == nil || mCPF == nil || mVal == nil {
			i++
			continue
		}

		matricula := strings.TrimSpace(mMat[1])
		valor, ok := ParseValor(mVal[1])
		if ok {
			res.Totais[matricula] = res.Totais[matricula].Add(valor)
			if _, existe := res.Meta[matricula]; !existe {
				res.Meta[matricula] = models.Funcionario{
					Matricula: matricula,
					Nome:      strings.TrimSpace(mNome[1]),
					CPF:       strings.TrimSpace(mCPF[1]),
				}
			}
		} else {
			p.logger.Debug("valor ignorado", "matricula", matricula, "valor", mVal[1])
		}

		i += 4
	}

	return res
}
