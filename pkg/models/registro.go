package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Event types carried by the payroll export. Anything else never reaches the
// output because only these two carry a sign.
const (
	TipoProvento = "PROVENTO"
	TipoDesconto = "DESCONTO"
)

// Funcionario holds the last-seen identification for a matricula.
type Funcionario struct {
	Matricula string
	Nome      string
	CPF       string
}

// Detalhe is one signed event contribution, in the order events were flushed.
type Detalhe struct {
	NumeroOrganograma string
	Matricula         string
	Nome              string
	CPF               string
	NumeroEvento      string
	TipoEvento        string
	Valor             decimal.Decimal
	Organograma       string
}

// Agregado is the per-employee total within one source file.
type Agregado struct {
	Matricula   string
	Nome        string
	CPF         string
	Total       decimal.Decimal
	Organograma string
}

// CompararNumericoPrimeiro orders keys that parse as integers numerically,
// ahead of every non-numeric key; non-numeric keys compare lexically.
// Returns -1, 0 or 1.
func CompararNumericoPrimeiro(a, b string) int {
	na, errA := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	nb, errB := strconv.ParseInt(strings.TrimSpace(b), 10, 64)
	switch {
	case errA == nil && errB == nil:
		if na < nb {
			return -1
		}
		if na > nb {
			return 1
		}
		return 0
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// OrdemTipoEvento ranks event types for output ordering: PROVENTO before
// DESCONTO before anything else.
func OrdemTipoEvento(tipo string) int {
	switch strings.ToUpper(tipo) {
	case TipoProvento:
		return 0
	case TipoDesconto:
		return 1
	default:
		return 99
	}
}
