package parser

import (
	"regexp"
	"strings"
)

// Campo identifies a labeled field recognized on a line of the export.
type Campo int

const (
	CampoNenhum Campo = iota
	CampoMatricula
	CampoNome
	CampoCPF
	CampoValor
	CampoNumeroEvento
	CampoTipoEvento
	CampoNumeroOrganograma
	// CampoFuncionarios marks the start of an employees list section and
	// carries no value.
	CampoFuncionarios
)

// Labels match case-insensitively, anchored to the whole line, with the
// value optionally quoted. "tipoProvento" is a second spelling of the event
// type label found in some exports.
var (
	reMatricula         = regexp.MustCompile(`(?i)^\s*matricula:\s*"?([^"\r\n]+)"?\s*$`)
	reNome              = regexp.MustCompile(`(?i)^\s*nome:\s*"?([^"\r\n]+)"?\s*$`)
	reCPF               = regexp.MustCompile(`(?i)^\s*cpf:\s*"?([^"\r\n]+)"?\s*$`)
	reValor             = regexp.MustCompile(`(?i)^\s*valor:\s*"?([-+]?[0-9]+(?:[.,][0-9]+)?)"?\s*$`)
	reNumeroEvento      = regexp.MustCompile(`(?i)^\s*numeroEvento:\s*"?([^"\r\n]+)"?\s*$`)
	reTipoEvento        = regexp.MustCompile(`(?i)^\s*tipoEvento:\s*"?([^"\r\n]+)"?\s*$`)
	reTipoProvento      = regexp.MustCompile(`(?i)^\s*tipoProvento:\s*"?([^"\r\n]+)"?\s*$`)
	reNumeroOrganograma = regexp.MustCompile(`(?i)^\s*numeroOrganograma:\s*"?([^"\r\n]+)"?\s*$`)
	reFuncionarios      = regexp.MustCompile(`(?i)^\s*funcionarios:\s*Array\b`)
)

var extratores = []struct {
	campo Campo
	re    *regexp.Regexp
}{
	{CampoNumeroEvento, reNumeroEvento},
	{CampoNumeroOrganograma, reNumeroOrganograma},
	{CampoTipoEvento, reTipoEvento},
	{CampoTipoEvento, reTipoProvento},
	{CampoMatricula, reMatricula},
	{CampoNome, reNome},
	{CampoCPF, reCPF},
	{CampoValor, reValor},
}

// ExtrairCampo recognizes one labeled field in a line. The value comes back
// trimmed and unquoted. Lines with no recognized label return CampoNenhum.
func ExtrairCampo(linha string) (Campo, string) {
	if reFuncionarios.MatchString(linha) {
		return CampoFuncionarios, ""
	}
	for _, e := range extratores {
		if m := e.re.FindStringSubmatch(linha); m != nil {
			return e.campo, strings.TrimSpace(m[1])
		}
	}
	return CampoNenhum, ""
}
