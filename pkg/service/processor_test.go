package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"folhacsv/pkg/config"
	"folhacsv/pkg/parser"
)

func configDeTeste(t *testing.T) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DiretorioEntrada: filepath.Join(dir, "arquivos_leitura"),
		DiretorioSaida:   filepath.Join(dir, "saida"),
		SaidaDetalhe:     "detalhe_unificado.csv",
		SaidaAgrupado:    "valores_agrupados_por_matricula.csv",
		ExcluirProventos: config.ProventosExcluidosPadrao,
		ExcluirDescontos: config.DescontosExcluidosPadrao,
	}, dir
}

func escreverEntrada(t *testing.T, cfg *config.Config, nome, conteudo string) string {
	t.Helper()
	if err := os.MkdirAll(cfg.DiretorioEntrada, 0o755); err != nil {
		t.Fatal(err)
	}
	caminho := filepath.Join(cfg.DiretorioEntrada, nome)
	if err := os.WriteFile(caminho, []byte(conteudo), 0644); err != nil {
		t.Fatal(err)
	}
	return caminho
}

func lerSaida(t *testing.T, cfg *config.Config, nome string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.DiretorioSaida, nome))
	if err != nil {
		t.Fatalf("saída %s não gerada: %v", nome, err)
	}
	return string(data)
}

func TestGerarEventos(t *testing.T) {
	cfg, _ := configDeTeste(t)
	escreverEntrada(t, cfg, "folha1.txt", `numeroOrganograma: "55"
funcionarios: Array(1)
matricula: "100"
nome: "Ana"
cpf: "111"
valor: "150,00"
numeroEvento: "10"
tipoEvento: "PROVENTO"
`)

	p := NewProcessor(cfg, log.Default())
	if err := p.Gerar([]string{"folha1.txt"}, parser.FormatoAuto); err != nil {
		t.Fatalf("Gerar falhou: %v", err)
	}

	detalhe := lerSaida(t, cfg, "detalhe_unificado.csv")
	esperadoDetalhe := "numeroOrganograma,matricula,nome,cpf,numeroEvento,tipoEvento,valorEvento,organograma\n" +
		"55,100,Ana,111,10,PROVENTO,150.00,folha1\n"
	if detalhe != esperadoDetalhe {
		t.Errorf("detalhe inesperado:\n%s", detalhe)
	}

	agrupado := lerSaida(t, cfg, "valores_agrupados_por_matricula.csv")
	esperadoAgrupado := "matricula,nome,cpf,total,organograma\n" +
		"100,Ana,111,150.00,folha1\n"
	if agrupado != esperadoAgrupado {
		t.Errorf("agrupado inesperado:\n%s", agrupado)
	}
}

func TestGerarEventoExcluido(t *testing.T) {
	cfg, _ := configDeTeste(t)
	// 295 is in the default PROVENTO exclusion list.
	escreverEntrada(t, cfg, "folha1.txt", `numeroOrganograma: "55"
funcionarios: Array(1)
matricula: "100"
nome: "Ana"
cpf: "111"
valor: "150,00"
numeroEvento: "295"
tipoEvento: "PROVENTO"
`)

	p := NewProcessor(cfg, log.Default())
	if err := p.Gerar([]string{"folha1.txt"}, parser.FormatoAuto); err != nil {
		t.Fatalf("Gerar falhou: %v", err)
	}

	detalhe := lerSaida(t, cfg, "detalhe_unificado.csv")
	if detalhe != "numeroOrganograma,matricula,nome,cpf,numeroEvento,tipoEvento,valorEvento,organograma\n" {
		t.Errorf("evento excluído não devia gerar detalhes:\n%s", detalhe)
	}

	agrupado := lerSaida(t, cfg, "valores_agrupados_por_matricula.csv")
	esperado := "matricula,nome,cpf,total,organograma\n100,Ana,111,0.00,folha1\n"
	if agrupado != esperado {
		t.Errorf("agrupado inesperado:\n%s", agrupado)
	}
}

func TestGerarSemEntradas(t *testing.T) {
	cfg, _ := configDeTeste(t)
	cfg.ArquivosEntrada = nil

	p := NewProcessor(cfg, log.Default())
	if err := p.Gerar(nil, parser.FormatoAuto); err != nil {
		t.Fatalf("Gerar sem entradas devia concluir: %v", err)
	}

	detalhe := lerSaida(t, cfg, "detalhe_unificado.csv")
	esperado := "mensagem\n" +
		"Nenhum arquivo de leitura informado (use argumentos ou preencha arquivos_entrada).\n"
	if detalhe != esperado {
		t.Errorf("saída informativa inesperada:\n%s", detalhe)
	}
}

func TestGerarEntradaFaltando(t *testing.T) {
	cfg, _ := configDeTeste(t)
	p := NewProcessor(cfg, log.Default())
	if err := p.Gerar([]string{"nao_existe.txt"}, parser.FormatoAuto); err == nil {
		t.Fatal("arquivo de entrada faltando devia ser erro")
	}
}

func TestGerarBlocosPorArquivo(t *testing.T) {
	cfg, _ := configDeTeste(t)
	escreverEntrada(t, cfg, "11802004.txt", `matricula: "100"
nome: "Ana"
cpf: "111"
valor: 150,00
`)

	p := NewProcessor(cfg, log.Default())
	if err := p.Gerar([]string{"11802004.txt"}, parser.FormatoBlocos); err != nil {
		t.Fatalf("Gerar falhou: %v", err)
	}

	agrupado := lerSaida(t, cfg, "11802004_agrupado.csv")
	esperado := "matricula,nome,cpf,total\n100,Ana,111,150.00\n"
	if agrupado != esperado {
		t.Errorf("agrupado inesperado:\n%s", agrupado)
	}
}

func TestGerarJSONLPorArquivo(t *testing.T) {
	cfg, _ := configDeTeste(t)
	escreverEntrada(t, cfg, "1802002.txt", `{"matricula": "100", "valor": "150,00"}
{"matricula": "100", "valor": "1,50"}
`)

	p := NewProcessor(cfg, log.Default())
	if err := p.Gerar([]string{"1802002.txt"}, parser.FormatoAuto); err != nil {
		t.Fatalf("Gerar falhou: %v", err)
	}

	agrupado := lerSaida(t, cfg, "1802002_agrupado.csv")
	esperado := "matricula,total\n100,151.50\n"
	if agrupado != esperado {
		t.Errorf("agrupado inesperado:\n%s", agrupado)
	}
}

func TestGerarVariosArquivosEventos(t *testing.T) {
	cfg, _ := configDeTeste(t)
	escreverEntrada(t, cfg, "b.txt", `numeroOrganograma: "2"
funcionarios: Array(1)
matricula: "200"
nome: "Bruno"
cpf: "222"
valor: "10,00"
numeroEvento: "10"
tipoEvento: "DESCONTO"
`)
	escreverEntrada(t, cfg, "a.txt", `numeroOrganograma: "1"
funcionarios: Array(1)
matricula: "100"
nome: "Ana"
cpf: "111"
valor: "150,00"
numeroEvento: "10"
tipoEvento: "PROVENTO"
`)

	p := NewProcessor(cfg, log.Default())
	if err := p.Gerar([]string{"b.txt", "a.txt"}, parser.FormatoAuto); err != nil {
		t.Fatalf("Gerar falhou: %v", err)
	}

	// Details sort by organograma number; aggregates by origin label.
	detalhe := lerSaida(t, cfg, "detalhe_unificado.csv")
	esperadoDetalhe := "numeroOrganograma,matricula,nome,cpf,numeroEvento,tipoEvento,valorEvento,organograma\n" +
		"1,100,Ana,111,10,PROVENTO,150.00,a\n" +
		"2,200,Bruno,222,10,DESCONTO,-10.00,b\n"
	if detalhe != esperadoDetalhe {
		t.Errorf("detalhe inesperado:\n%s", detalhe)
	}

	agrupado := lerSaida(t, cfg, "valores_agrupados_por_matricula.csv")
	esperadoAgrupado := "matricula,nome,cpf,total,organograma\n" +
		"100,Ana,111,150.00,a\n" +
		"200,Bruno,222,-10.00,b\n"
	if agrupado != esperadoAgrupado {
		t.Errorf("agrupado inesperado:\n%s", agrupado)
	}
}
