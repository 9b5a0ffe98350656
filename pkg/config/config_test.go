package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildPadroes(t *testing.T) {
	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("Build falhou: %v", err)
	}

	if cfg.DiretorioEntrada != "arquivos_leitura" {
		t.Errorf("diretorio_entrada = %q", cfg.DiretorioEntrada)
	}
	if cfg.SaidaDetalhe != "detalhe_unificado.csv" || cfg.SaidaAgrupado != "valores_agrupados_por_matricula.csv" {
		t.Errorf("saídas padrão inesperadas: %q %q", cfg.SaidaDetalhe, cfg.SaidaAgrupado)
	}
	if len(cfg.ExcluirProventos) != 42 || len(cfg.ExcluirDescontos) != 3 {
		t.Errorf("listas de exclusão padrão inesperadas: %d proventos, %d descontos",
			len(cfg.ExcluirProventos), len(cfg.ExcluirDescontos))
	}
	if len(cfg.ArquivosEntrada) == 0 {
		t.Error("arquivos_entrada padrão vazio")
	}
}

func TestBuildArquivoDeConfiguracao(t *testing.T) {
	dir := t.TempDir()
	caminho := filepath.Join(dir, "config.yaml")
	conteudo := `diretorio_entrada: entradas
saida_detalhe: detalhe.csv
excluir_descontos: ["1", "2"]
`
	if err := os.WriteFile(caminho, []byte(conteudo), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Build(caminho, nil)
	if err != nil {
		t.Fatalf("Build falhou: %v", err)
	}
	if cfg.DiretorioEntrada != "entradas" || cfg.SaidaDetalhe != "detalhe.csv" {
		t.Errorf("config do arquivo não aplicada: %+v", cfg)
	}
	if len(cfg.ExcluirDescontos) != 2 {
		t.Errorf("excluir_descontos = %v", cfg.ExcluirDescontos)
	}
	// Keys absent from the file keep their defaults.
	if len(cfg.ExcluirProventos) != 42 {
		t.Errorf("excluir_proventos devia manter o padrão: %d", len(cfg.ExcluirProventos))
	}
}

func TestBuildArquivoInexistente(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "nao_existe.yaml"), nil); err == nil {
		t.Fatal("config explícita faltando devia ser erro")
	}
}

func TestCarregarExclusoes(t *testing.T) {
	dir := t.TempDir()
	caminho := filepath.Join(dir, "exclusoes.yaml")
	conteudo := `proventos: ["100", "200"]
descontos: []
`
	if err := os.WriteFile(caminho, []byte(conteudo), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{
		ExcluirProventos: ProventosExcluidosPadrao,
		ExcluirDescontos: DescontosExcluidosPadrao,
	}
	if err := CarregarExclusoes(caminho, cfg); err != nil {
		t.Fatalf("CarregarExclusoes falhou: %v", err)
	}

	if len(cfg.ExcluirProventos) != 2 {
		t.Errorf("proventos = %v", cfg.ExcluirProventos)
	}
	// An explicit empty list means exclude nothing.
	if len(cfg.ExcluirDescontos) != 0 {
		t.Errorf("descontos = %v", cfg.ExcluirDescontos)
	}
}
