// Package e2e exercises the full question pipeline through the HTTP API:
// dataset ingestion, entity extraction, intent execution, prompt formatting,
// and transcript persistence.
package e2e

import (
	"fmt"
	"strings"
)

// fixtureRow is one dataset row of the e2e fixture.
type fixtureRow struct {
	n1, n2, n3, n4 string
	description    string
	matchType      string
	repeat         int
}

// fixtureRows describes a small but realistic classified spend dataset:
// two N1 branches, uneven group sizes, sentinel values, and short
// descriptions for the outlier scan.
var fixtureRows = []fixtureRow{
	{"Serviços", "Manutenção Predial", "Elétrica", "Disjuntores", "troca de disjuntor 20A", "Único", 12},
	{"Serviços", "Manutenção Predial", "Elétrica", "Cabos", "cabo flexível 2,5mm 750V", "Único", 6},
	{"Serviços", "Manutenção Predial", "Hidráulica", "Tubos", "tubo pvc soldável 25mm", "Único", 4},
	{"Serviços", "Limpeza", "Geral", "Produtos", "detergente neutro 5l", "Único", 3},
	{"Materiais", "Fixação", "Parafusos", "Sextavados", "parafuso sextavado m8", "Ambíguo", 2},
	{"Materiais", "Fixação", "Nenhum", "Nenhum", "abraçadeira nylon", "Nenhum", 2},
	{"Materiais", "Fixação", "Parafusos", "Sextavados", "pfs", "Único", 1},
}

// buildCSV renders the fixture as the semicolon-separated CSV the ingest
// layer reads.
func buildCSV() string {
	var b strings.Builder
	b.WriteString("N1;N2;N3;N4;Descrição;Match_Type\n")
	for _, r := range fixtureRows {
		for i := 0; i < r.repeat; i++ {
			fmt.Fprintf(&b, "%s;%s;%s;%s;%s;%s\n", r.n1, r.n2, r.n3, r.n4, r.description, r.matchType)
		}
	}
	return b.String()
}

// totalRows returns the number of data rows in the fixture.
func totalRows() int {
	n := 0
	for _, r := range fixtureRows {
		n += r.repeat
	}
	return n
}
