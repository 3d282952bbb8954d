package billing

import (
	"testing"

	"billing-engine/internal/model"
)

func situation(retention bool, advances string, lines ...model.SituationLine) model.Situation {
	return model.Situation{
		Lignes:          lines,
		RetenueGarantie: retention,
		AcomptesDeduits: d(advances),
	}
}

// One line of 10 m² × 100 €/m² at 10% VAT billed over three situations.
func TestSummarizeWorkedScenario(t *testing.T) {
	calc := NewCalculator(DefaultRetentionRate)

	steps := []struct {
		name      string
		sit       model.Situation
		wantHT    string
		wantTVA   string
		wantTTC   string
		wantRet   string
		wantNet   string
		wantAvanc string
	}{
		{"situation 1", situation(false, "0", line("l1", "1000", "10", "0", "30")), "300", "30", "330", "0", "330", "30"},
		{"situation 2", situation(true, "0", line("l1", "1000", "10", "30", "70")), "400", "40", "440", "22", "418", "70"},
		{"situation 3", situation(false, "50", line("l1", "1000", "10", "70", "100")), "300", "30", "330", "0", "280", "100"},
	}

	sumHT := d("0")
	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			tot := calc.Summarize(step.sit)
			assertAmount(t, "MontantSituationHT", tot.MontantSituationHT, step.wantHT)
			assertAmount(t, "TotalTVA", tot.TotalTVA, step.wantTVA)
			assertAmount(t, "MontantSituationTTC", tot.MontantSituationTTC, step.wantTTC)
			assertAmount(t, "Retenue", tot.Retenue, step.wantRet)
			assertAmount(t, "NetAPayer", tot.NetAPayer, step.wantNet)
			assertAmount(t, "Avancement", tot.Avancement, step.wantAvanc)
			sumHT = sumHT.Add(tot.MontantSituationHT)
		})
	}

	assertAmount(t, "sum of period HT", sumHT, "1000")
}

func TestSummarizeNegativeNetIsSurfaced(t *testing.T) {
	calc := NewCalculator(DefaultRetentionRate)
	tot := calc.Summarize(situation(false, "500", line("l1", "1000", "10", "0", "30")))
	assertAmount(t, "NetAPayer", tot.NetAPayer, "-170")
}

func TestSummarizeRoundsAggregateOnce(t *testing.T) {
	calc := NewCalculator(DefaultRetentionRate)
	// Each line bills 0.005 HT: per-line display rounds to 0.01, but the
	// aggregate of the exact values is 0.015, which rounds to 0.02.
	s := situation(false, "0",
		line("a", "1", "0", "0", "0.5"),
		line("b", "1", "0", "0", "0.5"),
		line("c", "1", "0", "0", "0.5"),
	)
	for _, a := range calc.Amounts(s) {
		assertAmount(t, "line PeriodeHT", a.PeriodeHT, "0.01")
	}
	tot := calc.Summarize(s)
	assertAmount(t, "MontantSituationHT", tot.MontantSituationHT, "0.02")
}

func TestSummarizeCustomRetentionRate(t *testing.T) {
	calc := NewCalculator(d("0.1"))
	tot := calc.Summarize(situation(true, "0", line("l1", "1000", "10", "0", "100")))
	assertAmount(t, "Retenue", tot.Retenue, "110")
	assertAmount(t, "NetAPayer", tot.NetAPayer, "990")
}

func TestSummarizeVATBreakdown(t *testing.T) {
	calc := NewCalculator(DefaultRetentionRate)
	tot := calc.Summarize(situation(false, "0",
		line("a", "1000", "20", "0", "50"),
		line("b", "200", "5.5", "0", "100"),
		line("c", "400", "20", "0", "25"),
	))

	if len(tot.VentilationTVA) != 2 {
		t.Fatalf("expected 2 VAT rates, got %d", len(tot.VentilationTVA))
	}
	low, high := tot.VentilationTVA[0], tot.VentilationTVA[1]
	assertAmount(t, "low rate", low.Taux, "5.5")
	assertAmount(t, "low base", low.BaseHT, "200")
	assertAmount(t, "low VAT", low.MontantTVA, "11")
	assertAmount(t, "high rate", high.Taux, "20")
	assertAmount(t, "high base", high.BaseHT, "600")
	assertAmount(t, "high VAT", high.MontantTVA, "120")
	assertAmount(t, "TotalTVA", tot.TotalTVA, "131")
	assertAmount(t, "MarcheHT", tot.MarcheHT, "1600")
	assertAmount(t, "CumulHT", tot.CumulHT, "800")
	assertAmount(t, "Avancement", tot.Avancement, "50")
}

func TestSummarizeEmptySituation(t *testing.T) {
	tot := NewCalculator(DefaultRetentionRate).Summarize(situation(true, "0"))
	assertAmount(t, "NetAPayer", tot.NetAPayer, "0")
	assertAmount(t, "Avancement", tot.Avancement, "0")
	if len(tot.VentilationTVA) != 0 {
		t.Fatalf("expected no VAT breakdown, got %d", len(tot.VentilationTVA))
	}
}

// Awkward totals billed in uneven steps still add up to the contract total
// within one cent per line.
func TestConservationAcrossChain(t *testing.T) {
	calc := NewCalculator(DefaultRetentionRate)
	totals := []string{"333.33", "1234.567", "99.99"}
	steps := []string{"0", "12.5", "33.333", "66.667", "87.1", "100"}

	sum := d("0")
	for i := 1; i < len(steps); i++ {
		var lines []model.SituationLine
		for j, total := range totals {
			lines = append(lines, line(string(rune('a'+j)), total, "20", steps[i-1], steps[i]))
		}
		sum = sum.Add(calc.Summarize(situation(false, "0", lines...)).MontantSituationHT)
	}

	contract := d("333.33").Add(d("1234.567")).Add(d("99.99"))
	tolerance := d("0.01").Mul(d("3"))
	if sum.Sub(contract).Abs().GreaterThan(tolerance) {
		t.Fatalf("sum of period HT %s drifts from contract total %s", sum, contract)
	}
}
