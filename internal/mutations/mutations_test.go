package mutations

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"billing-engine/internal/model"
)

func draft() *model.Situation {
	return &model.Situation{
		ID:     "s2",
		Numero: 2,
		Statut: model.StatusDraft,
		Date:   "2024-03-31",
		Lignes: []model.SituationLine{
			{LigneID: "a", TotalHT: decimal.NewFromInt(1000), CumulPrecedent: decimal.NewFromInt(30), CumulActuel: decimal.NewFromInt(30)},
		},
	}
}

func mutation(name, props string) *model.Mutation {
	m := &model.Mutation{MutationID: "m1", MutationDefinitionName: name}
	if props != "" {
		m.MutationProperties = json.RawMessage(props)
	}
	return m
}

func run(t *testing.T, state *model.Situation, m *model.Mutation) []model.CalculationMessage {
	t.Helper()
	h, ok := Get(m.MutationDefinitionName)
	if !ok {
		t.Fatalf("handler %s not registered", m.MutationDefinitionName)
	}
	msgs := h.Validate(state, m)
	if model.HasCritical(msgs) {
		return msgs
	}
	return append(msgs, h.Apply(state, m)...)
}

func codes(msgs []model.CalculationMessage) []string {
	var out []string
	for _, m := range msgs {
		out = append(out, m.Code)
	}
	return out
}

func TestUpdateLine(t *testing.T) {
	state := draft()
	msgs := run(t, state, mutation(UpdateLine, `{"ligneId":"a","percent":70}`))

	if len(msgs) != 0 {
		t.Fatalf("expected no messages, got %v", codes(msgs))
	}
	if !state.Lignes[0].CumulActuel.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected 70, got %s", state.Lignes[0].CumulActuel)
	}
}

func TestUpdateLineClampsAndWarns(t *testing.T) {
	state := draft()
	msgs := run(t, state, mutation(UpdateLine, `{"ligneId":"a","percent":"130"}`))

	if len(msgs) != 1 || msgs[0].Code != model.WarnPercentClamped || msgs[0].Level != model.LevelWarning {
		t.Fatalf("expected PERCENT_CLAMPED warning, got %v", codes(msgs))
	}
	if !state.Lignes[0].CumulActuel.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 100, got %s", state.Lignes[0].CumulActuel)
	}
}

func TestUpdateLineBelowPreviousWarns(t *testing.T) {
	state := draft()
	msgs := run(t, state, mutation(UpdateLine, `{"ligneId":"a","percent":10}`))

	if len(msgs) != 1 || msgs[0].Code != model.WarnCumulBelowPrevious {
		t.Fatalf("expected CUMUL_BELOW_PREVIOUS, got %v", codes(msgs))
	}
	if !state.Lignes[0].CumulActuel.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected 10 to be stored, got %s", state.Lignes[0].CumulActuel)
	}
}

func TestCriticalValidations(t *testing.T) {
	tests := []struct {
		name  string
		m     *model.Mutation
		state func() *model.Situation
		code  string
	}{
		{"unknown line", mutation(UpdateLine, `{"ligneId":"zz","percent":10}`), draft, "LINE_NOT_FOUND"},
		{"missing percent", mutation(UpdateLine, `{"ligneId":"a"}`), draft, "INVALID_MUTATION_PROPERTIES"},
		{"no properties", mutation(UpdateLine, ""), draft, "INVALID_MUTATION_PROPERTIES"},
		{"bad json", mutation(SetRetention, `{"enabled":"yes"}`), draft, "INVALID_MUTATION_PROPERTIES"},
		{"bad date", mutation(SetDate, `{"date":"31/03/2024"}`), draft, "INVALID_DATE"},
		{"missing amount", mutation(SetAdvances, `{}`), draft, "INVALID_MUTATION_PROPERTIES"},
		{"not a draft", mutation(SetRetention, `{"enabled":true}`), func() *model.Situation {
			s := draft()
			s.Statut = model.StatusValidated
			return s
		}, "SITUATION_NOT_DRAFT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.state()
			before := state.Clone()
			msgs := run(t, state, tt.m)
			if len(msgs) != 1 || msgs[0].Level != model.LevelCritical || msgs[0].Code != tt.code {
				t.Fatalf("expected CRITICAL %s, got %#v", tt.code, msgs)
			}
			if state.RetenueGarantie != before.RetenueGarantie || state.Date != before.Date ||
				!state.Lignes[0].CumulActuel.Equal(before.Lignes[0].CumulActuel) {
				t.Fatal("state changed despite a critical validation")
			}
		})
	}
}

func TestCompleteLine(t *testing.T) {
	state := draft()
	run(t, state, mutation(CompleteLine, `{"ligneId":"a"}`))
	if !state.Lignes[0].CumulActuel.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 100, got %s", state.Lignes[0].CumulActuel)
	}
}

func TestSetRetentionAdvancesAndDate(t *testing.T) {
	state := draft()
	run(t, state, mutation(SetRetention, `{"enabled":true}`))
	run(t, state, mutation(SetAdvances, `{"amount":50}`))
	run(t, state, mutation(SetDate, `{"date":"2024-04-30"}`))

	if !state.RetenueGarantie {
		t.Error("expected retention enabled")
	}
	if !state.AcomptesDeduits.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected advances 50, got %s", state.AcomptesDeduits)
	}
	if state.Date != "2024-04-30" {
		t.Errorf("expected date 2024-04-30, got %s", state.Date)
	}
}

func TestNegativeAdvancesWarnButApply(t *testing.T) {
	state := draft()
	msgs := run(t, state, mutation(SetAdvances, `{"amount":-20}`))
	if len(msgs) != 1 || msgs[0].Code != model.WarnNegativeAdvances || msgs[0].Level != model.LevelWarning {
		t.Fatalf("expected NEGATIVE_ADVANCES warning, got %v", codes(msgs))
	}
	if !state.AcomptesDeduits.Equal(decimal.NewFromInt(-20)) {
		t.Fatalf("expected -20, got %s", state.AcomptesDeduits)
	}
}

func TestRegistryUnknown(t *testing.T) {
	if _, ok := Get("create_invoice"); ok {
		t.Fatal("unexpected handler")
	}
}

func TestUpdateLineSharedIDNeedsContract(t *testing.T) {
	state := draft()
	state.Lignes[0].ContratNumero = "DEV-001"
	state.Lignes = append(state.Lignes, model.SituationLine{
		LigneID: "a", ContratNumero: "DEV-002", TotalHT: decimal.NewFromInt(200),
	})

	msgs := run(t, state, mutation(UpdateLine, `{"ligneId":"a","percent":50}`))
	if len(msgs) != 1 || msgs[0].Code != "LINE_AMBIGUOUS" {
		t.Fatalf("expected LINE_AMBIGUOUS, got %v", codes(msgs))
	}

	msgs = run(t, state, mutation(CompleteLine, `{"ligneId":"DEV-002:a"}`))
	if len(msgs) != 0 {
		t.Fatalf("expected no messages, got %v", codes(msgs))
	}
	if !state.Lignes[0].CumulActuel.Equal(decimal.NewFromInt(30)) || !state.Lignes[1].CumulActuel.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 30/100, got %s/%s", state.Lignes[0].CumulActuel, state.Lignes[1].CumulActuel)
	}
}
