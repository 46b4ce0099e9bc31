package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		accept   string
		fallback string
		want     language.Tag
	}{
		{"pt-BR,pt;q=0.9,en;q=0.8", "en", language.BrazilianPortuguese},
		{"en-US,en;q=0.9", "pt-BR", language.English},
		{"", "pt-BR", language.BrazilianPortuguese},
		{"", "", language.English},
		{"not a tag;;", "en", language.English},
	}
	for _, tc := range cases {
		if got := Match(tc.accept, tc.fallback); got != tc.want {
			t.Fatalf("Match(%q, %q) = %v, want %v", tc.accept, tc.fallback, got, tc.want)
		}
	}
}

func TestPrinterTranslates(t *testing.T) {
	pt := Printer(language.BrazilianPortuguese)
	if got := pt.Sprintf(MsgScriptAborted, 3, 5, 0); got != "Falha na solução: Movimento inválido na etapa 3 (de 5 para 0)." {
		t.Fatalf("unexpected pt-BR text %q", got)
	}
	en := Printer(language.English)
	if got := en.Sprintf(MsgScriptAborted, 3, 5, 0); got != "Solution failed: invalid move at step 3 (from 5 to 0)." {
		t.Fatalf("unexpected en text %q", got)
	}
}

func TestEveryKeyHasTranslation(t *testing.T) {
	keys := []string{
		MsgInvalidMove, MsgSolved, MsgRunning, MsgScriptAborted, MsgScriptSolved,
		MsgScriptUnsolved, MsgReplayStopped, MsgNotFound, MsgUnknownRequest,
		MsgBadRequest, MsgTitle, MsgNewPuzzle, MsgReset, MsgRunSolution,
		MsgMovesCount, MsgInstructions, MsgSelectedSlot, MsgOutOfBoundsMove,
	}
	for _, k := range keys {
		if _, ok := ptBR[k]; !ok {
			t.Fatalf("missing pt-BR text for %q", k)
		}
	}
}
