// Package i18n holds the user-facing puzzle messages in every supported
// language.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	MsgInvalidMove     = "Invalid move. Try again."
	MsgSolved          = "Congratulations! You solved the puzzle!"
	MsgRunning         = "Running the solution..."
	MsgScriptAborted   = "Solution failed: invalid move at step %d (from %d to %d)."
	MsgScriptSolved    = "The proposed solution solved the puzzle!"
	MsgScriptUnsolved  = "The solution finished, but the puzzle was not solved."
	MsgReplayStopped   = "Replay interrupted."
	MsgNotFound        = "Puzzle not found."
	MsgUnknownRequest  = "Unknown request type %q."
	MsgBadRequest      = "Malformed request."
	MsgTitle           = "Frogs and Toads"
	MsgNewPuzzle       = "New puzzle"
	MsgReset           = "Reset"
	MsgRunSolution     = "Run solution"
	MsgMovesCount      = "Moves: %d"
	MsgInstructions    = "Swap the black and white pieces. Slide into the empty slot or jump over one piece of the other colour."
	MsgSelectedSlot    = "Selected slot %d"
	MsgOutOfBoundsMove = "That slot does not exist."
)

var (
	english   = language.English
	brazilian = language.BrazilianPortuguese

	supported = []language.Tag{english, brazilian}
	matcher   = language.NewMatcher(supported)
)

var ptBR = map[string]string{
	MsgInvalidMove:     "Movimento inválido. Tente novamente.",
	MsgSolved:          "Parabéns! Você resolveu o problema!",
	MsgRunning:         "Executando a solução...",
	MsgScriptAborted:   "Falha na solução: Movimento inválido na etapa %d (de %d para %d).",
	MsgScriptSolved:    "A solução proposta resolveu o problema!",
	MsgScriptUnsolved:  "A execução da solução terminou, mas o problema não foi resolvido.",
	MsgReplayStopped:   "Execução interrompida.",
	MsgNotFound:        "Jogo não encontrado.",
	MsgUnknownRequest:  "Tipo de requisição desconhecido %q.",
	MsgBadRequest:      "Requisição malformada.",
	MsgTitle:           "Sapos e Rãs",
	MsgNewPuzzle:       "Novo jogo",
	MsgReset:           "Reiniciar",
	MsgRunSolution:     "Executar solução",
	MsgMovesCount:      "Movimentos: %d",
	MsgInstructions:    "Troque as peças pretas e brancas. Deslize para o espaço vazio ou pule sobre uma peça da outra cor.",
	MsgSelectedSlot:    "Espaço %d selecionado",
	MsgOutOfBoundsMove: "Esse espaço não existe.",
}

func init() {
	for key, text := range ptBR {
		if err := message.SetString(brazilian, key, text); err != nil {
			panic(err)
		}
	}
}

// Match picks the best supported language for an Accept-Language header or
// a plain tag such as "pt-BR". fallback is used when nothing matches.
func Match(accept, fallback string) language.Tag {
	if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
		if _, idx, conf := matcher.Match(tags...); conf > language.No {
			return supported[idx]
		}
	}
	if fb, err := language.Parse(strings.TrimSpace(fallback)); err == nil {
		if _, idx, conf := matcher.Match(fb); conf > language.No {
			return supported[idx]
		}
	}
	return english
}

// Printer returns a printer for tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Supported lists the languages with a catalog.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}
