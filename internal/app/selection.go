package app

import (
	"github.com/jaminalder/codex-peg-jump/internal/domain"
	"github.com/jaminalder/codex-peg-jump/internal/i18n"
)

// Click handles a click on slot the way the board UI expects:
//   - a piece with nothing selected becomes the selection;
//   - the selected piece again clears the selection;
//   - another piece moves the selection there;
//   - the empty slot with a selection attempts the move.
//
// A rejected move clears the selection and sets an error notice.
func (s *Service) Click(id string, slot int) (*GameState, error) {
	return s.mutate(id, func(g *game) error {
		g.Notice = Notice{}
		if slot < 0 || slot >= domain.Size {
			err := &domain.InvalidMoveError{From: g.Selected, To: slot, Reason: domain.ErrOutOfBounds}
			g.Selected = NoSelection
			g.Notice = Notice{Kind: NoticeError, Key: i18n.MsgOutOfBoundsMove}
			return err
		}
		if g.Puzzle.Board[slot] != domain.Empty {
			if g.Selected == slot {
				g.Selected = NoSelection
			} else {
				g.Selected = slot
			}
			return nil
		}
		if g.Selected == NoSelection {
			return nil
		}
		from := g.Selected
		g.Selected = NoSelection
		return s.applyLocked(g, from, slot)
	})
}
