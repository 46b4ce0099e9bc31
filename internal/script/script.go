// Package script loads solution scripts from YAML.
package script

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jaminalder/codex-peg-jump/internal/domain"
	"gopkg.in/yaml.v2"
)

//go:embed solution.yaml
var embedded []byte

// ErrEmpty is returned for a script without steps.
var ErrEmpty = errors.New("script has no steps")

type rawStep struct {
	Type string `yaml:"type"`
	From *int   `yaml:"from"`
	To   *int   `yaml:"to"`
}

type rawScript struct {
	Steps []rawStep `yaml:"steps"`
}

// Default returns the embedded reference solution.
func Default() domain.Script {
	s, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("embedded solution script is invalid: %v", err))
	}
	return s
}

// Load reads a script from path, or returns Default when path is empty.
func Load(path string) (domain.Script, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and checks a YAML script. Steps are only checked in
// isolation; whether they solve the puzzle is left to replay.
func Parse(data []byte) (domain.Script, error) {
	var raw rawScript
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(raw.Steps) == 0 {
		return nil, ErrEmpty
	}
	out := make(domain.Script, 0, len(raw.Steps))
	for i, rs := range raw.Steps {
		st, err := convert(rs)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		out = append(out, st)
	}
	return out, nil
}

func convert(rs rawStep) (domain.Step, error) {
	if rs.From == nil || rs.To == nil {
		return domain.Step{}, errors.New("from and to are required")
	}
	from, to := *rs.From, *rs.To
	if from < 0 || from >= domain.Size || to < 0 || to >= domain.Size {
		return domain.Step{}, fmt.Errorf("index out of range: from=%d to=%d", from, to)
	}
	dist := from - to
	if dist < 0 {
		dist = -dist
	}
	var kind domain.MoveKind
	switch strings.ToLower(strings.TrimSpace(rs.Type)) {
	case "move", "slide":
		kind = domain.Slide
		if dist != 1 {
			return domain.Step{}, fmt.Errorf("move must cover one slot, got %d", dist)
		}
	case "jump":
		kind = domain.Jump
		if dist != 2 {
			return domain.Step{}, fmt.Errorf("jump must cover two slots, got %d", dist)
		}
	case "":
		if dist == 1 {
			kind = domain.Slide
		} else if dist == 2 {
			kind = domain.Jump
		} else {
			return domain.Step{}, fmt.Errorf("distance %d is neither a move nor a jump", dist)
		}
	default:
		return domain.Step{}, fmt.Errorf("unknown step type %q", rs.Type)
	}
	return domain.Step{Kind: kind, From: from, To: to}, nil
}
