package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

func promptString(label, current string, required bool) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   current,
		AllowEdit: true,
	}
	if required {
		prompt.Validate = func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("required")
			}
			return nil
		}
	}
	return prompt.Run()
}

func promptSelect(label string, items []string, current string) (string, error) {
	pos := 0
	for i, item := range items {
		if item == current {
			pos = i
			break
		}
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: pos,
		Size:      len(items),
	}
	_, choice, err := prompt.Run()
	return choice, err
}

func promptBool(label string, current bool) (bool, error) {
	cur := PromptNo
	if current {
		cur = PromptYes
	}
	choice, err := promptSelect(label, []string{PromptYes, PromptNo}, cur)
	return choice == PromptYes, err
}

func confirm(label string) (bool, error) {
	return promptBool(label, false)
}

// promptFloat reads an optional non-negative number; empty input is nil.
func promptFloat(label string, current *float64) (*float64, error) {
	def := ""
	if current != nil {
		def = strconv.FormatFloat(*current, 'f', -1, 64)
	}

	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Validate: func(s string) error {
			_, err := parseOptionalFloat(s)
			return err
		},
	}
	raw, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	return parseOptionalFloat(raw)
}

func promptInt(label string, current *int) (*int, error) {
	def := ""
	if current != nil {
		def = strconv.Itoa(*current)
	}

	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Validate: func(s string) error {
			_, err := parseOptionalInt(s)
			return err
		},
	}
	raw, err := prompt.Run()
	if err != nil {
		return nil, err
	}
	return parseOptionalInt(raw)
}

func promptDate(label, current string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label + " (YYYY-MM-DD, empty for none)",
		Default:   current,
		AllowEdit: true,
		Validate: func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil
			}
			_, err := time.Parse(time.DateOnly, s)
			return err
		},
	}
	raw, err := prompt.Run()
	return strings.TrimSpace(raw), err
}

func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	if v < 0 {
		return nil, errors.New("must not be negative")
	}
	return &v, nil
}

func parseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("not a whole number: %q", s)
	}
	if v < 0 {
		return nil, errors.New("must not be negative")
	}
	return &v, nil
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
