package picker

import (
	"github.com/charmbracelet/huh"

	"github.com/AmbitiousRealism2025/Atreides-sub000/internal/errors"
)

// Confirm asks a yes/no question. Escaping the prompt returns
// errors.ErrAborted.
func Confirm(title, description string) (bool, error) {
	var ok bool
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok)
	if description != "" {
		field = field.Description(description)
	}

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, errors.ErrAborted
		}
		return false, err
	}
	return ok, nil
}
