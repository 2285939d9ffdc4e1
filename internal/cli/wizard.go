package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/form"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// sprintboardHuhTheme returns a custom huh theme using the Gruvbox palette.
func sprintboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// formValues holds the inputs of an entity form next to the values the
// form started with, so only edited fields are written back.
type formValues struct {
	initial map[string]string
	current map[string]*string
	order   []string
}

// entityForm builds one input per field of k, seeded from draft. Inputs
// reject values the field cannot hold; required fields are checked when
// the draft is submitted.
func entityForm[T domain.Record[T]](k kind[T], draft T, adding bool) (*huh.Form, formValues) {
	vals := formValues{initial: map[string]string{}, current: map[string]*string{}}
	fields := make([]huh.Field, 0, len(k.fields))

	for _, spec := range k.fields {
		if spec.addOnly && !adding {
			continue
		}
		v := draft.Field(spec.field)
		vals.initial[spec.field] = v
		vals.current[spec.field] = &v
		vals.order = append(vals.order, spec.field)

		title := spec.title
		if slices.Contains(k.required, spec.field) || (adding && spec.addOnly) {
			title += " *"
		}

		if len(spec.options) > 0 {
			opts := huh.NewOptions(spec.options...)
			if !slices.Contains(spec.options, v) {
				label := v
				if label == "" {
					label = "--"
				}
				opts = append([]huh.Option[string]{huh.NewOption(label, v)}, opts...)
			}
			fields = append(fields, huh.NewSelect[string]().Title(title).Options(opts...).Value(&v))
			continue
		}

		field := spec.field
		fields = append(fields, huh.NewInput().Title(title).Value(&v).Validate(func(s string) error {
			_, err := draft.WithField(field, s)
			return err
		}))
	}

	f := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(sprintboardHuhTheme()).
		WithShowHelp(false)
	return f, vals
}

// applyFormValues writes every edited input into the session's draft.
func applyFormValues[T domain.Record[T]](vals formValues, sess *form.Session[T]) error {
	for _, name := range vals.order {
		v := *vals.current[name]
		if v == vals.initial[name] {
			continue
		}
		if err := sess.SetField(name, v); err != nil {
			return err
		}
	}
	return nil
}
