package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"deckgen/internal/deck"
	"deckgen/internal/theme"
)

func runListThemes(w io.Writer) error {
	reg, err := theme.DefaultRegistry()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, titleStyle.Render("Available themes"))
	for _, t := range reg.Themes() {
		name := t.DisplayName()
		if t.Name == reg.DefaultName() {
			name += labelStyle.Render(" (default)")
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, indentStyle.Render(nameStyle.Render(name)))
		fmt.Fprintln(w, indentStyle.Render(t.Description))
		if bf := t.BestFor(); bf != "" {
			fmt.Fprintln(w, indentStyle.Render(field("Best for", bf)))
		}
	}
	return nil
}

func runThemeInfo(args []string, w io.Writer) error {
	if len(args) != 1 {
		return errors.New("usage: deckgen theme-info <name>")
	}
	reg, err := theme.DefaultRegistry()
	if err != nil {
		return err
	}
	t, err := reg.Resolve(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(w, titleStyle.Render(t.DisplayName()))
	fmt.Fprintln(w, t.Description)
	fmt.Fprintln(w)
	fmt.Fprintln(w, field("Affinity", string(t.Affinity)))
	fmt.Fprintln(w, field("Best for", t.BestFor()))
	fmt.Fprintln(w, field("Audience", strings.Join(t.Triggers.Audience, ", ")))

	fmt.Fprintln(w)
	fmt.Fprintln(w, nameStyle.Render("Colors"))
	for _, kv := range [][2]string{
		{"background", t.Colors.Background},
		{"text", t.Colors.TextPrimary},
		{"secondary", t.Colors.TextSecondary},
		{"accent", t.Colors.Accent},
		{"cards", t.Colors.CardBg},
	} {
		fmt.Fprintln(w, indentStyle.Render(field(kv[0], kv[1])))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, nameStyle.Render("Typography"))
	fmt.Fprintln(w, indentStyle.Render(field("font", t.Typography.PrimaryFont)))
	fmt.Fprintln(w, indentStyle.Render(field("code", t.Typography.CodeFont)))
	fmt.Fprintln(w, indentStyle.Render(field("headline", fmt.Sprintf("%s / %d", t.Typography.HeadlineSize, t.Typography.HeadlineWeight))))

	fmt.Fprintln(w)
	fmt.Fprintln(w, nameStyle.Render("Image style"))
	fmt.Fprintln(w, indentStyle.Render(t.ImageStyle.Descriptor()))

	fmt.Fprintln(w)
	fmt.Fprintln(w, nameStyle.Render("Layouts"))
	for _, k := range deck.Kinds {
		key, _ := t.Layout(k)
		fmt.Fprintln(w, indentStyle.Render(field(string(k), key)))
	}
	return nil
}
