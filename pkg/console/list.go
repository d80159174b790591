package console

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// ListItem is one selectable entry in an interactive list.
type ListItem struct {
	Title       string
	Description string
	Value       string
}

// NewListItem creates a list item with a display title, an optional
// description, and the value returned on selection.
func NewListItem(title, description, value string) ListItem {
	return ListItem{Title: title, Description: description, Value: value}
}

// ShowInteractiveList prompts the user to pick one item and returns its
// value. Accessible mode switches to a numbered prompt.
func ShowInteractiveList(title string, items []ListItem) (string, error) {
	if len(items) == 0 {
		return "", fmt.Errorf("no items to select from")
	}

	options := make([]huh.Option[string], len(items))
	for i, item := range items {
		label := item.Title
		if item.Description != "" {
			label = fmt.Sprintf("%s (%s)", item.Title, item.Description)
		}
		options[i] = huh.NewOption(label, item.Value)
	}

	var selected string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(options...).
				Value(&selected),
		),
	).WithAccessible(IsAccessibleMode())

	if err := form.Run(); err != nil {
		return "", err
	}
	return selected, nil
}
