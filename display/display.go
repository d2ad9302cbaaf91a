package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Shown in place of values that are missing or not yet measured.
const Placeholder = "-"

// Card title style for text output. Colors are disabled automatically when
// stdout is not a terminal.
var titleColor = color.New(color.Bold, color.FgCyan)

// A labeled value.
type Item struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// A titled group of items. Items keep their insertion order.
type Card struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Create a card. Empty item values are replaced with the placeholder.
func NewCard(title string, items ...Item) Card {
	card := Card{Title: title, Items: make([]Item, 0, len(items))}
	for _, item := range items {
		card.Add(item.Label, item.Value)
	}
	return card
}

// Append an item to the card. An empty value is replaced with the placeholder.
func (c *Card) Add(label, value string) {
	c.Items = append(c.Items, Item{Label: label, Value: Value(value)})
}

// Lookup an item value by label.
func (c Card) Get(label string) (string, bool) {
	for _, item := range c.Items {
		if item.Label == label {
			return item.Value, true
		}
	}
	return "", false
}

// Return v or the placeholder if v is empty.
func Value(v string) string {
	if v == "" {
		return Placeholder
	}
	return v
}

// Format a duration expressed in milliseconds with two decimals.
func Millis(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Render each card as a two column table.
func Write(w io.Writer, cards ...Card) error {
	for index, card := range cards {
		if index > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}

		if _, err := titleColor.Fprintln(w, card.Title); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
		for _, item := range card.Items {
			table.Append([]string{item.Label, Value(item.Value)})
		}
		table.Render()
	}
	return nil
}
