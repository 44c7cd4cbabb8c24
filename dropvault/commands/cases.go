package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"

	"github.com/dropvault/dropvault/dropvault"
	"github.com/dropvault/dropvault/dropvault/ledger"
)

var Cases = discord.SlashCommandCreate{
	Name:        "cases",
	Description: "📦 Browse the case catalog",
}

// caseSearchItems implements fuzzy.Source over the catalog.
type caseSearchItems []ledger.CaseDefinition

func (c caseSearchItems) String(i int) string { return c[i].Name }
func (c caseSearchItems) Len() int            { return len(c) }

// findCase resolves user input to a case: exact ID first, then the best
// fuzzy match on names.
func findCase(b *dropvault.Bot, query string) (*ledger.CaseDefinition, bool) {
	if c, err := b.Ledger.Case(query); err == nil {
		return c, true
	}
	catalog := b.Ledger.Cases()
	matches := fuzzy.FindFrom(strings.ToLower(query), caseSearchItems(catalog))
	if len(matches) == 0 {
		return nil, false
	}
	return &catalog[matches[0].Index], true
}

func CasesHandler(b *dropvault.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		catalog := b.Ledger.Cases()
		if len(catalog) == 0 {
			return errorEmbed(e, "The catalog is empty.")
		}

		var description strings.Builder
		for _, c := range catalog {
			status := ""
			if !c.Enabled {
				status = " (disabled)"
			}
			fmt.Fprintf(&description, "**%s**%s - %d coins, %d items, +%d XP\n",
				c.Name, status, c.Price, len(c.Items), c.XPReward)
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "📦 Case Catalog",
				Description: description.String(),
				Color:       infoColor,
			}},
		})
	}
}

// CaseAutocompleteHandler suggests case names as the user types.
func CaseAutocompleteHandler(b *dropvault.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		query := e.Data.String("case")
		catalog := b.Ledger.Cases()

		var choices []discord.AutocompleteChoice
		add := func(c ledger.CaseDefinition) {
			choices = append(choices, discord.AutocompleteChoiceString{
				Name:  fmt.Sprintf("%s (%d coins)", c.Name, c.Price),
				Value: c.ID,
			})
		}
		if query == "" {
			for _, c := range catalog {
				if len(choices) >= 25 {
					break
				}
				add(c)
			}
		} else {
			for _, m := range fuzzy.FindFrom(strings.ToLower(query), caseSearchItems(catalog)) {
				if len(choices) >= 25 {
					break
				}
				add(catalog[m.Index])
			}
		}
		return e.AutocompleteResult(choices)
	}
}
