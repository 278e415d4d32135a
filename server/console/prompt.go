package console

import (
	"strings"

	prompt "github.com/c-bata/go-prompt"
)

func suggestions() []prompt.Suggest {
	s := make([]prompt.Suggest, 0, len(commandHelps)+1)
	for _, h := range commandHelps {
		s = append(s, prompt.Suggest{Text: h.name, Description: h.help})
	}
	return append(s, prompt.Suggest{Text: "q", Description: "Quit server"})
}

// Complete suggests command names for the first word only.
func (c *Console) Complete(d prompt.Document) []prompt.Suggest {
	before := d.TextBeforeCursor()
	if strings.Contains(before, " ") {
		return []prompt.Suggest{}
	}
	return prompt.FilterHasPrefix(suggestions(), d.GetWordBeforeCursor(), true)
}

// RunInteractive drives the console from a terminal with completion until the
// operator quits.
func (c *Console) RunInteractive() {
	quit := false
	p := prompt.New(
		func(line string) {
			quit = c.Execute(line)
		},
		c.Complete,
		prompt.OptionTitle("arenad"),
		prompt.OptionPrefix("arena> "),
		prompt.OptionSetExitCheckerOnInput(func(string, bool) bool { return quit }),
	)
	p.Run()
}
