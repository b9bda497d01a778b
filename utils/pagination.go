package utils

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// CreatePaginationComponents creates previous/next buttons for a paginated
// search result. Extra args are packed into the custom ID so the button
// handler can re-run the search with the same filters.
func CreatePaginationComponents(currentPage, totalPages int, customIDPrefix string, args ...string) []discordgo.MessageComponent {
	if totalPages <= 1 {
		return nil
	}

	buttonArgs := ""
	for _, arg := range args {
		buttonArgs += ":" + arg
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Style:    discordgo.PrimaryButton,
					Disabled: currentPage == 1,
					CustomID: fmt.Sprintf("%s:%d%s", customIDPrefix, currentPage-1, buttonArgs),
				},
				discordgo.Button{
					Label:    "Next",
					Style:    discordgo.PrimaryButton,
					Disabled: currentPage == totalPages,
					CustomID: fmt.Sprintf("%s:%d%s", customIDPrefix, currentPage+1, buttonArgs),
				},
			},
		},
	}
}
