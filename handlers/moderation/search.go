package moderation

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"sentinel-bot/bot"
	"sentinel-bot/moderation"
	moddiscord "sentinel-bot/moderation/discord"
	"sentinel-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// SearchCustomIDPrefix identifies pagination buttons of the infraction
// search. The page and the filters ride along in the custom ID so a button
// press can re-run the same query.
const SearchCustomIDPrefix = "inf_search"

// placeholder stands in for an empty filter inside a custom ID, where empty
// segments would be ambiguous.
const placeholder = "-"

func packFilter(v string) string {
	if v == "" {
		return placeholder
	}
	return v
}

func unpackFilter(v string) string {
	if v == placeholder {
		return ""
	}
	return v
}

// normalizeUserRef accepts a mention or raw ID filter value.
func normalizeUserRef(ref string) string {
	if ref == "" {
		return ""
	}
	if id, ok := moddiscord.ParseUserRef(ref); ok {
		return id
	}
	return ref
}

// HandleSearch processes the /search-infractions command.
func HandleSearch(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	opts := optionMap(i)

	filters := moderation.Filters{
		UserID:      normalizeUserRef(stringOption(opts, "user")),
		ModeratorID: normalizeUserRef(stringOption(opts, "moderator")),
		Type:        stringOption(opts, "type"),
	}
	if opt, ok := opts["no-automod"]; ok {
		filters.ExcludeAutomated = opt.BoolValue()
	}
	page := 1
	if opt, ok := opts["page"]; ok {
		page = int(opt.IntValue())
	}

	if filters.UserID == "" && filters.ModeratorID == "" {
		utils.SendErrorResponse(s, i, "Please specify a user or moderator")
		return
	}

	respondSearch(s, i, b, filters, page)
}

// HandleSearchPage processes a press on one of the search pagination buttons.
// The custom ID carries "inf_search:<page>:<user>:<moderator>:<type>:<automod>".
func HandleSearchPage(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	parts := strings.Split(i.MessageComponentData().CustomID, ":")
	if len(parts) != 6 {
		log.Printf("Malformed search pagination custom ID: %s", i.MessageComponentData().CustomID)
		return
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		page = 1
	}
	filters := moderation.Filters{
		UserID:           unpackFilter(parts[2]),
		ModeratorID:      unpackFilter(parts[3]),
		Type:             unpackFilter(parts[4]),
		ExcludeAutomated: parts[5] == "1",
	}

	result, err := moderation.SearchInfractions(b.GetDB(), b.GetConfig().AppID, i.GuildID, filters, page)
	if err != nil {
		log.Printf("Error searching infractions for pagination: %v", err)
		return
	}

	content := renderSearchResult(result)
	components := searchComponents(result, filters)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		log.Printf("Error updating search page: %v", err)
	}
}

func respondSearch(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, filters moderation.Filters, page int) {
	result, err := moderation.SearchInfractions(b.GetDB(), b.GetConfig().AppID, i.GuildID, filters, page)
	if err != nil {
		utils.SendErrorResponse(s, i, "Database error, please try again later")
		return
	}
	if result.TotalMatches == 0 {
		utils.SendErrorResponse(s, i, "No infractions found")
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    renderSearchResult(result),
			Components: searchComponents(result, filters),
		},
	})
	if err != nil {
		log.Printf("Error sending search response: %v", err)
	}
}

func searchComponents(result *moderation.SearchResult, filters moderation.Filters) []discordgo.MessageComponent {
	automod := "0"
	if filters.ExcludeAutomated {
		automod = "1"
	}
	return utils.CreatePaginationComponents(result.Page, result.TotalPages, SearchCustomIDPrefix,
		packFilter(filters.UserID), packFilter(filters.ModeratorID), packFilter(filters.Type), automod)
}

func renderSearchResult(result *moderation.SearchResult) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Page %d of %d (%d infractions)\n", result.Page, result.TotalPages, result.TotalMatches))
	builder.WriteString("```css\nID, Type, Reason\n")
	for _, line := range result.Lines {
		builder.WriteString(line)
		builder.WriteString("\n")
	}
	builder.WriteString("```")
	return builder.String()
}
