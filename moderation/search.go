package moderation

import (
	"sort"
	"strings"

	"sentinel-bot/model"
	infractions_db "sentinel-bot/utils/database/infractions"

	"github.com/jmoiron/sqlx"
)

// pageBudget bounds the rendered size of one result page. It leaves headroom
// under the 2000-character platform message limit for the page header.
const pageBudget = 1900

// automodTag marks infractions issued by automated rules regardless of which
// account recorded them.
const automodTag = "[AUTOMOD]"

// Filters narrows an infraction search. All supplied filters apply
// conjunctively.
type Filters struct {
	UserID           string
	ModeratorID      string
	Type             string
	ExcludeAutomated bool
}

// SearchResult is one page of formatted infraction lines.
type SearchResult struct {
	Lines        []string
	Page         int // 1-based
	TotalPages   int
	TotalMatches int
}

// SearchInfractions filters a guild's infraction history, sorts it newest
// first, and returns the requested page. Pages pack whole lines greedily up
// to the size budget; a line too large for the budget still gets a page of
// its own rather than being split or dropped. An out-of-range page request
// falls back to the first page.
func SearchInfractions(db *sqlx.DB, botUserID, guildID string, filters Filters, page int) (*SearchResult, error) {
	var records []model.Infraction
	var err error
	switch {
	case filters.UserID != "":
		records, err = infractions_db.GetUserInfractions(db, guildID, filters.UserID)
	case filters.ModeratorID != "":
		records, err = infractions_db.GetModeratorInfractions(db, guildID, filters.ModeratorID)
	default:
		records, err = infractions_db.GetGuildInfractions(db, guildID)
	}
	if err != nil {
		return nil, err
	}

	matched := records[:0]
	for _, record := range records {
		if filters.UserID != "" && record.UserID != filters.UserID {
			continue
		}
		if filters.ModeratorID != "" && record.ModeratorID != filters.ModeratorID {
			continue
		}
		if filters.Type != "" && record.Type != filters.Type {
			continue
		}
		if filters.ExcludeAutomated && (record.ModeratorID == botUserID || strings.Contains(record.Reason, automodTag)) {
			continue
		}
		matched = append(matched, record)
	}

	// Newest first; ID as a tiebreak keeps page contents stable.
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Timestamp != matched[j].Timestamp {
			return matched[i].Timestamp > matched[j].Timestamp
		}
		return matched[i].InfractionID > matched[j].InfractionID
	})

	pages := packPages(matched)
	if page < 1 || page > len(pages) {
		page = 1
	}

	result := &SearchResult{
		Page:         page,
		TotalPages:   len(pages),
		TotalMatches: len(matched),
	}
	if len(pages) > 0 {
		result.Lines = pages[page-1]
	}
	return result, nil
}

// FormatLine renders one infraction as a search result line.
func FormatLine(record model.Infraction) string {
	return record.InfractionID + ", " + record.Type + ", " + record.Reason
}

// packPages greedily packs rendered lines into pages bounded by pageBudget.
// Every line lands on exactly one page.
func packPages(records []model.Infraction) [][]string {
	var pages [][]string
	var current []string
	size := 0
	for _, record := range records {
		line := FormatLine(record)
		cost := len(line) + 1 // trailing newline
		if len(current) > 0 && size+cost > pageBudget {
			pages = append(pages, current)
			current = nil
			size = 0
		}
		current = append(current, line)
		size += cost
	}
	if len(current) > 0 {
		pages = append(pages, current)
	}
	return pages
}
