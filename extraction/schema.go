package extraction

import (
	"encoding/json"
	"strings"

	"github.com/poiesic/vitae/core"
)

type wireProfile struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Institution string `json:"institution"`
	Website     string `json:"website"`
}

type wireEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	URL         string `json:"url"`
	ExternalID  string `json:"external_id"`
	SecondaryID string `json:"secondary_id"`
}

type wireCategory struct {
	Name    string      `json:"name"`
	Entries []wireEntry `json:"entries"`
}

type wireResponse struct {
	Profile    *wireProfile   `json:"profile"`
	Categories []wireCategory `json:"categories"`
}

// parseResponse turns raw model output into a validated Extraction.
// A syntax error or a field of the wrong type is an error; a well-formed
// object without categories is an empty extraction.
func parseResponse(raw string) (*core.Extraction, error) {
	text := repairJSON(stripFences(raw))
	var resp wireResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, err
	}
	return validate(&resp), nil
}

func validate(resp *wireResponse) *core.Extraction {
	result := &core.Extraction{}
	for _, wc := range resp.Categories {
		name := strings.TrimSpace(wc.Name)
		if name == "" {
			continue
		}
		category := core.ExtractedCategory{Name: name}
		for _, we := range wc.Entries {
			title := strings.TrimSpace(we.Title)
			if title == "" {
				continue
			}
			category.Entries = append(category.Entries, core.ExtractedEntry{
				Title:       title,
				Description: strings.TrimSpace(we.Description),
				RawDateText: strings.TrimSpace(we.Date),
				Location:    strings.TrimSpace(we.Location),
				URL:         strings.TrimSpace(we.URL),
				ExternalID:  strings.TrimSpace(we.ExternalID),
				SecondaryID: strings.TrimSpace(we.SecondaryID),
			})
		}
		if len(category.Entries) > 0 {
			result.Categories = append(result.Categories, category)
		}
	}
	if resp.Profile != nil {
		profile := &core.ExtractedProfile{
			Name:        strings.TrimSpace(resp.Profile.Name),
			Phone:       strings.TrimSpace(resp.Profile.Phone),
			Address:     strings.TrimSpace(resp.Profile.Address),
			Institution: strings.TrimSpace(resp.Profile.Institution),
			Website:     strings.TrimSpace(resp.Profile.Website),
		}
		if !profile.IsEmpty() {
			result.Profile = profile
		}
	}
	return result
}
