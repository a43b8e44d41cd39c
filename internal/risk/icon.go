package risk

import "strings"

const IconDefault = "rainbow"

// iconKeywords are matched in order; the first keyword found in the description wins.
var iconKeywords = []struct {
	keyword string
	icon    string
}{
	{"rain", "rain"},
	{"cloud", "cloud"},
	{"clear", "clear"},
	{"snow", "snow"},
	{"wind", "wind"},
	{"storm", "storm"},
}

// IconFor maps a free-text weather description to a dashboard icon key.
func IconFor(description string) string {
	desc := strings.ToLower(description)
	for _, k := range iconKeywords {
		if strings.Contains(desc, k.keyword) {
			return k.icon
		}
	}
	return IconDefault
}
