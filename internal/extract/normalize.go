package extract

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/finknottle/vc-events-collector/internal/event"
	"github.com/finknottle/vc-events-collector/internal/hash/stable"
)

// recordFromNode maps one qualifying JSON-LD node onto the canonical record.
// The vocabulary is externally defined and only partially adopted by each
// site, so every field is validated on read from the untyped map.
func recordFromNode(node map[string]any, prov Provenance) (event.Record, bool) {
	if !isEventNode(node) {
		return event.Record{}, false
	}

	title := pickString(node, "name", "headline")
	start := optString(stringOf(node["startDate"]))
	end := optString(stringOf(node["endDate"]))
	location := locationFrom(node["location"])
	rsvp := rsvpFrom(node)
	price := priceFromOffers(node["offers"])

	idTitle := title
	if idTitle == "" && rsvp != nil {
		idTitle = *rsvp
	}
	if idTitle == "" {
		idTitle = prov.SourceURL
	}
	startKey := ""
	if start != nil {
		startKey = *start
	}
	id := stable.ID(prov.SourceName, idTitle, startKey)

	if title == "" {
		title = event.UntitledTitle
	}
	title = truncateTitle(title)

	return event.Record{
		ID:         id,
		Title:      title,
		Start:      start,
		End:        end,
		Timezone:   event.DefaultTimezone,
		Location:   location,
		Price:      price,
		Region:     "unknown",
		RSVPURL:    rsvp,
		SourceName: prov.SourceName,
		SourceURL:  prov.SourceURL,
		Tags:       []string{},
	}, true
}

// locationFrom builds the free-text location: a venue name joined to a
// structured-address summary with an em-dash when both are present.
func locationFrom(v any) string {
	switch loc := v.(type) {
	case string:
		return loc
	case map[string]any:
		location := stringOf(loc["name"])
		addr := addressText(loc["address"])
		if addr != "" {
			if location != "" {
				location += " — " + addr
			} else {
				location = addr
			}
		}
		return location
	default:
		return ""
	}
}

func addressText(v any) string {
	switch addr := v.(type) {
	case string:
		return addr
	case map[string]any:
		parts := make([]string, 0, 3)
		for _, key := range []string{"streetAddress", "addressLocality", "addressRegion"} {
			if s := stringOf(addr[key]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// rsvpFrom picks the RSVP URL from the fallback chain: the node's own url,
// then the offer url, then the main-entity url.
func rsvpFrom(node map[string]any) *string {
	if u := stringOf(node["url"]); u != "" {
		return &u
	}
	if offers, ok := node["offers"].(map[string]any); ok {
		if u := stringOf(offers["url"]); u != "" {
			return &u
		}
	}
	if entity, ok := node["mainEntityOfPage"].(map[string]any); ok {
		if u := stringOf(entity["url"]); u != "" {
			return &u
		}
	}
	return nil
}

// priceFromOffers derives the display price from an offers node: zero means
// free, a currency prefixes the amount, a bare amount stands alone, and no
// offers means no price at all.
func priceFromOffers(v any) *string {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		v = list[0]
	}
	offer, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	price, present := offer["price"]
	if !present || price == nil {
		return nil
	}

	amount := numericText(price)
	if amount == "" {
		return nil
	}
	if amount == "0" {
		return optString("Free")
	}
	if currency := stringOf(offer["priceCurrency"]); currency != "" {
		return optString(currency + amount)
	}
	return optString(amount)
}

// numericText renders a JSON number or string price without a trailing
// ".0" for whole amounts.
func numericText(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case string:
		return strings.TrimSpace(n)
	default:
		return ""
	}
}

// truncateTitle caps the title length without splitting a multi-byte rune,
// which would leave invalid UTF-8 in the dataset.
func truncateTitle(s string) string {
	if len(s) <= event.MaxTitleLen {
		return s
	}
	cut := event.MaxTitleLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// pickString returns the first non-empty string value among keys.
func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringOf(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func stringOf(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
