package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/finknottle/vc-events-collector/internal/event"
)

// Structured parses every embedded JSON-LD block in html and returns the
// qualifying event nodes as canonical records, deduplicated by ID. Malformed
// blocks are skipped silently; an empty result means the caller should fall
// back to heuristic extraction. Structured never fails.
func Structured(html string, prov Provenance) []event.Record {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var out []event.Record
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := sel.Text()
		if strings.TrimSpace(raw) == "" {
			return
		}
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			// Malformed markup is common in the wild; never abort extraction.
			return
		}
		for _, node := range flattenNodes(parsed) {
			if rec, ok := recordFromNode(node, prov); ok {
				out = append(out, rec)
			}
		}
	})

	return event.Dedup(out)
}

// flattenNodes accepts the three block shapes seen in practice: a single
// object, an array of objects, and an object wrapping a @graph array.
func flattenNodes(parsed any) []map[string]any {
	switch v := parsed.(type) {
	case []any:
		nodes := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				nodes = append(nodes, m)
			}
		}
		return nodes
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			nodes := make([]map[string]any, 0, len(graph))
			for _, item := range graph {
				if m, ok := item.(map[string]any); ok {
					nodes = append(nodes, m)
				}
			}
			return nodes
		}
		return []map[string]any{v}
	default:
		return nil
	}
}

// isEventNode checks the @type tag, which may be a single value or a list.
// Substring matching keeps the extractor tolerant of custom and compound
// vocabularies ("BusinessEvent", "educationEvent") instead of an allowlist.
func isEventNode(node map[string]any) bool {
	var types []any
	switch t := node["@type"].(type) {
	case []any:
		types = t
	default:
		types = []any{t}
	}
	for _, t := range types {
		s, ok := t.(string)
		if ok && strings.Contains(strings.ToLower(s), "event") {
			return true
		}
	}
	return false
}
