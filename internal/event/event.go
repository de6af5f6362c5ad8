// Package event defines the canonical record types shared across the
// collection pipeline.
package event

import "time"

// SourceKind selects the collection strategy for a source.
type SourceKind string

// Source kinds understood by the strategy registry.
const (
	KindHTML              SourceKind = "html"
	KindLumaCalendar      SourceKind = "luma_calendar"
	KindLumaEvent         SourceKind = "luma_event"
	KindEventbriteListing SourceKind = "eventbrite_listing"
	KindXAccount          SourceKind = "x_account"
)

// Known returns true for a kind the registry can dispatch.
func (k SourceKind) Known() bool {
	switch k {
	case KindHTML, KindLumaCalendar, KindLumaEvent, KindEventbriteListing, KindXAccount:
		return true
	}
	return false
}

// Source describes one entry of the externally supplied source registry.
// It is immutable for the duration of a run.
type Source struct {
	Name string     `json:"name" mapstructure:"name"`
	URL  string     `json:"url" mapstructure:"url"`
	Kind SourceKind `json:"kind" mapstructure:"kind"`
}

// Field defaults and caps applied during normalization.
const (
	// DefaultTimezone is stamped on every record; the pipeline does not
	// derive timezones from content.
	DefaultTimezone = "America/Los_Angeles"
	// UntitledTitle is the sentinel used when a page yields no usable name.
	UntitledTitle = "(untitled)"
	// MaxTitleLen bounds the title field.
	MaxTitleLen = 200
	// TagFromX marks records discovered through a social profile scan.
	TagFromX = "from_x"
)

// Record is the canonical, deduplicated unit of the dataset. Records are
// created inside one strategy invocation and never mutated afterward, except
// for the provenance fields patched right after extraction when a strategy
// knows the authoritative detail-page URL.
type Record struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Start      *string  `json:"start"`
	End        *string  `json:"end"`
	Timezone   string   `json:"timezone"`
	Location   string   `json:"location"`
	City       *string  `json:"city"`
	Price      *string  `json:"price"`
	Region     string   `json:"region"`
	RSVPURL    *string  `json:"rsvp_url"`
	SourceName string   `json:"source_name"`
	SourceURL  string   `json:"source_url"`
	Tags       []string `json:"tags"`
}

// PatchProvenance points the record at the detail page actually visited,
// filling the RSVP URL only when extraction left it empty.
func (r *Record) PatchProvenance(detailURL string) {
	if r.RSVPURL == nil && detailURL != "" {
		u := detailURL
		r.RSVPURL = &u
	}
	r.SourceURL = detailURL
}

// AddTag appends a tag if the record does not already carry it.
func (r *Record) AddTag(tag string) {
	for _, t := range r.Tags {
		if t == tag {
			return
		}
	}
	r.Tags = append(r.Tags, tag)
}

// SourceError records one failed source attempt.
type SourceError struct {
	Source string `json:"source"`
	URL    string `json:"url"`
	Error  string `json:"error"`
}

// Dataset is the wholesale output of one collection run.
type Dataset struct {
	GeneratedAt time.Time     `json:"generated_at"`
	RunID       string        `json:"run_id,omitempty"`
	Events      []Record      `json:"events"`
	Errors      []SourceError `json:"errors"`
}

// Dedup collapses records by ID, keeping insertion order of first sight while
// letting a later record with the same ID overwrite the earlier value
// (last-write-wins, matching the sequential registry order).
func Dedup(records []Record) []Record {
	index := make(map[string]int, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if i, seen := index[r.ID]; seen {
			out[i] = r
			continue
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}
