package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupLastWriteWinsPreservesFirstSeenOrder(t *testing.T) {
	records := []Record{
		{ID: "a", Title: "first a"},
		{ID: "b", Title: "first b"},
		{ID: "a", Title: "second a"},
	}

	out := Dedup(records)

	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "second a", out[0].Title, "later record should overwrite the earlier one")
	assert.Equal(t, "b", out[1].ID)
}

func TestDedupEmpty(t *testing.T) {
	out := Dedup(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestPatchProvenance(t *testing.T) {
	existing := "https://lu.ma/rsvp"

	tests := []struct {
		name     string
		rsvp     *string
		wantRSVP string
	}{
		{name: "fills missing rsvp", rsvp: nil, wantRSVP: "https://lu.ma/abc"},
		{name: "keeps explicit rsvp", rsvp: &existing, wantRSVP: existing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Record{RSVPURL: tt.rsvp, SourceURL: "https://lu.ma/calendar"}
			r.PatchProvenance("https://lu.ma/abc")

			assert.Equal(t, "https://lu.ma/abc", r.SourceURL)
			require.NotNil(t, r.RSVPURL)
			assert.Equal(t, tt.wantRSVP, *r.RSVPURL)
		})
	}
}

func TestAddTagIsIdempotent(t *testing.T) {
	r := Record{}
	r.AddTag(TagFromX)
	r.AddTag(TagFromX)
	assert.Equal(t, []string{TagFromX}, r.Tags)
}

func TestKindKnown(t *testing.T) {
	for _, k := range []SourceKind{KindHTML, KindLumaCalendar, KindLumaEvent, KindEventbriteListing, KindXAccount} {
		assert.True(t, k.Known(), "kind %s", k)
	}
	assert.False(t, SourceKind("rss").Known())
}
