// Package extract turns fetched HTML into canonical event records. The
// structured extractor reads embedded JSON-LD blocks; the heuristic extractor
// is the fallback line scan used when a page carries no structured data.
package extract

// Provenance names the source a page was fetched for. It is stamped on every
// record an extraction call produces.
type Provenance struct {
	SourceName string
	SourceURL  string
}
