// Package gmail harvests candidate event URLs from an inbox. It is a
// parallel leaf pipeline: its links feed back into the web strategies as
// additional ad-hoc seeds.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"
	gmailapi "google.golang.org/api/gmail/v1"
)

// Caps applied to the harvest output.
const (
	maxHarvestLinks    = 100
	maxDebugCandidates = 10
)

// Config controls one harvest call.
type Config struct {
	CredentialsPath string
	TokenPath       string
	MaxMessages     int
	Query           string
	IncludeDebug    bool
}

func (c Config) withDefaults() Config {
	if c.MaxMessages <= 0 {
		c.MaxMessages = 50
	}
	if c.Query == "" {
		c.Query = "newer_than:30d"
	}
	return c
}

// MessageDebug records what one message contributed, for operator inspection.
type MessageDebug struct {
	ID         string   `json:"id"`
	Subject    string   `json:"subject"`
	From       string   `json:"from"`
	Candidates []string `json:"candidates"`
}

// Meta summarizes a harvest run.
type Meta struct {
	Enabled bool           `json:"enabled"`
	Scanned int            `json:"scanned"`
	Found   int            `json:"found"`
	Debug   []MessageDebug `json:"debug,omitempty"`
}

// Result is the harvest output.
type Result struct {
	Links []string `json:"links"`
	Meta  Meta     `json:"meta"`
}

// mailClient is the narrow mail-read capability the harvester consumes, kept
// small so tests run without the network.
type mailClient interface {
	ListMessageIDs(ctx context.Context, query string, maxResults int64) ([]string, error)
	GetMessage(ctx context.Context, id string) (*gmailapi.Message, error)
}

// Harvester walks inbox messages and collects event links.
type Harvester struct {
	cfg       Config
	logger    *zap.Logger
	newClient func(ctx context.Context, cfg Config) (mailClient, error)
}

// New builds a Harvester.
func New(cfg Config, logger *zap.Logger) *Harvester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harvester{
		cfg:       cfg.withDefaults(),
		logger:    logger,
		newClient: newAPIClient,
	}
}

// Harvest lists matching messages and extracts filtered event links from
// their MIME bodies. A missing credential or token path disables the
// harvester without error; a malformed one is a CredentialError.
func (h *Harvester) Harvest(ctx context.Context) (Result, error) {
	if h.cfg.CredentialsPath == "" || h.cfg.TokenPath == "" {
		return Result{Links: []string{}, Meta: Meta{Enabled: false}}, nil
	}

	client, err := h.newClient(ctx, h.cfg)
	if err != nil {
		return Result{}, err
	}

	ids, err := client.ListMessageIDs(ctx, h.cfg.Query, int64(h.cfg.MaxMessages))
	if err != nil {
		return Result{}, fmt.Errorf("list messages: %w", err)
	}

	seen := make(map[string]struct{})
	links := make([]string, 0, maxHarvestLinks)
	var debug []MessageDebug

	for _, id := range ids {
		msg, err := client.GetMessage(ctx, id)
		if err != nil {
			return Result{}, fmt.Errorf("get message %s: %w", id, err)
		}

		text := gatherText(msg.Payload)
		candidates := FilterCandidates(ExtractURLs(text))
		for _, u := range candidates {
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			links = append(links, u)
		}

		if h.cfg.IncludeDebug && len(candidates) > 0 {
			debug = append(debug, MessageDebug{
				ID:         id,
				Subject:    headerValue(msg.Payload, "subject"),
				From:       headerValue(msg.Payload, "from"),
				Candidates: candidates[:min(len(candidates), maxDebugCandidates)],
			})
		}
	}

	found := len(links)
	if len(links) > maxHarvestLinks {
		links = links[:maxHarvestLinks]
	}
	h.logger.Info("gmail harvest complete",
		zap.Int("scanned", len(ids)),
		zap.Int("links", len(links)))

	return Result{
		Links: links,
		Meta:  Meta{Enabled: true, Scanned: len(ids), Found: found, Debug: debug},
	}, nil
}

// gatherText walks the MIME part tree, decoding every base64url body part
// and concatenating the results.
func gatherText(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return ""
	}
	var parts []string
	var walk func(p *gmailapi.MessagePart)
	walk = func(p *gmailapi.MessagePart) {
		if p == nil {
			return
		}
		if p.Body != nil && p.Body.Data != "" {
			parts = append(parts, decodeBase64URL(p.Body.Data))
		}
		for _, child := range p.Parts {
			walk(child)
		}
	}
	walk(payload)
	return strings.Join(parts, "\n")
}

func decodeBase64URL(data string) string {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}
	return string(decoded)
}

func headerValue(payload *gmailapi.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
