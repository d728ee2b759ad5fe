// Package pipeline implements the message-to-case workflow engine:
// pre-filter, classify, extract, case-match, decide, route, audit.
package pipeline

import (
	"strings"

	"github.com/fieldgate/loa-worker/internal/messages"
)

// Default keyword and domain sets for the pre-filter gate.
var (
	defaultSpamKeywords = []string{
		"unsubscribe", "newsletter", "marketing", "promotion",
		"discount", "sale", "offer", "click here", "buy now",
	}

	defaultRelevantKeywords = []string{
		"loa", "letter of authority", "policy", "plan number",
		"valuation", "pension", "investment", "platform",
		"client", "case", "annual review", "dob", "date of birth",
		"ni number", "national insurance",
	}

	defaultBlacklistDomains = []string{
		"newsletter.com", "marketing.com", "randomcorp.com",
	}

	defaultWhitelistDomains = []string{
		"firm.com", "example.com", "abcplatform.com",
	}
)

// FilterConfig holds pre-filter keyword and domain sets. Empty
// slices fall back to the built-in defaults.
type FilterConfig struct {
	SpamKeywords     []string `toml:"spam_keywords"`
	RelevantKeywords []string `toml:"relevant_keywords"`
	BlacklistDomains []string `toml:"blacklist_domains"`
	WhitelistDomains []string `toml:"whitelist_domains"`
}

// PreFilter is a deterministic, I/O-free gate deciding whether a
// message warrants classification. It rejects the obvious spam so
// model calls are reserved for plausible workflow traffic.
type PreFilter struct {
	spamKeywords     []string
	relevantKeywords []string
	blacklistDomains []string
	whitelistDomains []string
}

// NewPreFilter creates a pre-filter, substituting defaults for any
// empty config set.
func NewPreFilter(cfg *FilterConfig) *PreFilter {
	f := &PreFilter{
		spamKeywords:     defaultSpamKeywords,
		relevantKeywords: defaultRelevantKeywords,
		blacklistDomains: defaultBlacklistDomains,
		whitelistDomains: defaultWhitelistDomains,
	}

	if cfg == nil {
		return f
	}

	if len(cfg.SpamKeywords) > 0 {
		f.spamKeywords = cfg.SpamKeywords
	}
	if len(cfg.RelevantKeywords) > 0 {
		f.relevantKeywords = cfg.RelevantKeywords
	}
	if len(cfg.BlacklistDomains) > 0 {
		f.blacklistDomains = cfg.BlacklistDomains
	}
	if len(cfg.WhitelistDomains) > 0 {
		f.whitelistDomains = cfg.WhitelistDomains
	}

	return f
}

// ShouldProcess decides whether a message goes on to classification.
// Decision order: whitelist sender, blacklist sender, spam score,
// relevance score, then default-process so ambiguous messages are
// deferred to classification rather than silently dropped.
func (f *PreFilter) ShouldProcess(msg *messages.Message) bool {
	text := strings.ToLower(msg.Content.Text())

	if sender, ok := msg.Content.(messages.Sender); ok {
		address := strings.ToLower(sender.SenderAddress())

		for _, domain := range f.whitelistDomains {
			if strings.Contains(address, domain) {
				return true
			}
		}

		for _, domain := range f.blacklistDomains {
			if strings.Contains(address, domain) {
				return false
			}
		}
	}

	spamScore := countMatches(text, f.spamKeywords)
	if spamScore >= 2 {
		return false
	}

	relevantScore := countMatches(text, f.relevantKeywords)
	if relevantScore >= 1 {
		return true
	}

	return true
}

// FilterStats summarizes a batch's filter outcomes. It is
// observability output, not control flow.
type FilterStats struct {
	Total      int     `json:"total"`
	ToProcess  int     `json:"to_process"`
	Filtered   int     `json:"filtered"`
	FilterRate float64 `json:"filter_rate"`
}

// Stats computes filter statistics over a batch.
func (f *PreFilter) Stats(batch []*messages.Message) FilterStats {
	stats := FilterStats{Total: len(batch)}

	for _, msg := range batch {
		if f.ShouldProcess(msg) {
			stats.ToProcess++
		}
	}
	stats.Filtered = stats.Total - stats.ToProcess

	if stats.Total > 0 {
		stats.FilterRate = float64(stats.Filtered) / float64(stats.Total) * 100
	}

	return stats
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			count++
		}
	}
	return count
}
