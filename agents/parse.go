package agents

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"blogflow/pipeline"
)

var (
	scoreRe  = regexp.MustCompile(`\d+(\.\d+)?`)
	nuggetRe = regexp.MustCompile(`(?i)^NUGGET:\s*(.+?)\s*\|\s*SOURCE:\s*(.+?)\s*(?:\|\s*RECENCY:\s*(.+?)\s*)?$`)
	fenceRe  = regexp.MustCompile("(?s)^```(?:markdown|md)?\n(.*)\n```$")
)

// cleanMarkdown trims model output and unwraps a whole-document code fence
// if the model added one. Empty output is an error.
func cleanMarkdown(raw string) (string, error) {
	md := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(md); len(m) == 2 {
		md = strings.TrimSpace(m[1])
	}
	if md == "" {
		return "", errors.New("model returned empty markdown")
	}
	return md, nil
}

// parseBriefResponse extracts the OVERVIEW line and NUGGET lines from a
// research reply. Unparseable lines are skipped.
func parseBriefResponse(raw string) (overview string, nuggets []pipeline.Nugget) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
		if line == "" {
			continue
		}
		if rest, ok := cutPrefixFold(line, "OVERVIEW:"); ok {
			if overview == "" {
				overview = strings.TrimSpace(rest)
			}
			continue
		}
		if m := nuggetRe.FindStringSubmatch(line); m != nil {
			n := pipeline.Nugget{
				Claim:   strings.TrimSpace(m[1]),
				Source:  strings.TrimSpace(m[2]),
				Recency: strings.TrimSpace(m[3]),
			}
			if n.Claim != "" {
				nuggets = append(nuggets, n)
			}
		}
	}
	return overview, nuggets
}

// parseReview extracts the score and the three bullet sections from the
// editor's SCORE:/ISSUES:/SUGGESTIONS:/STRENGTHS: reply. Missing score
// defaults to 5.0, matching a noncommittal review.
func parseReview(raw string) (score float64, issues, suggestions, strengths []string) {
	score = 5.0
	var current *[]string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case hasPrefixFold(line, "SCORE:"):
			if m := scoreRe.FindString(line); m != "" {
				if v, err := strconv.ParseFloat(m, 64); err == nil {
					if v > 10 {
						v = 10
					}
					score = v
				}
			}
			current = nil
		case strings.EqualFold(line, "ISSUES:"):
			current = &issues
		case strings.EqualFold(line, "SUGGESTIONS:"):
			current = &suggestions
		case strings.EqualFold(line, "STRENGTHS:"):
			current = &strengths
		case strings.HasPrefix(line, "- ") && current != nil:
			if item := strings.TrimSpace(line[2:]); item != "" {
				*current = append(*current, item)
			}
		}
	}
	return score, issues, suggestions, strengths
}

// parseKeywordList splits a comma-separated keyword reply, dropping empties
// and anything that looks like leaked prose.
func parseKeywordList(raw string, limit int) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "\"`")
	var out []string
	for _, part := range strings.Split(raw, ",") {
		kw := strings.ToLower(strings.TrimSpace(part))
		if kw == "" || strings.ContainsAny(kw, "\n:") || len(kw) > 60 {
			continue
		}
		out = append(out, kw)
		if len(out) == limit {
			break
		}
	}
	return out
}

// parseMetaTags reads the TITLE:/DESCRIPTION: reply lines.
func parseMetaTags(raw string) pipeline.MetaTags {
	var meta pipeline.MetaTags
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := cutPrefixFold(line, "TITLE:"); ok {
			meta.Title = strings.Trim(strings.TrimSpace(rest), "\"")
		} else if rest, ok := cutPrefixFold(line, "DESCRIPTION:"); ok {
			meta.Description = strings.Trim(strings.TrimSpace(rest), "\"")
		}
	}
	return meta
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if hasPrefixFold(s, prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
