package agents

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"blogflow/pipeline"
)

// structuralScore grades a draft's markdown structure on a 0-10 scale:
// title (2), section headers (2), lists (1), citations/links (2), and word
// count against the style guide (3). It is averaged with the model's review
// score so a well-formed but hollow draft cannot approve itself.
func structuralScore(body string, style pipeline.StyleGuide) float64 {
	src := []byte(body)
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(src))

	var (
		hasTitle bool
		sections int
		hasList  bool
		hasLink  bool
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 {
				hasTitle = true
			} else {
				sections++
			}
		case *ast.List:
			hasList = true
		case *ast.Link, *ast.AutoLink:
			hasLink = true
		}
		return ast.WalkContinue, nil
	})
	if !hasLink && strings.Contains(body, "http") {
		hasLink = true
	}

	score := 0.0
	if hasTitle {
		score += 2
	}
	switch {
	case sections >= 3:
		score += 2
	case sections >= 1:
		score += 1
	}
	if hasList {
		score += 1
	}
	if hasLink {
		score += 2
	}

	words := len(strings.Fields(body))
	switch {
	case style.MinWords > 0 && style.MaxWords > 0:
		if words >= style.MinWords && words <= style.MaxWords {
			score += 3
		} else if words >= style.MinWords/2 && words <= style.MaxWords*3/2 {
			score += 1.5
		}
	case words >= 300:
		score += 3
	}
	return score
}
