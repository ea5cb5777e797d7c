package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/variant-studio/internal/types"
)

// Template composes raw copy for a channel family from a brief.
// It must be deterministic: no randomness, clock or network access.
type Template func(b types.Brief) string

// GenericFamily is the template used for families without a registered template.
const GenericFamily = "generic"

// DefaultTemplates returns the built-in templates keyed by family.
func DefaultTemplates() map[string]Template {
	return map[string]Template{
		"instagram":   instagramTemplate,
		"youtube":     youtubeTemplate,
		"linkedin":    linkedinTemplate,
		GenericFamily: genericTemplate,
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// hashtag lowercases s and removes all whitespace.
func hashtag(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}

func instagramTemplate(b types.Brief) string {
	hook := Clamp(orDefault(b.Headline, fmt.Sprintf("%s: built for %s", b.Product, orDefault(b.Audience, "you"))), 90)
	main := Clamp(orDefault(b.Body, "Turn one winning creative into platform-ready variants in minutes."), 180)
	closing := Clamp(orDefault(b.CTA, "Learn more"), 40)

	hashBase := "brand"
	if fields := strings.Fields(b.Product); len(fields) > 0 {
		hashBase = strings.ToLower(fields[0])
	}
	tags := fmt.Sprintf("#%s #%s #ad", hashBase, hashtag(orDefault(b.Audience, "marketing")))

	var sb strings.Builder
	sb.WriteString(hook)
	sb.WriteString("\n\n")
	sb.WriteString(main)
	sb.WriteString("\n\n")
	if b.Proof != "" {
		sb.WriteString("Proof: ")
		sb.WriteString(b.Proof)
		sb.WriteString("\n\n")
	}
	sb.WriteString(closing)
	sb.WriteString(" ›\n")
	sb.WriteString(tags)
	return sb.String()
}

func youtubeTemplate(b types.Brief) string {
	proof := ""
	if b.Proof != "" {
		proof = "(" + b.Proof + ")"
	}
	return strings.Join([]string{
		"HOOK (0–2s): " + orDefault(b.Headline, fmt.Sprintf("See %s fix %s pain.", b.Product, orDefault(b.Audience, "your"))),
		fmt.Sprintf("SCENE 1 (2–10s): Pain for %s in 1 sentence.", orDefault(b.Audience, "teams")),
		fmt.Sprintf("SCENE 2 (10–25s): %s solves it. %s", b.Product, proof),
		"SCENE 3 (25–45s): 2–3 benefits on screen.",
		"SCENE 4 (45–55s): Quick demo or before/after.",
		"CTA (55–60s): " + orDefault(b.CTA, "Tap to try it today."),
	}, "\n")
}

func linkedinTemplate(b types.Brief) string {
	p1 := orDefault(b.Headline, fmt.Sprintf("A faster way for %s to win with %s", orDefault(b.Audience, "teams"), b.Product))
	p2 := orDefault(b.Body, fmt.Sprintf("%s turns one winning creative into platform-ready variants in minutes, not weeks.", b.Product))
	p3 := "Early teams report faster testing cycles and clearer creative insights."
	if b.Proof != "" {
		p3 = "Proof: " + b.Proof
	}
	p4 := "If you want a practical way to scale what already works, this is it."
	p5 := orDefault(b.CTA, `DM me for the demo link or comment "DEMO" and I’ll share it.`)
	return strings.Join([]string{p1, "", p2, "", p3, "", p4, "", p5}, "\n")
}

func genericTemplate(b types.Brief) string {
	parts := []string{
		orDefault(b.Headline, fmt.Sprintf("%s for %s", b.Product, orDefault(b.Audience, "teams like yours"))),
	}
	if b.Body != "" {
		parts = append(parts, b.Body)
	}
	if b.Proof != "" {
		parts = append(parts, "Proof: "+b.Proof)
	}
	parts = append(parts, orDefault(b.CTA, "Learn more"))
	return strings.Join(parts, "\n\n")
}
