package rendering

import (
	"github.com/jonathan/variant-studio/internal/catalog"
	"github.com/jonathan/variant-studio/internal/types"
)

// Engine renders channel-compliant variants without any external dependency.
type Engine struct {
	catalog   *catalog.Catalog
	templates map[string]Template
}

// NewEngine creates an engine over the catalog using the built-in templates.
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c, templates: DefaultTemplates()}
}

// Register adds or replaces the template for a family.
// Call it before the engine is shared between goroutines.
func (e *Engine) Register(family string, tmpl Template) {
	e.templates[family] = tmpl
}

// Render produces the variant for one channel. The same inputs always render the same variant.
func (e *Engine) Render(channelKey string, brief types.Brief, goal string) (types.Variant, error) {
	rule, err := e.catalog.Get(channelKey)
	if err != nil {
		return types.Variant{}, &RenderError{Channel: channelKey, Message: "channel not registered", Cause: err}
	}

	tmpl, ok := e.templates[rule.TemplateFamily()]
	if !ok {
		tmpl = e.templates[GenericFamily]
	}

	copyText := Sanitize(tmpl(brief), rule.MaxChars)
	goalRule := e.catalog.Goal(goal)

	return types.Variant{
		Channel:    rule.Label,
		ChannelKey: rule.Key,
		Copy:       copyText,
		Specs:      rule.FormatSpecs,
		Rationale:  "Tailored to " + rule.Label + ". " + goalRule.Rationale,
	}, nil
}

// RenderAll renders every channel in order.
func (e *Engine) RenderAll(channelKeys []string, brief types.Brief, goal string) ([]types.Variant, error) {
	variants := make([]types.Variant, 0, len(channelKeys))
	for _, key := range channelKeys {
		v, err := e.Render(key, brief, goal)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}
