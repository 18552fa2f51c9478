package domain

import "fmt"

// ModelDescriptor describes one selectable upstream model.
type ModelDescriptor struct {
	ID        string
	Name      string
	GlowColor string
	ProOnly   bool
}

// Registry is the closed set of models available to the service. It is
// resolved once at startup; changing the lineup is a deployment action.
type Registry struct {
	models []ModelDescriptor
	byID   map[string]ModelDescriptor
}

// NewRegistry builds a registry from the configured descriptors. Duplicate
// ids and empty registries are configuration mistakes surfaced at startup.
func NewRegistry(models []ModelDescriptor) (*Registry, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("model registry requires at least one model")
	}
	byID := make(map[string]ModelDescriptor, len(models))
	for _, m := range models {
		if m.ID == "" {
			return nil, fmt.Errorf("model descriptor with empty id")
		}
		if _, ok := byID[m.ID]; ok {
			return nil, fmt.Errorf("duplicate model id %q", m.ID)
		}
		byID[m.ID] = m
	}
	return &Registry{models: models, byID: byID}, nil
}

// Lookup resolves a model descriptor by id.
func (r *Registry) Lookup(id string) (ModelDescriptor, bool) {
	m, ok := r.byID[id]
	return m, ok
}

// List returns the descriptors in their configured order.
func (r *Registry) List() []ModelDescriptor {
	out := make([]ModelDescriptor, len(r.models))
	copy(out, r.models)
	return out
}

// Default returns the first configured model, used for new sessions.
func (r *Registry) Default() ModelDescriptor {
	return r.models[0]
}

// DefaultModels returns the launch model lineup.
func DefaultModels() []ModelDescriptor {
	return []ModelDescriptor{
		{ID: "openai/gpt-4o", Name: "ChatGPT", GlowColor: "#74A89A"},
		{ID: "google/gemini-2.5-flash", Name: "Gemini", GlowColor: "#8E44AD"},
		{ID: "anthropic/claude-3-haiku", Name: "Claude", GlowColor: "#D97706"},
		{ID: "xai/grok-1", Name: "Grok", GlowColor: "#1E40AF", ProOnly: true},
		{ID: "mistralai/mistral-7b-instruct", Name: "Mistral", GlowColor: "#EF4444", ProOnly: true},
		{ID: "meta-llama/llama-2-70b-chat", Name: "LLaMA", GlowColor: "#F472B6", ProOnly: true},
	}
}
