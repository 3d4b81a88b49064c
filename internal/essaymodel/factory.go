// Package essaymodel builds the trait models the grading engine consults.
// Each trait is served by an ordered chain of providers; a chain with more
// than one provider is wrapped in a FallbackModel.
package essaymodel

import (
	"fmt"

	"iga/internal/config"
	"iga/internal/domain"
	"iga/internal/logger"
	"iga/internal/port"
)

// ProviderFactory creates an EssayModel for one trait from a provider config.
type ProviderFactory func(cfg *config.ModelProviderConfig, trait domain.Trait) (port.EssayModel, error)

// registry of provider factories, populated via RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a model provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewModel creates an EssayModel from a provider config using the registered factory.
func NewModel(cfg *config.ModelProviderConfig, trait domain.Trait) (port.EssayModel, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
	return factory(cfg, trait)
}

// NewTraitModel builds the provider chain for trait.
func NewTraitModel(cfg *config.ModelConfig, trait domain.Trait, log *logger.Logger) (port.EssayModel, error) {
	chain := cfg.Providers()
	if len(chain) == 0 {
		return nil, fmt.Errorf("no model provider configured for trait %s", trait)
	}
	models := make([]port.EssayModel, 0, len(chain))
	names := make([]string, 0, len(chain))
	for _, p := range chain {
		m, err := NewModel(p, trait)
		if err != nil {
			return nil, fmt.Errorf("building %s model for trait %s: %w", p.Provider, trait, err)
		}
		models = append(models, m)
		names = append(names, p.Provider)
	}
	if len(models) == 1 {
		return models[0], nil
	}
	return NewFallbackModel(trait, models, names, log), nil
}

// NewModels builds one model per trait.
func NewModels(cfg *config.ModelsConfig, log *logger.Logger) (map[domain.Trait]port.EssayModel, error) {
	chains := map[domain.Trait]*config.ModelConfig{
		domain.TraitScore:        &cfg.Score,
		domain.TraitIdea:         &cfg.Idea,
		domain.TraitOrganization: &cfg.Organization,
		domain.TraitStyle:        &cfg.Style,
	}
	out := make(map[domain.Trait]port.EssayModel, len(chains))
	for _, trait := range domain.Traits {
		m, err := NewTraitModel(chains[trait], trait, log)
		if err != nil {
			return nil, err
		}
		out[trait] = m
	}
	return out, nil
}
