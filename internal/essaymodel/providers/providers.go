// Package providers registers the built-in essay model providers (claude,
// gemini, openai and remote) with the essaymodel factory.
package providers

import (
	"iga/internal/config"
	"iga/internal/domain"
	"iga/internal/essaymodel"
	"iga/internal/essaymodel/claude"
	"iga/internal/essaymodel/gemini"
	"iga/internal/essaymodel/openai"
	"iga/internal/essaymodel/remote"
	"iga/internal/port"
)

// Register installs the built-in providers under their config names.
func Register() {
	essaymodel.RegisterProvider("claude", func(cfg *config.ModelProviderConfig, trait domain.Trait) (port.EssayModel, error) {
		return claude.NewModel(cfg, trait), nil
	})
	essaymodel.RegisterProvider("gemini", func(cfg *config.ModelProviderConfig, trait domain.Trait) (port.EssayModel, error) {
		m, err := gemini.NewModel(cfg, trait)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
	essaymodel.RegisterProvider("openai", func(cfg *config.ModelProviderConfig, trait domain.Trait) (port.EssayModel, error) {
		return openai.NewModel(cfg, trait), nil
	})
	essaymodel.RegisterProvider("remote", func(cfg *config.ModelProviderConfig, trait domain.Trait) (port.EssayModel, error) {
		m, err := remote.NewModel(cfg, trait)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}
