package service

import (
	"iga/internal/logger"
	"iga/internal/rubric"
)

// KeywordStore is the mutable keyword set.
type KeywordStore interface {
	Keywords() []string
	Add(word string) error
	Remove(word string) error
	Clear() error
}

// ConfigService reads and updates the live grading configuration. Updates
// arrive as flat key/value maps and must carry exactly the expected keys.
type ConfigService interface {
	Rubric() rubric.Rubric
	Weights() rubric.Weights
	Style() rubric.Style
	UpdateRubric(m map[string]any) (rubric.Rubric, error)
	UpdateWeights(m map[string]any) (rubric.Weights, error)
	UpdateStyle(m map[string]any, persist bool) (rubric.Style, error)
	Keywords() []string
	AddKeyword(word string) error
	RemoveKeyword(word string) error
	ClearKeywords() error
}

type configService struct {
	store    *rubric.Store
	keywords KeywordStore
	log      *logger.Logger
}

// NewConfigService creates a new ConfigService implementation.
func NewConfigService(store *rubric.Store, keywords KeywordStore, log *logger.Logger) ConfigService {
	return &configService{store: store, keywords: keywords, log: log}
}

func (s *configService) Rubric() rubric.Rubric {
	return s.store.Snapshot().Rubric.Clone()
}

func (s *configService) Weights() rubric.Weights {
	return s.store.Snapshot().Weights.Clone()
}

func (s *configService) Style() rubric.Style {
	return s.store.Snapshot().Style.Clone()
}

func (s *configService) UpdateRubric(m map[string]any) (rubric.Rubric, error) {
	r, err := rubric.RubricFromMap(m)
	if err != nil {
		return rubric.Rubric{}, err
	}
	if err := s.store.UpdateRubric(r); err != nil {
		return rubric.Rubric{}, err
	}
	s.log.Info("configService.UpdateRubric: rubric updated")
	return s.Rubric(), nil
}

func (s *configService) UpdateWeights(m map[string]any) (rubric.Weights, error) {
	w, err := rubric.WeightsFromMap(m)
	if err != nil {
		return rubric.Weights{}, err
	}
	if err := s.store.UpdateWeights(w); err != nil {
		return rubric.Weights{}, err
	}
	s.log.Info("configService.UpdateWeights: weights updated")
	return s.Weights(), nil
}

func (s *configService) UpdateStyle(m map[string]any, persist bool) (rubric.Style, error) {
	st, err := rubric.StyleFromMap(m)
	if err != nil {
		return rubric.Style{}, err
	}
	if err := s.store.UpdateStyle(st, persist); err != nil {
		return rubric.Style{}, err
	}
	s.log.Info("configService.UpdateStyle: style updated", "persisted", persist)
	return s.Style(), nil
}

func (s *configService) Keywords() []string {
	return s.keywords.Keywords()
}

func (s *configService) AddKeyword(word string) error {
	if err := s.keywords.Add(word); err != nil {
		return err
	}
	s.log.Info("configService.AddKeyword: keyword added", "keyword", word)
	return nil
}

func (s *configService) RemoveKeyword(word string) error {
	if err := s.keywords.Remove(word); err != nil {
		return err
	}
	s.log.Info("configService.RemoveKeyword: keyword removed", "keyword", word)
	return nil
}

func (s *configService) ClearKeywords() error {
	if err := s.keywords.Clear(); err != nil {
		return err
	}
	s.log.Info("configService.ClearKeywords: keywords cleared")
	return nil
}
