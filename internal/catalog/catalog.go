package catalog

import (
	"errors"
	"fmt"
	"os"

	"nexus_game/internal/domain"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyID           = errors.New("challenge id is empty")
	ErrDuplicateID       = errors.New("duplicate challenge id")
	ErrUnknownCategory   = errors.New("unknown challenge category")
	ErrDuplicateCategory = errors.New("category used by more than one challenge")
	ErrMissingCategory   = errors.New("category has no challenge")
	ErrInvalidDifficulty = errors.New("difficulty must be at least 1")
)

// File is the on-disk layout of a challenge catalog.
type File struct {
	Challenges []domain.Challenge `yaml:"challenges"`
}

// Default returns the built-in challenge set in menu order.
func Default() []domain.Challenge {
	return []domain.Challenge{
		{
			ID:          "logic-1",
			Title:       "Secuencia de Activación",
			Category:    domain.CategoryLogic,
			Difficulty:  1,
			Description: "Memoriza y repite la secuencia de códigos de seguridad",
			Story:       "La IA NEXUS ha bloqueado todos los accesos. Debes memorizar la secuencia de activación antes de que cambie.",
			TimeLimit:   60,
		},
		{
			ID:          "programming-1",
			Title:       "Depuración de Código",
			Category:    domain.CategoryProgramming,
			Difficulty:  2,
			Description: "Completa el código corrupto para restaurar los sistemas",
			Story:       "Los sistemas de soporte vital fallan. Debes completar el código antes de que sea demasiado tarde.",
			TimeLimit:   90,
		},
		{
			ID:          "libre-1",
			Title:       "Quiz del Software Libre",
			Category:    domain.CategoryLibre,
			Difficulty:  3,
			Description: "Demuestra tu conocimiento sobre el movimiento del software libre",
			Story:       "Solo conociendo la historia del software libre podrás acceder a las herramientas de la resistencia.",
			TimeLimit:   120,
		},
		{
			ID:          "engineering-1",
			Title:       "Reparación de Circuitos",
			Category:    domain.CategoryEngineering,
			Difficulty:  2,
			Description: "Conecta los circuitos correctamente para restaurar la energía",
			Story:       "Los circuitos principales están desconectados. Debes reconectarlos siguiendo el diagrama.",
			TimeLimit:   75,
		},
	}
}

// LoadFile reads and validates a YAML catalog.
func LoadFile(path string) ([]domain.Challenge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) ([]domain.Challenge, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := Validate(f.Challenges); err != nil {
		return nil, err
	}
	return f.Challenges, nil
}

// Validate checks that every category has exactly one challenge and ids are unique.
// Non-positive time limits are allowed; the countdown treats them as already expired.
func Validate(list []domain.Challenge) error {
	ids := make(map[string]struct{}, len(list))
	seen := make(map[domain.Category]string, len(domain.Categories))

	for i, c := range list {
		if c.ID == "" {
			return fmt.Errorf("challenge at index %d: %w", i, ErrEmptyID)
		}
		if _, ok := ids[c.ID]; ok {
			return fmt.Errorf("challenge %s: %w", c.ID, ErrDuplicateID)
		}
		ids[c.ID] = struct{}{}

		if !c.Category.Valid() {
			return fmt.Errorf("challenge %s category %q: %w", c.ID, c.Category, ErrUnknownCategory)
		}
		if other, ok := seen[c.Category]; ok {
			return fmt.Errorf("challenges %s and %s share %s: %w", other, c.ID, c.Category, ErrDuplicateCategory)
		}
		seen[c.Category] = c.ID

		if c.Difficulty < 1 {
			return fmt.Errorf("challenge %s: %w", c.ID, ErrInvalidDifficulty)
		}
	}

	for _, cat := range domain.Categories {
		if _, ok := seen[cat]; !ok {
			return fmt.Errorf("%s: %w", cat, ErrMissingCategory)
		}
	}
	return nil
}
