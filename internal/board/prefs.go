package board

import (
	"context"
	"strings"

	"fluxline/internal/models"
)

// SetSearch stores the free-text search, trimmed and lowercased.
func (b *Board) SetSearch(ctx context.Context, search string) error {
	return b.setPrefs(ctx, "search", func(s *models.State) error {
		s.UI.Search = strings.ToLower(strings.TrimSpace(search))
		return nil
	})
}

// SetFilters stores a filter selection. Values outside the enumerations are
// rejected; tags are normalized.
func (b *Board) SetFilters(ctx context.Context, f models.Filters) error {
	return b.setPrefs(ctx, "filters", func(s *models.State) error {
		if err := f.Validate(); err != nil {
			return err
		}
		s.UI.Filters = f.Normalize()
		return nil
	})
}

// ClearFilters resets both the search text and the filters.
func (b *Board) ClearFilters(ctx context.Context) error {
	return b.setPrefs(ctx, "clear-filters", func(s *models.State) error {
		s.UI = models.UIPrefs{Search: "", Filters: models.DefaultFilters()}
		return nil
	})
}

// SetTheme stores the theme preference.
func (b *Board) SetTheme(ctx context.Context, theme models.Theme) error {
	return b.setPrefs(ctx, "theme", func(s *models.State) error {
		t, err := models.CleanTheme(theme)
		if err != nil {
			return err
		}
		s.Theme = t
		return nil
	})
}

// ToggleTheme flips between light and dark and returns the new theme.
func (b *Board) ToggleTheme(ctx context.Context) (models.Theme, error) {
	var theme models.Theme
	err := b.setPrefs(ctx, "theme", func(s *models.State) error {
		s.Theme = s.Theme.Toggle()
		theme = s.Theme
		return nil
	})
	return theme, err
}

func (b *Board) setPrefs(ctx context.Context, op string, apply func(*models.State) error) error {
	b.mu.Lock()
	err := func() error {
		next := b.clone()
		if err := apply(&next); err != nil {
			return err
		}
		return b.commit(ctx, op, next)
	}()
	b.mu.Unlock()

	b.metrics.ObserveMutation(op, err)
	if err != nil {
		return err
	}
	b.publish(changed())
	return nil
}
