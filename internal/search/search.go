package search

import (
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/wardrobe/internal/domain"
)

// Source provides the cached master data
type Source interface {
	MasterData() *domain.MasterData
}

// Service looks up taxonomy entries in the cached master data.
// Queries match case-insensitively and ignore diacritics; results are
// ordered by edit distance, ties keep the backend order.
type Service struct {
	source Source
	logger *slog.Logger
}

// NewService creates a new search service
func NewService(source Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source: source,
		logger: logger,
	}
}

// Categories matches leaf and parent categories by name
func (s *Service) Categories(query string) []domain.Category {
	md := s.source.MasterData()
	if md == nil {
		return nil
	}
	return rank(query, md.Categories, func(c domain.Category) string { return c.Name })
}

func (s *Service) Occasions(query string) []domain.Occasion {
	md := s.source.MasterData()
	if md == nil {
		return nil
	}
	return rank(query, md.Occasions, func(o domain.Occasion) string { return o.Name })
}

func (s *Service) Colors(query string) []domain.Color {
	md := s.source.MasterData()
	if md == nil {
		return nil
	}
	return rank(query, md.Colors, func(c domain.Color) string { return c.Name })
}

func (s *Service) Materials(query string) []domain.Material {
	md := s.source.MasterData()
	if md == nil {
		return nil
	}
	return rank(query, md.Materials, func(m domain.Material) string { return m.Name })
}

func (s *Service) Patterns(query string) []domain.Pattern {
	md := s.source.MasterData()
	if md == nil {
		return nil
	}
	return rank(query, md.Patterns, func(p domain.Pattern) string { return p.Name })
}

// Subcategories returns the children of a top-level category
func (s *Service) Subcategories(parentID int64) []domain.Category {
	md := s.source.MasterData()
	if md == nil {
		return nil
	}
	return md.Subcategories(parentID)
}

// CategoryPath renders a category as "Parent / Child", or just its name
// for a top-level category. ok is false for unknown ids.
func (s *Service) CategoryPath(id int64) (path string, ok bool) {
	md := s.source.MasterData()
	if md == nil {
		return "", false
	}

	byID := make(map[int64]domain.Category, len(md.Categories))
	for _, c := range md.Categories {
		byID[c.ID] = c
	}
	c, ok := byID[id]
	if !ok {
		return "", false
	}
	if c.ParentID == nil {
		return c.Name, true
	}
	parent, found := byID[*c.ParentID]
	if !found {
		s.logger.Warn("category parent missing from master data", "category", id, "parent", *c.ParentID)
		return c.Name, true
	}
	return parent.Name + " / " + c.Name, true
}

// rank filters items whose name contains the query as a fuzzy subsequence.
// An empty query returns every item.
func rank[T any](query string, items []T, name func(T) string) []T {
	query = strings.TrimSpace(query)
	if query == "" {
		return slices.Clone(items)
	}

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = name(item)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]T, len(ranks))
	for i, r := range ranks {
		out[i] = items[r.OriginalIndex]
	}
	return out
}
