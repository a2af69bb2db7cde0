// Package catalog строит справочные карты игр, категорий и тегов на время одного запроса.
package catalog

import (
	"strings"

	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/google/uuid"
)

// Index хранит карты id->запись и slug->id. Строится на каждый запрос и не кэшируется.
type Index struct {
	Games      map[uuid.UUID]domain.Game
	Categories map[uuid.UUID]domain.Category
	Tags       map[uuid.UUID]domain.Tag

	gameSlugs     map[string]uuid.UUID
	categorySlugs map[string]uuid.UUID
	tagSlugs      map[string]uuid.UUID
}

// NewIndex строит индекс из полного набора справочных записей.
func NewIndex(games []domain.Game, categories []domain.Category, tags []domain.Tag) *Index {
	idx := &Index{
		Games:         make(map[uuid.UUID]domain.Game, len(games)),
		Categories:    make(map[uuid.UUID]domain.Category, len(categories)),
		Tags:          make(map[uuid.UUID]domain.Tag, len(tags)),
		gameSlugs:     make(map[string]uuid.UUID, len(games)),
		categorySlugs: make(map[string]uuid.UUID, len(categories)),
		tagSlugs:      make(map[string]uuid.UUID, len(tags)),
	}
	for _, g := range games {
		idx.Games[g.ID] = g
		idx.gameSlugs[g.Slug] = g.ID
	}
	for _, c := range categories {
		idx.Categories[c.ID] = c
		idx.categorySlugs[c.Slug] = c.ID
	}
	for _, t := range tags {
		idx.Tags[t.ID] = t
		idx.tagSlugs[t.Slug] = t.ID
	}
	return idx
}

func (idx *Index) GameIDs(slugs []string) []uuid.UUID {
	return resolve(idx.gameSlugs, slugs)
}

func (idx *Index) CategoryIDs(slugs []string) []uuid.UUID {
	return resolve(idx.categorySlugs, slugs)
}

func (idx *Index) TagIDs(slugs []string) []uuid.UUID {
	return resolve(idx.tagSlugs, slugs)
}

func (idx *Index) GameBySlug(slug string) (domain.Game, bool) {
	id, ok := idx.gameSlugs[slug]
	if !ok {
		return domain.Game{}, false
	}
	return idx.Games[id], true
}

func (idx *Index) CategoryBySlug(slug string) (domain.Category, bool) {
	id, ok := idx.categorySlugs[slug]
	if !ok {
		return domain.Category{}, false
	}
	return idx.Categories[id], true
}

// resolve переводит slug-и в id. Неизвестные slug-и молча отбрасываются,
// повторы схлопываются с сохранением порядка.
func resolve(m map[string]uuid.UUID, slugs []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(slugs))
	seen := make(map[uuid.UUID]struct{}, len(slugs))
	for _, s := range slugs {
		id, ok := m[s]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// SplitList разбирает список через запятую: обрезает пробелы, пустые элементы пропускает.
// Возвращает nil, если параметр не передан вовсе.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
