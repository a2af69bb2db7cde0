package storage

import (
	"fmt"
	"strings"

	"github.com/GoArmGo/AssetHub/internal/domain"
)

const assetColumns = `id, name, game_id, category_id, uploader_id, size, extension, created_at,
	download_count, view_count, status, is_suggestive, hash`

var sortColumns = map[domain.SortKey]string{
	domain.SortRecent:    "created_at",
	domain.SortViews:     "view_count",
	domain.SortDownloads: "download_count",
	domain.SortName:      "name",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildSearchQuery собирает один запрос по фильтру. Предикаты соединяются через AND,
// внутри измерения (игры, категории) действует OR через ANY.
// Запрашивается Limit+1 строка, чтобы определить наличие следующей страницы.
func buildSearchQuery(f domain.AssetFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "status = "+arg(string(f.Status)))
	}
	if f.Name != "" {
		where = append(where, "name ILIKE "+arg("%"+likeEscaper.Replace(f.Name)+"%"))
	}
	if f.GameIDs != nil {
		where = append(where, "game_id = ANY("+arg(uuidArray(f.GameIDs))+"::uuid[])")
	}
	if f.CategoryIDs != nil {
		where = append(where, "category_id = ANY("+arg(uuidArray(f.CategoryIDs))+"::uuid[])")
	}
	if f.AssetIDs != nil {
		where = append(where, "id = ANY("+arg(uuidArray(f.AssetIDs))+"::uuid[])")
	}
	if f.ExcludeSuggestive {
		where = append(where, "is_suggestive = FALSE")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(assetColumns)
	sb.WriteString(" FROM assets")
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns[domain.SortRecent]
	}
	dir := "DESC"
	if f.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	// id как второй ключ даёт стабильный порядок между страницами
	fmt.Fprintf(&sb, " ORDER BY %s %s, id %s", col, dir, dir)

	sb.WriteString(" LIMIT " + arg(f.Limit+1))
	sb.WriteString(" OFFSET " + arg(f.Offset))

	return sb.String(), args
}
