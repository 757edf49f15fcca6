package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL points baseURL at databaseName and defaults sslmode to disable.
// An empty databaseName returns baseURL unchanged. URLs that do not parse are
// handled by plain string joining.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" {
		return joinDatabaseURL(baseURL, databaseName)
	}

	u.Path = "/" + databaseName
	query := u.Query()
	if query.Get("sslmode") == "" {
		query.Set("sslmode", "disable")
	}
	u.RawQuery = query.Encode()

	return u.String()
}

func joinDatabaseURL(baseURL, databaseName string) string {
	base, rawQuery, hasQuery := strings.Cut(baseURL, "?")
	joined := strings.TrimRight(base, "/") + "/" + databaseName

	switch {
	case !hasQuery:
		return joined + "?sslmode=disable"
	case strings.Contains(rawQuery, "sslmode="):
		return joined + "?" + rawQuery
	default:
		return joined + "?" + rawQuery + "&sslmode=disable"
	}
}
