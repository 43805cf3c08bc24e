package database

import (
	"fmt"
	"strings"
)

// ConstructDatabaseURL joins a base connection URL with a database name,
// preserving any existing query parameters and defaulting sslmode to
// disable when the URL does not set one.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base := strings.TrimRight(baseURL, "/")

	head, query, hasQuery := strings.Cut(base, "?")

	var url string
	if hasQuery {
		url = fmt.Sprintf("%s/%s?%s", head, databaseName, query)
	} else {
		url = fmt.Sprintf("%s/%s", base, databaseName)
	}

	if !strings.Contains(url, "sslmode=") {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "sslmode=disable"
	}

	return url
}
