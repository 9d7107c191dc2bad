package query_test

import (
	"github.com/rshade/countries/internal/country"
)

// named builds records with the given official names.
func named(names ...string) []country.Country {
	out := make([]country.Country, len(names))
	for i, n := range names {
		out[i] = country.Country{Name: country.Name{Official: n}}
	}
	return out
}

func officials(records []country.Country) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name.Official
	}
	return out
}
