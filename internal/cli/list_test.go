package cli_test

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rshade/countries/internal/cli"
	"github.com/rshade/countries/internal/cli/pagination"
	"github.com/rshade/countries/internal/config"
	"github.com/rshade/countries/internal/country"
	"github.com/rshade/countries/internal/query"
	"github.com/rshade/countries/internal/restcountries"
	"github.com/rshade/countries/internal/tui"
)

type envelope struct {
	Countries  []country.Country         `json:"countries"`
	Pagination pagination.PaginationMeta `json:"pagination"`
	Search     string                    `json:"search"`
	Sort       string                    `json:"sort"`
}

func listJSON(t *testing.T, env map[string]string, args ...string) envelope {
	t.Helper()
	stdout, _, err := execute(t, testEnv(t, env), append([]string{"list", "--output", "json"}, args...)...)
	require.NoError(t, err)

	var got envelope
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	return got
}

func officialNames(countries []country.Country) []string {
	names := make([]string, len(countries))
	for i, c := range countries {
		names[i] = c.Name.Official
	}
	return names
}

func TestList_PlainTable(t *testing.T) {
	srv := newCountriesServer(t, fixtureCountries())

	stdout, _, err := execute(t, testEnv(t, nil), "list", "--endpoint", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Country Name ▲")
	assert.Contains(t, stdout, "Calling Code")
	assert.Contains(t, stdout, "Page 1/1 · 3 of 3 countries")
	assert.NotContains(t, stdout, tui.NoRecordsText)

	chad := strings.Index(stdout, "Chad")
	albania := strings.Index(stdout, "Republic of Albania")
	zimbabwe := strings.Index(stdout, "Republic of Zimbabwe")
	assert.Less(t, chad, albania)
	assert.Less(t, albania, zimbabwe)

	// Chad has no PNG flag.
	for _, line := range strings.Split(stdout, "\n") {
		if strings.Contains(line, "TCD") {
			assert.True(t, strings.HasPrefix(line, country.FlagPlaceholder), line)
		}
	}
}

func TestList_SearchToleratesTypos(t *testing.T) {
	srv := newCountriesServer(t, fixtureCountries())

	got := listJSON(t, nil, "--endpoint", srv.URL, "--search", "Chadd")
	assert.Equal(t, []string{"Chad"}, officialNames(got.Countries))
	assert.Equal(t, "Chadd", got.Search)
	assert.Equal(t, 1, got.Pagination.TotalItems)
	assert.Equal(t, 3, got.Pagination.TotalRecords)
}

func TestList_NoMatches(t *testing.T) {
	srv := newCountriesServer(t, fixtureCountries())

	stdout, _, err := execute(t, testEnv(t, nil), "list", "--endpoint", srv.URL, "--search", "xyzzy")
	require.NoError(t, err)
	assert.Contains(t, stdout, tui.NoRecordsText)
	assert.Contains(t, stdout, "Page 1/1 · 0 of 3 countries")

	got := listJSON(t, nil, "--endpoint", srv.URL, "--search", "xyzzy")
	assert.NotNil(t, got.Countries)
	assert.Empty(t, got.Countries)
	assert.Equal(t, 0, got.Pagination.TotalPages)
}

func TestList_JSONEnvelope(t *testing.T) {
	srv := newCountriesServer(t, fixtureCountries())

	got := listJSON(t, nil, "--endpoint", srv.URL, "--sort", "cca2:desc")
	assert.Equal(t, "cca2:desc", got.Sort)
	assert.Equal(t, []string{"Republic of Zimbabwe", "Chad", "Republic of Albania"}, officialNames(got.Countries))
	assert.Equal(t, pagination.PaginationMeta{
		CurrentPage: 1, PageSize: 25, TotalPages: 1, TotalItems: 3, TotalRecords: 3,
	}, got.Pagination)

	chad := got.Countries[1]
	require.Len(t, chad.Name.NativeName, 2)
	assert.Equal(t, "ara", chad.Name.NativeName[0].Language)
}

func TestList_Pages(t *testing.T) {
	srv := newCountriesServer(t, numberedCountries(30))

	got := listJSON(t, nil, "--endpoint", srv.URL, "--page", "2", "--page-size", "10")
	require.Len(t, got.Countries, 10)
	assert.Equal(t, "Country 010", got.Countries[0].Name.Official)
	assert.Equal(t, 2, got.Pagination.CurrentPage)
	assert.Equal(t, 3, got.Pagination.TotalPages)
	assert.True(t, got.Pagination.HasPrevious)
	assert.True(t, got.Pagination.HasNext)

	got = listJSON(t, nil, "--endpoint", srv.URL, "--page", "9", "--page-size", "10")
	assert.Empty(t, got.Countries, "a page past the end is empty")

	got = listJSON(t, nil, "--endpoint", srv.URL, "--page", "368934881474191034", "--page-size", "25")
	assert.Empty(t, got.Countries, "a huge page number is just past the end")
	assert.Equal(t, 30, got.Pagination.TotalItems)
}

func TestList_PageSizeFromEnv(t *testing.T) {
	srv := newCountriesServer(t, numberedCountries(30))

	got := listJSON(t, map[string]string{config.EnvPageSize: "10"}, "--endpoint", srv.URL)
	assert.Len(t, got.Countries, 10)
	assert.Equal(t, 10, got.Pagination.PageSize)

	got = listJSON(t, map[string]string{config.EnvPageSize: "10"}, "--endpoint", srv.URL, "--page-size", "100")
	assert.Len(t, got.Countries, 30, "flag beats env")
}

func TestList_Locale(t *testing.T) {
	srv := newCountriesServer(t, []country.Country{
		{Name: country.Name{Official: "Åland Islands"}, CCA3: "ALA"},
		{Name: country.Name{Official: "Zambia"}, CCA3: "ZMB"},
		{Name: country.Name{Official: "Austria"}, CCA3: "AUT"},
	})

	got := listJSON(t, nil, "--endpoint", srv.URL, "--locale", "sv")
	assert.Equal(t, []string{"Austria", "Zambia", "Åland Islands"}, officialNames(got.Countries))

	got = listJSON(t, nil, "--endpoint", srv.URL, "--locale", "en")
	assert.Equal(t, []string{"Åland Islands", "Austria", "Zambia"}, officialNames(got.Countries))
}

func TestList_NDJSON(t *testing.T) {
	srv := newCountriesServer(t, fixtureCountries())

	stdout, _, err := execute(t, testEnv(t, nil), "list", "--endpoint", srv.URL, "-o", "ndjson")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	var first country.Country
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "Chad", first.Name.Official)
}

func TestList_YAML(t *testing.T) {
	srv := newCountriesServer(t, fixtureCountries())

	stdout, _, err := execute(t, testEnv(t, nil), "list", "--endpoint", srv.URL, "--output", "yaml")
	require.NoError(t, err)

	var doc struct {
		Countries  []map[string]any          `yaml:"countries"`
		Pagination pagination.PaginationMeta `yaml:"pagination"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Len(t, doc.Countries, 3)
	assert.Equal(t, 3, doc.Pagination.TotalItems)
	assert.Less(t, strings.Index(stdout, "ara:"), strings.Index(stdout, "fra:"), "native names keep source order")
}

func TestList_OutputFromEnv(t *testing.T) {
	srv := newCountriesServer(t, fixtureCountries())

	stdout, _, err := execute(t, testEnv(t, map[string]string{config.EnvOutput: "ndjson"}), "list", "--endpoint", srv.URL)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 3)
}

func TestList_Errors(t *testing.T) {
	srv := newCountriesServer(t, fixtureCountries())

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "page size not allowed", args: []string{"--page-size", "50"}, wantErr: pagination.ErrInvalidPageSize},
		{name: "page zero", args: []string{"--page", "0"}, wantErr: pagination.ErrInvalidPage},
		{name: "unknown column", args: []string{"--sort", "population"}, wantErr: query.ErrUnknownColumn},
		{name: "flag column", args: []string{"--sort", "flag:asc"}, wantErr: query.ErrUnsortableColumn},
		{name: "bad order", args: []string{"--sort", "name:sideways"}, wantErr: query.ErrInvalidOrder},
		{name: "unknown output", args: []string{"--output", "xml"}, wantErr: cli.ErrUnsupportedOutput},
		{name: "threshold out of range", args: []string{"--threshold", "2"}, wantErr: config.ErrInvalidConfig},
		{name: "unknown search mode", args: []string{"--search-mode", "phonetic"}, wantErr: config.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"list", "--endpoint", srv.URL}, tt.args...)
			_, _, err := execute(t, testEnv(t, nil), args...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestList_FetchFailureExitsNonZero(t *testing.T) {
	srv := newStatusServer(t, http.StatusServiceUnavailable)

	stdout, stderr, err := execute(t, testEnv(t, nil), "list", "--endpoint", srv.URL)
	require.ErrorIs(t, err, restcountries.ErrUnexpectedStatus)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "503")

	var statusErr *restcountries.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestList_SubsequenceMode(t *testing.T) {
	srv := newCountriesServer(t, fixtureCountries())

	got := listJSON(t, nil, "--endpoint", srv.URL, "--search-mode", "subsequence", "--search", "rpzmb")
	assert.Equal(t, []string{"Republic of Zimbabwe"}, officialNames(got.Countries))
}

func TestList_CachesFetchedCountries(t *testing.T) {
	var hits atomic.Int32
	srv := newCountingServer(t, fixtureCountries(), &hits)
	env := testEnv(t, map[string]string{
		config.EnvEndpoint: srv.URL,
		config.EnvCacheTTL: "600",
		config.EnvCacheDir: filepath.Join(t.TempDir(), "cache"),
	})

	first, _, err := execute(t, env, "list")
	require.NoError(t, err)
	second, _, err := execute(t, env, "list")
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load(), "second run is served from the cache")
	assert.Equal(t, first, second)

	_, _, err = execute(t, env, "list", "--no-cache")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load(), "--no-cache always fetches")
}

func TestList_CacheIsOptIn(t *testing.T) {
	var hits atomic.Int32
	srv := newCountingServer(t, fixtureCountries(), &hits)
	dir := filepath.Join(t.TempDir(), "cache")
	env := testEnv(t, map[string]string{
		config.EnvEndpoint: srv.URL,
		config.EnvCacheTTL: "",
		config.EnvCacheDir: dir,
	})

	for range 2 {
		_, _, err := execute(t, env, "list")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), hits.Load(), "every run fetches by default")
	assert.NoDirExists(t, dir)

	for range 2 {
		_, _, err := execute(t, env, "list", "--cache-ttl", "600")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), hits.Load(), "--cache-ttl reuses the first response")
}
