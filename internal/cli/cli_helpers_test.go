package cli_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/countries/internal/cli"
	"github.com/rshade/countries/internal/config"
	"github.com/rshade/countries/internal/country"
)

func fixtureCountries() []country.Country {
	return []country.Country{
		{
			Name: country.Name{Official: "Republic of Zimbabwe"},
			CCA2: "ZW", CCA3: "ZWE",
			IDD:   country.IDD{Root: "+2", Suffixes: []string{"63"}},
			Flags: country.Flags{PNG: "https://flagcdn.com/w320/zw.png"},
			Flag:  "🇿🇼",
		},
		{
			Name:         country.Name{Official: "Republic of Albania"},
			CCA2:         "AL",
			CCA3:         "ALB",
			AltSpellings: []string{"AL", "Shqipëri"},
			IDD:          country.IDD{Root: "+3", Suffixes: []string{"55"}},
			Flags:        country.Flags{PNG: "https://flagcdn.com/w320/al.png"},
			Flag:         "🇦🇱",
		},
		{
			Name: country.Name{
				Official: "Chad",
				NativeName: country.NativeNames{
					{Language: "ara", Name: country.NativeName{Official: "جمهورية تشاد"}},
					{Language: "fra", Name: country.NativeName{Official: "République du Tchad"}},
				},
			},
			CCA2: "TD", CCA3: "TCD",
			IDD: country.IDD{Root: "+2"},
		},
	}
}

func numberedCountries(n int) []country.Country {
	out := make([]country.Country, n)
	for i := range out {
		out[i] = country.Country{
			Name: country.Name{Official: fmt.Sprintf("Country %03d", i)},
			CCA2: fmt.Sprintf("%02d", i),
			CCA3: fmt.Sprintf("C%02d", i),
		}
	}
	return out
}

// newCountriesServer serves countries as the REST Countries API would.
func newCountriesServer(t *testing.T, countries []country.Country) *httptest.Server {
	t.Helper()
	return newCountingServer(t, countries, new(atomic.Int32))
}

// newCountingServer is newCountriesServer that counts requests in hits.
func newCountingServer(t *testing.T, countries []country.Country, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	body, err := json.Marshal(countries)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newStatusServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream unavailable", status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// testEnv isolates a run from the real home directory and environment.
func testEnv(t *testing.T, extra map[string]string) func(string) (string, bool) {
	t.Helper()
	env := map[string]string{
		config.EnvConfig:   filepath.Join(t.TempDir(), "config.yaml"),
		config.EnvLogLevel: "error",
		config.EnvCacheTTL: "0",
	}
	for k, v := range extra {
		env[k] = v
	}
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, lookupEnv func(string) (string, bool), args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(func() { config.SetGlobalConfig(nil) })

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmdWithArgs("1.2.3", lookupEnv)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
