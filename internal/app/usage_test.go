package app

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v45/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.2.0", "1.1.9", 1},
		{"2.0.0", "10.0.0", -1},
		{"1.0", "1.0.0", -1},
		{"1.0.0.1", "1.0.0", 1},
		{"", "0.0.1", -1},
		{"1.x.0", "1.0.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.v1+" vs "+tt.v2, func(t *testing.T) {
			assert.Equal(t, tt.want, compareVersions(tt.v1, tt.v2))
		})
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf, "hostping")

	out := buf.String()
	assert.Contains(t, out, "hostping [flags] <hostname/ip>")
	assert.Contains(t, out, "  -c : send <n> probes and stop.")
	assert.Contains(t, out, "  --log-file : ")
	assert.Contains(t, out, "  --version : show version and exit.")
}

func newReleaseClient(t *testing.T, tag string) *github.Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("/repos/%s/%s/releases/latest", Owner, Repo),
		func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"tag_name": %q}`, tag)
		})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	baseURL, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	client := github.NewClient(srv.Client())
	client.BaseURL = baseURL

	return client
}

func TestCheckForUpdates(t *testing.T) {
	tests := []struct {
		name    string
		current string
		tag     string
		want    string
	}{
		{
			name:    "newer release",
			current: "1.0.0",
			tag:     "v1.2.3",
			want: "Found newer version 1.2.3\nPlease update HOSTPING from the URL below:\n" +
				"https://github.com/pouriyajamshidi/hostping/releases/tag/v1.2.3",
		},
		{
			name:    "up to date",
			current: "1.2.3",
			tag:     "1.2.3",
			want:    "HOSTPING is on the latest version: 1.2.3",
		},
		{
			name:    "ahead of release",
			current: "2.0.0",
			tag:     "v1.2.3",
			want:    "Current version 2.0.0 is newer than the latest release 1.2.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Version
			Version = tt.current
			t.Cleanup(func() { Version = prev })

			msg, err := checkForUpdates(t.Context(), newReleaseClient(t, tt.tag))
			require.NoError(t, err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestCheckForUpdates_UnexpectedTag(t *testing.T) {
	_, err := checkForUpdates(t.Context(), newReleaseClient(t, "nightly"))
	assert.ErrorContains(t, err, "version name does not match expected format: nightly")
}

func TestCheckForUpdates_ConfiguredRepository(t *testing.T) {
	prevOwner, prevRepo, prevVersion := Owner, Repo, Version
	Owner, Repo, Version = "example-org", "pinger", "0.9.0"
	t.Cleanup(func() { Owner, Repo, Version = prevOwner, prevRepo, prevVersion })

	msg, err := checkForUpdates(t.Context(), newReleaseClient(t, "v1.0.0"))
	require.NoError(t, err)
	assert.Contains(t, msg, "https://github.com/example-org/pinger/releases/tag/v1.0.0")
}
