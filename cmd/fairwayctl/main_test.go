package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairway/backend/internal/feed"
	"fairway/backend/internal/models"
	"fairway/backend/internal/service"
	"fairway/backend/internal/settings"
	"fairway/backend/pkg/jwt"
)

func TestRun_Feed(t *testing.T) {
	vsPar := "+3"
	round := feed.RoundView{DisplayName: "Pebble Beach Golf Links", VsPar: &vsPar, Reactions: models.NewReactionCounts(), Source: "following"}
	round.ID = "r1"
	round.TotalScore = 75
	round.Reactions["fire"] = 2

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/feed", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(service.FeedPage{Items: []feed.RoundView{round}})
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run([]string{"--api", srv.URL + "/api/v1", "--token", "secret", "feed"}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Pebble Beach Golf Links")
	assert.Contains(t, out.String(), "+3")
	assert.Contains(t, out.String(), feed.AnonymousAuthor)
}

func TestRun_SettingsSetSendsOnlyGivenFlags(t *testing.T) {
	var patch map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &patch))
		_ = json.NewEncoder(w).Encode(settings.FeedSettings{Mode: settings.ModeDiscover, DiscoveryRatio: 0.3, FeedLimit: 20})
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run([]string{"--api", srv.URL, "settings", "set", "--mode", "discover"}, &out)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"mode": "discover"}, patch)
	assert.Contains(t, out.String(), `"mode": "discover"`)
}

func TestRun_TokenRoundTrips(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--secret", "dev", "token", "u-1", "u1@example.com"}, &out))

	claims, err := jwt.ParseToken(strings.TrimSpace(out.String()), "dev")
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "u1@example.com", claims.Email)

	assert.Error(t, run([]string{"token", "u-1"}, &out), "no secret")
}

func TestRun_Errors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(nil, &out))
	assert.EqualError(t, run([]string{"launch"}, &out), `unknown command "launch"`)
	assert.EqualError(t, run([]string{"react", "r1", "meh"}, &out), `unknown reaction type "meh"`)
	assert.Error(t, run([]string{"settings", "set"}, &out))
}

func TestRun_APIErrorsSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"Admin access required"}`))
	}))
	defer srv.Close()

	err := run([]string{"--api", srv.URL, "dashboard"}, io.Discard)
	assert.EqualError(t, err, "api: 403 Admin access required")
}
