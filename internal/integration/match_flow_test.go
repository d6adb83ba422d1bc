package integration

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tiledraft/tiledraft-go/internal/config"
	"github.com/tiledraft/tiledraft-go/internal/game"
	"github.com/tiledraft/tiledraft-go/internal/game/board"
	"github.com/tiledraft/tiledraft-go/internal/game/watchers"
	"github.com/tiledraft/tiledraft-go/internal/inspect"
	"github.com/tiledraft/tiledraft-go/internal/match"
)

type matchEnv struct {
	cfg     *config.Config
	manager *match.Manager
	server  *httptest.Server
}

func newMatchEnv(t *testing.T, yaml string) *matchEnv {
	t.Helper()
	logger := zaptest.NewLogger(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)

	manager := match.NewManager(logger)
	srv := httptest.NewServer(inspect.New(manager, logger).Router())
	t.Cleanup(srv.Close)

	return &matchEnv{cfg: cfg, manager: manager, server: srv}
}

// candidates lists every pattern-line draft for the tiles on the table.
func candidates(s game.Snapshot) []game.Draft {
	var out []game.Draft
	for _, f := range s.Factories {
		for c := range f.Tiles {
			for row := 0; row < board.Size; row++ {
				out = append(out, game.Draft{Factory: f.ID, Color: c, Row: row})
			}
		}
	}
	for c := range s.Center.Tiles {
		for row := 0; row < board.Size; row++ {
			out = append(out, game.Draft{Factory: game.CenterSource, Color: c, Row: row})
		}
	}
	return out
}

// playToEnd drives a match through the manager, trying random pattern-line
// drafts and falling back to the floor, which always accepts.
func playToEnd(t *testing.T, manager *match.Manager, m *match.Match, seed uint64) int {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 99))
	steps := 0
	for !m.Ended() {
		require.Less(t, steps, 3000, "match did not finish")
		snap := m.Snapshot().State
		opts := candidates(snap)
		require.NotEmpty(t, opts, "no tiles on the table mid-round")
		rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })

		accepted := false
		for _, d := range opts {
			out, err := manager.Step(m.ID, d)
			require.NoError(t, err)
			if out.Accepted {
				accepted = true
				break
			}
			assert.Equal(t, game.ReasonIllegalPlacement, out.Reason)
		}
		if !accepted {
			d := opts[0]
			d.Row = game.FloorRow
			out, err := manager.Step(m.ID, d)
			require.NoError(t, err)
			require.True(t, out.Accepted, "floor draft rejected: %s", out.Reason)
		}
		steps++
	}
	return steps
}

type inspectedMatch struct {
	ID       string                          `json:"id"`
	Checksum string                          `json:"checksum"`
	EndTime  *string                         `json:"end_time"`
	Stats    map[string]watchers.PlayerStats `json:"stats"`
	State    struct {
		Phase   string `json:"phase"`
		Winners []int  `json:"winners"`
		Players []struct {
			Name  string     `json:"name"`
			Score int        `json:"score"`
			Wall  board.Wall `json:"wall"`
		} `json:"players"`
	} `json:"state"`
}

func getMatch(t *testing.T, env *matchEnv, id string) inspectedMatch {
	t.Helper()
	resp, err := http.Get(env.server.URL + "/matches/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out inspectedMatch
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestMatchFlowThroughInspect(t *testing.T) {
	env := newMatchEnv(t, `
game:
  players: [jack, me]
  seed: 77
`)
	m, err := env.manager.Create(env.cfg.Game.Options())
	require.NoError(t, err)

	steps := playToEnd(t, env.manager, m, 3)
	assert.Greater(t, steps, 0)

	got := getMatch(t, env, m.ID)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.Snapshot().Checksum, got.Checksum)
	assert.NotNil(t, got.EndTime)
	assert.Equal(t, "ENDED", got.State.Phase)
	assert.NotEmpty(t, got.State.Winners)

	for _, p := range got.State.Players {
		st, ok := got.Stats[p.Name]
		require.True(t, ok, "no stats for %s", p.Name)
		assert.Equal(t, p.Score, st.Wall.ScoreDeltas+st.Wall.EndBonus, "score for %s", p.Name)

		filled := 0
		for r := range p.Wall {
			for c := range p.Wall[r] {
				if p.Wall[r][c].Filled {
					filled++
				}
			}
		}
		assert.Equal(t, filled, st.Wall.TilesPlaced, "wall tiles for %s", p.Name)
		assert.Positive(t, st.Draft.Drafts)
	}

	resp, err := http.Get(env.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, float64(0), health["active_matches"])
}

func TestSeededMatchesAgreeAcrossManagers(t *testing.T) {
	env := newMatchEnv(t, `
game:
  players: [ann, ben, cat]
  seed: 4242
`)
	a, err := env.manager.Create(env.cfg.Game.Options())
	require.NoError(t, err)
	b, err := match.NewManager(zaptest.NewLogger(t)).Create(env.cfg.Game.Options())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Snapshot().Checksum, b.Snapshot().Checksum)
	assert.Equal(t, a.Snapshot().Stats, b.Snapshot().Stats)
}
