package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestAgentValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultAgent().Validate())
	})

	t.Run("random agent ignores search settings", func(t *testing.T) {
		require.NoError(t, Agent{Kind: KindRandom}.Validate())
	})

	t.Run("depth below one", func(t *testing.T) {
		a := DefaultAgent()
		a.Depth = 0
		err := a.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), ErrInvalidDepth.Error())
	})

	t.Run("unknown profile and depth reported together", func(t *testing.T) {
		a := Agent{Kind: KindAlphaBeta, Depth: -1, Profile: "positional"}
		err := a.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), ErrInvalidDepth.Error())
		require.Contains(t, err.Error(), ErrUnknownProfile.Error())
	})

	t.Run("unknown kind", func(t *testing.T) {
		err := Agent{Kind: "mcts"}.Validate()
		require.True(t, errors.Is(err, ErrUnknownKind))
	})
}

func TestParseProfile(t *testing.T) {
	tests := map[string]Profile{
		"material":          ProfileMaterial,
		"mat_mob":           ProfileMaterialMobility,
		"material_mobility": ProfileMaterialMobility,
		" Aggressive ":      ProfileAggressive,
	}
	for in, want := range tests {
		got, err := ParseProfile(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseProfile("tal")
	require.True(t, errors.Is(err, ErrUnknownProfile))
}

func TestAgentString(t *testing.T) {
	require.Equal(t, "alphabeta(d=3,eval=mat_mob,ord=Y)", DefaultAgent().String())
	require.Equal(t, "random(seed=4)", Agent{Kind: KindRandom, Seed: 4}.String())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "game.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
event: Club Night
human_white: false
white:
  kind: random
  seed: 9
black:
  kind: alphabeta
  depth: 2
  profile: material_mobility
  ordering: false
`), 0o644))

		g, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "Club Night", g.Event)
		require.False(t, g.HumanWhite)
		require.Equal(t, KindRandom, g.White.Kind)
		require.Equal(t, uint64(9), g.White.Seed)
		require.Equal(t, 2, g.Black.Depth)
		require.Equal(t, ProfileMaterialMobility, g.Black.Profile)
		require.False(t, g.Black.Ordering)
		require.Equal(t, "replays", g.ReplayDir, "Unset fields should keep their defaults")
	})

	t.Run("json with invalid depth", func(t *testing.T) {
		path := filepath.Join(dir, "game.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"black": {"kind": "alphabeta", "depth": 0, "profile": "material"}}`), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), ErrInvalidDepth.Error())
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "game.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o644))
		_, err := Load(path)
		require.Error(t, err)
	})
}
