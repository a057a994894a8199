package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/mgesture/internal/gesture"
)

func sampleConfig() gesture.Config {
	return gesture.Config{
		DefaultDelay:    gesture.Absent,
		MinMoveDistance: 14,
		Gestures: []gesture.Definition{
			{ID: "a1", Sequence: []gesture.Direction{gesture.DirectionLeft}, Action: gesture.ActionNavigateBack},
			{Sequence: []gesture.Direction{gesture.DirectionDown, gesture.DirectionRight}, Action: gesture.ActionOpenURL, URL: "https://example.com"},
		},
	}
}

func TestFileTierCodecs(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, YAMLCodec{}} {
		t.Run(codec.Ext(), func(t *testing.T) {
			ctx := context.Background()
			tier := NewFileTier(SourceSync, filepath.Join(t.TempDir(), "nested"), codec)

			_, err := tier.Get(ctx, ConfigKey)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, tier.Put(ctx, ConfigKey, NewEnvelope(sampleConfig())))
			assert.FileExists(t, tier.Path(ConfigKey))

			env, err := tier.Get(ctx, ConfigKey)
			require.NoError(t, err)
			assert.Equal(t, Version, env.Version)
			assert.False(t, env.Config.HasDefaultDelay(), "absent scalar survives a round trip")
			assert.Equal(t, 14.0, env.Config.MinMoveDistance)
			assert.Equal(t, sampleConfig().Gestures, env.Config.Gestures)

			entries, err := os.ReadDir(tier.Dir())
			require.NoError(t, err)
			assert.Len(t, entries, 1, "no temp files are left behind")
		})
	}
}

func TestYAMLCodecReadsHandWrittenFile(t *testing.T) {
	doc := `version: 1
config:
  defaultDelay: 50
  minMoveDistance: 8
  gestures:
    - sequence: [up, " down "]
      action: reload
`
	env, err := YAMLCodec{}.Decode([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 50.0, env.Config.DefaultDelay)
	require.Len(t, env.Config.Gestures, 1)
	assert.Equal(t, []gesture.Direction{"up", " down "}, env.Config.Gestures[0].Sequence, "codecs do not normalize")
}

func TestYAMLCodecNonArrayGestures(t *testing.T) {
	env, err := YAMLCodec{}.Decode([]byte("version: 1\nconfig:\n  gestures: nope\n"))
	require.NoError(t, err)
	assert.Nil(t, env.Config.Gestures)
	assert.Error(t, gesture.Validate(env.Config))
}

func TestFileTierRejectsUnknownVersion(t *testing.T) {
	dir := t.TempDir()
	tier := NewFileTier(SourceLocal, dir, JSONCodec{})
	require.NoError(t, os.WriteFile(tier.Path(ConfigKey), []byte(`{"version":2,"config":{}}`), 0o644))

	_, err := tier.Get(context.Background(), ConfigKey)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestTieredReadFirstHitWins(t *testing.T) {
	ctx := context.Background()
	sync := NewMemory(SourceSync)
	local := NewMemory(SourceLocal)
	tiered := NewTiered(sync, local)

	_, ok, err := tiered.Read(ctx, ConfigKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, local.Put(ctx, ConfigKey, NewEnvelope(sampleConfig())))
	got, ok, err := tiered.Read(ctx, ConfigKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SourceLocal, got.Source)

	cfg := sampleConfig()
	cfg.Gestures = cfg.Gestures[:1]
	require.NoError(t, sync.Put(ctx, ConfigKey, NewEnvelope(cfg)))
	got, ok, err = tiered.Read(ctx, ConfigKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SourceSync, got.Source)
	assert.Len(t, got.Envelope.Config.Gestures, 1)
}

func TestTieredReadSkipsFailingTier(t *testing.T) {
	ctx := context.Background()
	sync := NewMemory(SourceSync)
	sync.ReadErr = errors.New("quota exceeded")
	local := NewMemory(SourceLocal)
	require.NoError(t, local.Put(ctx, ConfigKey, NewEnvelope(sampleConfig())))

	got, ok, err := NewTiered(sync, local).Read(ctx, ConfigKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SourceLocal, got.Source)
}

func TestTieredWriteFallsBack(t *testing.T) {
	ctx := context.Background()
	sync := NewMemory(SourceSync)
	local := NewMemory(SourceLocal)
	tiered := NewTiered(sync, local)

	src, err := tiered.Write(ctx, ConfigKey, NewEnvelope(sampleConfig()))
	require.NoError(t, err)
	assert.Equal(t, SourceSync, src)

	sync.WriteErr = errors.New("quota exceeded")
	src, err = tiered.Write(ctx, ConfigKey, NewEnvelope(sampleConfig()))
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, src)

	local.WriteErr = errors.New("disk full")
	_, err = tiered.Write(ctx, ConfigKey, NewEnvelope(sampleConfig()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Contains(t, err.Error(), "disk full")
}

func TestTieredHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tiered := NewTiered(NewMemory(SourceSync))

	_, _, err := tiered.Read(ctx, ConfigKey)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = tiered.Write(ctx, ConfigKey, NewEnvelope(sampleConfig()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryIsolatesStoredValues(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory(SourceSync)
	cfg := sampleConfig()
	require.NoError(t, mem.Put(ctx, ConfigKey, NewEnvelope(cfg)))

	cfg.Gestures[0].Sequence[0] = gesture.DirectionUp
	env, err := mem.Get(ctx, ConfigKey)
	require.NoError(t, err)
	assert.Equal(t, gesture.DirectionLeft, env.Config.Gestures[0].Sequence[0])
}

func TestTieredRemoveClearsEveryTier(t *testing.T) {
	ctx := context.Background()
	sync := NewMemory(SourceSync)
	local := NewFileTier(SourceLocal, t.TempDir(), JSONCodec{})
	tiered := NewTiered(sync, local)
	require.NoError(t, sync.Put(ctx, ConfigKey, NewEnvelope(sampleConfig())))
	require.NoError(t, local.Put(ctx, ConfigKey, NewEnvelope(sampleConfig())))

	require.NoError(t, tiered.Remove(ctx, ConfigKey))
	_, ok, err := tiered.Read(ctx, ConfigKey)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoFileExists(t, local.Path(ConfigKey))

	assert.NoError(t, tiered.Remove(ctx, ConfigKey), "removing nothing is fine")
}
