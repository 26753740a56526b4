package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/shelf/cmd/shelf/commands"
	"go.trai.ch/shelf/internal/adapters/token"
	"go.trai.ch/shelf/internal/app"
	"go.trai.ch/shelf/internal/build"
	"go.trai.ch/shelf/internal/core/domain"
)

type mockApp struct {
	checkFunc  func(ctx context.Context, paths []string) map[string]bool
	loadFunc   func(ctx context.Context, category string) []domain.Record
	deleteFunc func(ctx context.Context, category, id string) error
	setToken   func(value string) error

	absent, present []string
	cleared         bool
	status          token.Source
	stats           app.Stats
}

func (m *mockApp) CheckMultiple(ctx context.Context, paths []string) map[string]bool {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, paths)
	}
	return nil
}

func (m *mockApp) LoadFileList(ctx context.Context, category string) []domain.Record {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, category)
	}
	return nil
}

func (m *mockApp) Delete(ctx context.Context, category, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, category, id)
	}
	return nil
}

func (m *mockApp) MarkAbsent(paths ...string)  { m.absent = append(m.absent, paths...) }
func (m *mockApp) MarkPresent(paths ...string) { m.present = append(m.present, paths...) }

func (m *mockApp) SetToken(value string) error {
	if m.setToken != nil {
		return m.setToken(value)
	}
	return nil
}

func (m *mockApp) ClearToken() error {
	m.cleared = true
	return nil
}

func (m *mockApp) TokenStatus() token.Source { return m.status }
func (m *mockApp) Stats() app.Stats          { return m.stats }

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Exists(t *testing.T) {
	var captured []string
	mock := &mockApp{
		checkFunc: func(_ context.Context, paths []string) map[string]bool {
			captured = paths
			return map[string]bool{"story": true}
		},
	}

	out, err := execute(t, mock, "exists", "story", "user-uploads")
	require.NoError(t, err)
	assert.Equal(t, []string{"story", "user-uploads"}, captured)
	assert.Equal(t, "story\ttrue\nuser-uploads\tfalse\n", out)
}

func TestCommands_ExistsRequiresPath(t *testing.T) {
	_, err := execute(t, &mockApp{}, "exists")
	require.Error(t, err)
}

func TestCommands_List(t *testing.T) {
	mock := &mockApp{
		loadFunc: func(_ context.Context, category string) []domain.Record {
			assert.Equal(t, "story", category)
			return []domain.Record{
				{ID: "1", Title: "First", Source: domain.ProvenanceRemote},
				{ID: "2", Title: "Second", Source: domain.ProvenanceLocal},
			}
		},
	}

	out, err := execute(t, mock, "list", "story")
	require.NoError(t, err)
	assert.Contains(t, out, "First")
	assert.Contains(t, out, "remote")
	assert.Contains(t, out, "local")
}

func TestCommands_Delete(t *testing.T) {
	t.Run("reports success", func(t *testing.T) {
		mock := &mockApp{
			deleteFunc: func(_ context.Context, category, id string) error {
				assert.Equal(t, "story", category)
				assert.Equal(t, "42", id)
				return nil
			},
		}

		out, err := execute(t, mock, "delete", "story", "42")
		require.NoError(t, err)
		assert.Contains(t, out, "deleted story/42")
	})

	t.Run("returns error on failure", func(t *testing.T) {
		mock := &mockApp{
			deleteFunc: func(context.Context, string, string) error {
				return errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "delete", "story", "42")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})
}

func TestCommands_Mark(t *testing.T) {
	mock := &mockApp{}

	_, err := execute(t, mock, "mark", "absent", "a", "b")
	require.NoError(t, err)
	_, err = execute(t, mock, "mark", "present", "c")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, mock.absent)
	assert.Equal(t, []string{"c"}, mock.present)
}

func TestCommands_Token(t *testing.T) {
	var stored string
	mock := &mockApp{
		status: token.SourceStored,
		setToken: func(value string) error {
			stored = value
			return nil
		},
	}

	_, err := execute(t, mock, "token", "set", "secret")
	require.NoError(t, err)
	assert.Equal(t, "secret", stored)

	out, err := execute(t, mock, "token", "status")
	require.NoError(t, err)
	assert.Equal(t, "stored\n", out)

	_, err = execute(t, mock, "token", "clear")
	require.NoError(t, err)
	assert.True(t, mock.cleared)
}

func TestCommands_Stats(t *testing.T) {
	mock := &mockApp{
		stats: app.Stats{
			Environment: domain.EnvironmentProduction,
			Existence:   domain.ExistenceStats{CacheSize: 3, KnownAbsent: 1},
			Loader:      domain.LoaderStats{CachedCategories: 2},
			Token:       token.SourceEnv,
		},
	}

	out, err := execute(t, mock, "mark", "absent", "x", "--stats")
	require.NoError(t, err)
	assert.Contains(t, out, "environment: production")
	assert.Contains(t, out, "cached=3 absent=1")
	assert.Contains(t, out, "loader: cached=2")

	out, err = execute(t, mock, "mark", "absent", "x")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCommands_ConfigFlagIsAccepted(t *testing.T) {
	_, err := execute(t, &mockApp{}, "--config", "custom.yaml", "mark", "absent", "x")
	require.NoError(t, err)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}
