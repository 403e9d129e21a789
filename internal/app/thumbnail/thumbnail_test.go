package thumbnail

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/phasebox/internal/domain/phase"
)

// scriptedResolver returns the queued results in order, then succeeds.
type scriptedResolver struct {
	results []error
	calls   int
}

func (r *scriptedResolver) Resolve(ctx context.Context, ref string) error {
	r.calls++
	if len(r.results) == 0 {
		return nil
	}
	err := r.results[0]
	r.results = r.results[1:]
	return err
}

func (r *scriptedResolver) Name() string { return "scripted" }

func TestTracker_Render_Resolvable(t *testing.T) {
	tr := NewTracker(&scriptedResolver{}, "")
	item := phase.Item{ID: "a", ThumbnailPath: "a.png"}

	assert.Equal(t, "a.png", tr.Render(context.Background(), item))
	assert.False(t, tr.FellBack("a"))
	assert.Equal(t, DefaultFallback, tr.Fallback())
}

func TestTracker_Render_FallbackIsSticky(t *testing.T) {
	res := &scriptedResolver{results: []error{ErrUnresolvable}}
	tr := NewTracker(res, "fallback.png")
	item := phase.Item{ID: "a", ThumbnailPath: "broken.png"}

	for i := 0; i < 5; i++ {
		assert.Equal(t, "fallback.png", tr.Render(context.Background(), item), "render %d", i)
	}
	assert.True(t, tr.FellBack("a"))
	// no retry of the original path
	assert.Equal(t, 1, res.calls)
}

func TestTracker_Forget_EndsLifetime(t *testing.T) {
	res := &scriptedResolver{results: []error{ErrUnresolvable}}
	tr := NewTracker(res, "fallback.png")
	item := phase.Item{ID: "a", ThumbnailPath: "a.png"}

	assert.Equal(t, "fallback.png", tr.Render(context.Background(), item))

	tr.Forget("a")
	assert.False(t, tr.FellBack("a"))
	assert.Equal(t, "a.png", tr.Render(context.Background(), item))
}

func TestTracker_PerItemState(t *testing.T) {
	res, err := NewStaticResolver(map[string]any{"deny": []string{"broken.png"}})
	require.NoError(t, err)
	tr := NewTracker(res, "fallback.png")

	good := phase.Item{ID: "good", ThumbnailPath: "ok.png"}
	bad := phase.Item{ID: "bad", ThumbnailPath: "broken.png"}

	assert.Equal(t, "fallback.png", tr.Render(context.Background(), bad))
	assert.Equal(t, "ok.png", tr.Render(context.Background(), good))
	assert.True(t, tr.FellBack("bad"))
	assert.False(t, tr.FellBack("good"))
}

func TestStaticResolver(t *testing.T) {
	res, err := NewStaticResolver(nil)
	require.NoError(t, err)
	assert.Equal(t, "static", res.Name())

	assert.NoError(t, res.Resolve(context.Background(), "anything.png"))
	assert.True(t, errors.Is(res.Resolve(context.Background(), ""), ErrUnresolvable))
}

func TestFileResolver(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "thumbs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "thumbs", "a.png"), []byte("png"), 0o644))

	res, err := NewFileResolver(map[string]any{"root": root})
	require.NoError(t, err)
	assert.Equal(t, "file", res.Name())

	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{name: "existing file", ref: "thumbs/a.png", wantErr: false},
		{name: "missing file", ref: "thumbs/b.png", wantErr: true},
		{name: "directory", ref: "thumbs", wantErr: true},
		{name: "empty", ref: "", wantErr: true},
		{name: "escapes root", ref: "../etc/passwd", wantErr: true},
		{name: "absolute", ref: "/etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := res.Resolve(context.Background(), tt.ref)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrUnresolvable))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileResolver_Defaults(t *testing.T) {
	res, err := NewFileResolver(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "assets", res.root)
}

func TestNewResolver(t *testing.T) {
	r, err := NewResolver("", nil)
	require.NoError(t, err)
	assert.Equal(t, "static", r.Name())

	r, err = NewResolver("file", map[string]any{"root": t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "file", r.Name())

	_, err = NewResolver("http", nil)
	assert.Error(t, err)
}
