package postprocess

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// ErrAssetTimeout is returned when the lookup textures are not ready within the asset timeout.
var ErrAssetTimeout = errors.New("smaa lookup textures timed out")

const (
	// AreaFileName and SearchFileName are the names used by ExportLookupTextures.
	AreaFileName   = "smaa_area.png"
	SearchFileName = "smaa_search.png"
)

// AssetSource produces one SMAA lookup table.
type AssetSource interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Load produces the table. Implementations should return early when ctx is done.
	Load(ctx context.Context) (*LookupTexture, error)
}

// GeneratedArea computes the area table in memory.
type GeneratedArea struct{}

func (GeneratedArea) Name() string { return "generated area" }

func (GeneratedArea) Load(ctx context.Context) (*LookupTexture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return GenerateAreaTexture(), nil
}

// GeneratedSearch computes the search table in memory.
type GeneratedSearch struct{}

func (GeneratedSearch) Name() string { return "generated search" }

func (GeneratedSearch) Load(ctx context.Context) (*LookupTexture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return GenerateSearchTexture(), nil
}

// FileAsset reads a table previously written by ExportLookupTextures.
type FileAsset struct {
	Path string
	// Search selects the search table layout. The area table is expected otherwise.
	Search bool
}

func (f FileAsset) Name() string { return f.Path }

func (f FileAsset) Load(ctx context.Context) (*LookupTexture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	width, height, channels := AreaTexSize, AreaTexSize, 2
	if f.Search {
		width, height, channels = SearchTexWidth, SearchTexHeight, 1
	}
	t, err := ReadLookupPNG(f.Path, file, channels)
	if err != nil {
		return nil, err
	}
	if err := t.check(width, height, channels); err != nil {
		return nil, err
	}
	return t, nil
}

// ExportLookupTextures writes the generated tables into dir as PNG files.
//
// Parameters:
//   - dir: the output directory, created if missing
//
// Returns:
//   - []string: the written paths
//   - error: a file system or encoding error
func ExportLookupTextures(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tables := map[string]*LookupTexture{
		AreaFileName:   GenerateAreaTexture(),
		SearchFileName: GenerateSearchTexture(),
	}
	var written []string
	for _, name := range []string{AreaFileName, SearchFileName} {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return written, err
		}
		err = tables[name].WritePNG(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return written, fmt.Errorf("export %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

type assetResult struct {
	tex *LookupTexture
	err error
}

// loadLookupTextures loads both tables on the pool and waits for both, for ctx, or for the timeout,
// whichever comes first. Late results are dropped.
func loadLookupTextures(ctx context.Context, pool worker.DynamicWorkerPool, timeout time.Duration, area, search AssetSource) (*LookupTexture, *LookupTexture, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sources := []AssetSource{area, search}
	results := make([]chan assetResult, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		results[i] = make(chan assetResult, 1)
		wg.Add(1)
		srcCap, out := src, results[i]
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				tex, err := srcCap.Load(ctx)
				out <- assetResult{tex: tex, err: err}
				return nil, err
			},
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w after %s", ErrAssetTimeout, timeout)
		}
		return nil, nil, ctx.Err()
	}

	var loaded [2]*LookupTexture
	for i, ch := range results {
		r := <-ch
		if r.err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", sources[i].Name(), r.err)
		}
		loaded[i] = r.tex
	}
	if err := loaded[0].check(AreaTexSize, AreaTexSize, 2); err != nil {
		return nil, nil, err
	}
	if err := loaded[1].check(SearchTexWidth, SearchTexHeight, 1); err != nil {
		return nil, nil, err
	}
	return loaded[0], loaded[1], nil
}
