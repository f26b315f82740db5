package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/sync/errgroup"

	"abibind/internal/diag"
)

// BatchResult is the per-file outcome of a directory run.
type BatchResult struct {
	Path    string // input ABI file
	OutPath string // generated file (written only on success)
	Err     error
	Bag     *diag.Bag
	Elapsed time.Duration
}

// OutputCollisionError reports two inputs whose normalized package names
// resolve to the same output file. Generating either would silently clobber
// the other, so the batch refuses to start.
type OutputCollisionError struct {
	OutPath string
	First   string
	Second  string
}

func (e *OutputCollisionError) Error() string {
	return fmt.Sprintf("driver: inputs %s and %s both generate %s", e.First, e.Second, e.OutPath)
}

// ListABIFiles возвращает отсортированный список всех *.json файлов в директории
func ListABIFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// GenerateDir generates every ABI file under dir into outDir, one package
// per input: outDir/<name>/<name>.go with package <name>.
//
// Runs are independent — they share no mutable state — so files are
// processed in parallel; each output is written whole via the atomic write
// in GenerateFile, never interleaved with another run's. A failing file
// does not stop the others: callers decide what to do with per-file errors.
func GenerateDir(ctx context.Context, dir, outDir string, opts Options, jobs int, sink ProgressSink) ([]BatchResult, error) {
	files, err := ListABIFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	// Проверяем коллизии выходных путей до запуска генерации
	outPaths := make(map[string]string, len(files))
	for _, path := range files {
		name := PackageNameFor(path)
		outPath := filepath.Join(outDir, name, name+".go")
		if prev, ok := outPaths[outPath]; ok {
			return nil, &OutputCollisionError{OutPath: outPath, First: prev, Second: path}
		}
		outPaths[outPath] = path
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	if sink != nil {
		for _, path := range files {
			sink.OnEvent(Event{File: path, Stage: StageParse, Status: StatusQueued})
		}
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]BatchResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = BatchResult{Path: path, Err: gctx.Err()}
				return nil
			default:
			}

			if sink != nil {
				sink.OnEvent(Event{File: path, Stage: StageParse, Status: StatusWorking})
			}

			start := time.Now()
			name := PackageNameFor(path)
			outPath := filepath.Join(outDir, name, name+".go")

			fileOpts := opts
			fileOpts.PackageName = name
			res, err := GenerateFile(path, outPath, fileOpts)

			elapsed := time.Since(start)
			br := BatchResult{Path: path, Err: err, Elapsed: elapsed}
			if res != nil {
				br.Bag = res.Bag
			}
			if err == nil {
				br.OutPath = outPath
			}
			results[i] = br

			if sink != nil {
				status := StatusDone
				if err != nil {
					status = StatusError
				}
				sink.OnEvent(Event{File: path, Stage: StageWrite, Status: status, Err: err, Elapsed: elapsed})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// PackageNameFor derives the generated package name from an input file:
// the base name without extension, lower-cased, with every rune outside
// [a-z0-9_] replaced by an underscore and a leading digit prefixed.
func PackageNameFor(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	for _, r := range base {
		r = unicode.ToLower(r)
		switch {
		case r >= 'a' && r <= 'z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if b.Len() == 0 {
				b.WriteByte('x')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "bindings"
	}
	return b.String()
}
