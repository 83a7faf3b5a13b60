package watch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/nxadm/tail"

	"selectext/internal/log"
)

// Record is a single line read from a followed file.
type Record struct {
	Path string
	Line int
	Text string
	Err  error
}

// Options controls how files are read.
type Options struct {
	// Follow keeps reading as the files grow; otherwise each file is read once.
	Follow bool
	// FromEnd skips the existing content of a followed file.
	FromEnd bool
}

// TailFiles streams non-blank lines from multiple files. The channel closes
// once every file is exhausted (or ctx is done).
func TailFiles(ctx context.Context, files []string, opts Options) (<-chan Record, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no files provided")
	}

	tails := make([]*tail.Tail, 0, len(files))
	for _, file := range files {
		cfg := tail.Config{
			Follow:    opts.Follow,
			ReOpen:    opts.Follow,
			MustExist: true,
			Logger:    tail.DiscardingLogger,
		}
		if opts.Follow && opts.FromEnd {
			cfg.Location = &tail.SeekInfo{Offset: 0, Whence: 2}
		}
		t, err := tail.TailFile(file, cfg)
		if err != nil {
			for _, started := range tails {
				_ = started.Stop()
				started.Cleanup()
			}
			return nil, fmt.Errorf("tail %s: %w", file, err)
		}
		tails = append(tails, t)
	}

	out := make(chan Record)
	wg := &sync.WaitGroup{}
	wg.Add(len(tails))

	for _, t := range tails {
		go func(t *tail.Tail) {
			defer wg.Done()
			defer t.Cleanup()
			defer func() { _ = t.Stop() }()
			lineNo := 0
			for {
				select {
				case <-ctx.Done():
					return
				case line, ok := <-t.Lines:
					if !ok {
						return
					}
					lineNo++
					rec := Record{Path: t.Filename, Line: lineNo}
					if line.Err != nil {
						rec.Err = line.Err
						log.ErrorErr(log.CatWatch, "read line", line.Err, "path", t.Filename)
					} else {
						rec.Text = strings.TrimRight(line.Text, "\r")
						if strings.TrimSpace(rec.Text) == "" {
							continue
						}
					}
					select {
					case out <- rec:
					case <-ctx.Done():
						return
					}
				}
			}
		}(t)
	}

	go func() {
		defer close(out)
		wg.Wait()
	}()

	return out, nil
}
