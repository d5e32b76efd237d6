package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/threadmap/pkg/pipeline"
)

// watchDebounce collapses the burst of events editors emit for one save.
const watchDebounce = 300 * time.Millisecond

// watch lays out an input again after each change until ctx is canceled.
// Directories are watched rather than files because many editors save by
// renaming a temporary file over the original.
func (c *CLI) watch(ctx context.Context, runner *pipeline.Runner, inputs []string, output string, opts pipeline.Options) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer w.Close()

	watched := make(map[string]string, len(inputs)) // clean path -> input as given
	dirs := make(map[string]bool)
	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return err
		}
		watched[abs] = in
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		c.Logger.Debug("watching", "dir", dir)
	}

	printInfo("Watching %d file(s), press Ctrl+C to stop", len(inputs))

	relayouts := newDebouncer(watchDebounce, func(input string) {
		if ctx.Err() != nil {
			return
		}
		res, err := layoutFile(ctx, runner, input, output, opts)
		if err != nil {
			if ctx.Err() == nil {
				printError("%v", err)
			}
			return
		}
		printResult(res)
	})
	defer relayouts.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			input, ok := watched[abs]
			if !ok {
				continue
			}
			c.Logger.Debug("input changed", "file", input, "op", event.Op.String())

			relayouts.schedule(input)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.Logger.Error("file watcher error", "error", err)
		}
	}
}

// debouncer runs fn for a key once its events go quiet for delay. Runs for
// the same key never overlap, so two saves cannot write one output at once.
type debouncer struct {
	delay time.Duration
	fn    func(key string)

	mu     sync.Mutex
	timers map[string]*time.Timer
	locks  map[string]*sync.Mutex
	wg     sync.WaitGroup
}

func newDebouncer(delay time.Duration, fn func(key string)) *debouncer {
	return &debouncer{
		delay:  delay,
		fn:     fn,
		timers: make(map[string]*time.Timer),
		locks:  make(map[string]*sync.Mutex),
	}
}

// schedule (re)starts the quiet period for key.
func (d *debouncer) schedule(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t := d.timers[key]; t != nil && t.Stop() {
		d.wg.Done()
	}
	lock := d.locks[key]
	if lock == nil {
		lock = new(sync.Mutex)
		d.locks[key] = lock
	}
	d.wg.Add(1)
	d.timers[key] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		lock.Lock()
		defer lock.Unlock()
		d.fn(key)
	})
}

// stop cancels pending runs and waits for the ones in flight.
func (d *debouncer) stop() {
	d.mu.Lock()
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
