package schemas

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"pkt.systems/pslog"
)

// Op is the kind of change seen on a schema file.
type Op int

const (
	// OpChanged means the file contents changed.
	OpChanged Op = iota + 1
	// OpAdded means a schema file appeared.
	OpAdded
	// OpRemoved means a schema file went away.
	OpRemoved
)

// Change is a filesystem event for one schema file.
type Change struct {
	File string
	Op   Op
}

// Watcher reports schema file changes in a set of directories.
type Watcher struct {
	fsw       *fsnotify.Watcher
	onChange  func(Change)
	log       pslog.Logger
	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// Watch starts watching dirs. Missing directories are skipped. onChange runs
// on the watcher goroutine.
func Watch(ctx context.Context, dirs []string, onChange func(Change)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		onChange: onChange,
		log:      pslog.Ctx(ctx),
		done:     make(chan struct{}),
	}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			_ = fsw.Close()
			return nil, err
		}
		if _, err := os.Stat(abs); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			_ = fsw.Close()
			return nil, err
		}
		if err := fsw.Add(abs); err != nil {
			_ = fsw.Close()
			return nil, err
		}
		w.log.Debug("schema watch", "dir", abs)
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Ext(ev.Name) != Extension {
				continue
			}
			op := convertOp(ev.Op)
			if op == 0 {
				continue
			}
			if w.onChange != nil {
				w.onChange(Change{File: ev.Name, Op: op})
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("schema watch error", "err", err)
		}
	}
}

func convertOp(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Create):
		return OpAdded
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return OpRemoved
	case op.Has(fsnotify.Write):
		return OpChanged
	default:
		return 0
	}
}

// Close stops the watcher and waits for the event goroutine.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}
