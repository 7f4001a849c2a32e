package watcher

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/DeusData/snippets-explorer/internal/discover"
)

const (
	defaultInterval = 1 * time.Second
	maxInterval     = 60 * time.Second
)

type snapshot struct {
	fingerprint uint64
	files       int
}

type rootState struct {
	snap     *snapshot
	interval time.Duration
	nextPoll time.Time
}

// RefreshFunc is called when snippet files under root changed.
type RefreshFunc func(ctx context.Context, root string) error

// RootsFunc returns the directories to watch. It is called on every tick,
// so configuration changes are picked up.
type RootsFunc func() []string

// Watcher polls snippet source directories and triggers a refresh when a
// snippet file is added, removed or modified.
type Watcher struct {
	roots     RootsFunc
	refreshFn RefreshFunc
	base      time.Duration
	states    map[string]*rootState
	ctx       context.Context
}

// New creates a Watcher. base is the tick and minimum poll interval; zero
// selects one second.
func New(roots RootsFunc, refreshFn RefreshFunc, base time.Duration) *Watcher {
	if base <= 0 {
		base = defaultInterval
	}
	return &Watcher{
		roots:     roots,
		refreshFn: refreshFn,
		base:      base,
		states:    make(map[string]*rootState),
		ctx:       context.Background(),
	}
}

// Run blocks until ctx is cancelled. Ticks at the base interval, polling
// each root only when its adaptive interval has elapsed.
func (w *Watcher) Run(ctx context.Context) {
	w.ctx = ctx
	ticker := time.NewTicker(w.base)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pollAll()
		}
	}
}

func (w *Watcher) pollAll() {
	now := time.Now()
	for _, root := range w.roots() {
		state, exists := w.states[root]
		if !exists {
			state = &rootState{}
			w.states[root] = state
		}
		if exists && now.Before(state.nextPoll) {
			continue
		}
		w.pollRoot(root, state)
	}
}

// pollRoot compares a fresh snapshot with the previous one. The first poll
// only records a baseline. A root that does not exist yet has an empty
// snapshot, so creating it later counts as a change.
func (w *Watcher) pollRoot(root string, state *rootState) {
	snap, err := captureSnapshot(w.ctx, root)
	if err != nil {
		slog.Warn("watcher.snapshot", "root", root, "err", err)
		state.nextPoll = time.Now().Add(max(state.interval, w.base))
		return
	}

	interval := pollInterval(w.base, snap.files)

	if state.snap == nil {
		slog.Debug("watcher.baseline", "root", root, "files", snap.files)
		state.snap = snap
		state.interval = interval
		state.nextPoll = time.Now().Add(interval)
		return
	}

	if *state.snap == *snap {
		state.interval = interval
		state.nextPoll = time.Now().Add(interval)
		return
	}

	slog.Info("watcher.changed", "root", root, "files", snap.files)
	if err := w.refreshFn(w.ctx, root); err != nil {
		slog.Warn("watcher.refresh", "root", root, "err", err)
		// Keep old snapshot so we retry next cycle
		state.nextPoll = time.Now().Add(interval)
		return
	}

	state.snap = snap
	state.interval = interval
	state.nextPoll = time.Now().Add(interval)
}

// captureSnapshot hashes path, size and mtime of every snippet file under
// root. Discover walks in lexical order, so equal trees hash equally.
func captureSnapshot(ctx context.Context, root string) (*snapshot, error) {
	files, err := discover.Discover(ctx, []string{root})
	if err != nil {
		return nil, err
	}

	h := xxh3.New()
	var buf []byte
	for _, f := range files {
		buf = buf[:0]
		buf = append(buf, f.RelPath...)
		buf = append(buf, 0)
		buf = strconv.AppendInt(buf, f.Size, 10)
		buf = append(buf, 0)
		buf = strconv.AppendInt(buf, f.ModTime, 10)
		buf = append(buf, '\n')
		_, _ = h.Write(buf)
	}
	return &snapshot{fingerprint: h.Sum64(), files: len(files)}, nil
}

// pollInterval is base plus base per 500 files, capped at 60s.
func pollInterval(base time.Duration, fileCount int) time.Duration {
	return min(base+time.Duration(fileCount/500)*base, maxInterval)
}
