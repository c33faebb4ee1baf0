package source

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hpcloud/tail"

	"github.com/logrelay/logrelay/internal/config"
	"github.com/logrelay/logrelay/internal/entry"
)

// Enqueuer is the producer-facing slice of the shipping pipeline.
type Enqueuer interface {
	Enqueue(e entry.Entry)
}

// follower tails one log file and enqueues an entry per line. It survives
// rotation (reopen) and stops when its context is cancelled.
type follower struct {
	src    config.Source
	enq    Enqueuer
	cancel context.CancelFunc
	done   chan struct{}
}

func startFollower(ctx context.Context, src config.Source, enq Enqueuer) *follower {
	fctx, cancel := context.WithCancel(ctx)
	f := &follower{
		src:    src,
		enq:    enq,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go f.run(fctx)
	return f
}

func (f *follower) stop() {
	f.cancel()
	<-f.done
}

func (f *follower) run(ctx context.Context) {
	defer close(f.done)

	t, err := tail.TailFile(f.src.Path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Poll:     true,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:   tail.DiscardingLogger,
	})
	if err != nil {
		slog.Error("source: failed to tail file", "source", f.src.ID, "path", f.src.Path, "err", err)
		return
	}
	defer t.Cleanup()

	slog.Info("source: following", "source", f.src.ID, "path", f.src.Path)

	for {
		select {
		case line, ok := <-t.Lines:
			if !ok {
				return
			}
			if line == nil {
				continue
			}
			if line.Err != nil {
				slog.Warn("source: read error", "source", f.src.ID, "err", line.Err)
				continue
			}
			f.enq.Enqueue(f.parseLine(line.Text))

		case <-ctx.Done():
			// tail blocks on Lines; Stop unblocks and tears it down.
			_ = t.Stop()
			return
		}
	}
}

// parseLine turns one raw log line into an Entry. Lines that are JSON
// objects contribute their level/time/pid/msg fields; every other key lands
// in meta. Anything else ships as a plain info-level message.
func (f *follower) parseLine(raw string) entry.Entry {
	e := entry.Entry{
		Level: entry.LevelInfo,
		Time:  time.Now().UTC(),
		PID:   os.Getpid(),
		Msg:   raw,
	}

	if strings.HasPrefix(strings.TrimSpace(raw), "{") {
		var fields map[string]any
		if err := json.Unmarshal([]byte(raw), &fields); err == nil {
			e = fromFields(fields, e)
		}
	}

	if len(f.src.Meta) > 0 {
		if e.Meta == nil {
			e.Meta = make(map[string]any, len(f.src.Meta))
		}
		for k, v := range f.src.Meta {
			// Static source meta never overrides what the line itself says.
			if _, ok := e.Meta[k]; !ok {
				e.Meta[k] = v
			}
		}
	}
	return e
}

// fromFields maps a decoded JSON line onto the entry, defaulting to base
// for anything absent or malformed.
func fromFields(fields map[string]any, base entry.Entry) entry.Entry {
	e := base

	if v, ok := fields["msg"].(string); ok {
		e.Msg = v
		delete(fields, "msg")
	}
	if v, ok := fields["level"].(string); ok {
		if lvl, err := entry.ParseLevel(v); err == nil {
			e.Level = lvl
		}
		delete(fields, "level")
	}
	if v, ok := fields["time"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			e.Time = ts
		}
		delete(fields, "time")
	}
	if v, ok := fields["pid"].(float64); ok {
		e.PID = int(v)
		delete(fields, "pid")
	}

	if len(fields) > 0 {
		e.Meta = fields
	}
	return e
}
