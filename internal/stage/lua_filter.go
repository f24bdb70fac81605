package stage

import (
	"context"
	"fmt"
	"time"

	"github.com/flarebyte/ssr/internal/parallel"
	"github.com/flarebyte/ssr/internal/ssr"
)

const luaFilterStage = "lua-filter"

type luaFilterRes struct {
	idx     int
	records []ssr.Record
	dropped int
	fatal   error
}

func luaFilterRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	if in.Meta == nil || in.Meta.Lua == nil || in.Meta.Lua.WhereInline == "" {
		return in, nil
	}
	pred := buildLuaPredicate(in.Meta.Lua.WhereInline)
	timeout := luaTimeoutFromMeta(in.Meta)

	n := len(in.Batches)
	workers := parallel.Workers(workersFromMeta(in.Meta), n)
	results := parallel.RunIndexed(n, workers, func(idx int) luaFilterRes {
		kept, dropped, err := filterBatchWithLua(ctx, in.Batches[idx], pred, timeout)
		return luaFilterRes{idx: idx, records: kept, dropped: dropped, fatal: err}
	})

	out := in
	out.Batches = make([]ssr.Batch, n)
	copy(out.Batches, in.Batches)
	var firstErr error
	dropped := 0
	for _, rr := range results {
		if rr.fatal != nil {
			if firstErr == nil {
				firstErr = rr.fatal
			}
			continue
		}
		out.Batches[rr.idx].Records = rr.records
		dropped += rr.dropped
	}
	if firstErr != nil {
		return Envelope{}, firstErr
	}
	if meta := ensureMeta(&out); meta.Stats != nil {
		meta.Stats.Filtered = dropped
		meta.Stats.Records = ssr.CountRecords(out.Batches)
	}
	deps.logger().Debug("lua filter applied", "dropped", dropped)
	return out, nil
}

// filterBatchWithLua keeps the records of b for which pred is truthy. One
// sandboxed state serves the whole batch.
func filterBatchWithLua(parent context.Context, b ssr.Batch, pred string, timeout time.Duration) ([]ssr.Record, int, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	L := newSandboxLuaState(ctx)
	defer L.Close()

	fn, err := L.LoadString(pred)
	if err != nil {
		return nil, 0, fmt.Errorf("lua-filter: %v", err)
	}
	kept := make([]ssr.Record, 0, len(b.Records))
	for _, rec := range b.Records {
		ok, err := evalLuaPredicate(L, fn, rec, b.Target.String())
		if err != nil {
			return nil, 0, fmt.Errorf("lua-filter: %s %s: %v", b.Target, rec.Key, err)
		}
		if ok {
			kept = append(kept, rec)
		}
	}
	return kept, len(b.Records) - len(kept), nil
}

func init() { Register(luaFilterStage, luaFilterRunner) }
