package utils

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
	quarterProcs := float64(ParallelFactor) * .25
	if quarterProcs > 8 {
		ParallelFactor = int(quarterProcs)
	}
}

// MemberWorkFunc runs for each work item of a group.
type MemberWorkFunc func(ctx context.Context, workNum int) error

// GroupWorkParallel splits totalSize work items into at most ParallelFactor contiguous groups and runs each
// group in its own goroutine. The first error stops the remaining groups and is returned.
func GroupWorkParallel(ctx context.Context, totalSize int, memberWork MemberWorkFunc) error {
	if totalSize <= 0 {
		return nil
	}
	numGroups := min(ParallelFactor, totalSize)
	groupSize := totalSize / numGroups
	extra := totalSize % numGroups

	g, ctx := errgroup.WithContext(ctx)
	for groupNum := 0; groupNum < numGroups; groupNum++ {
		from := groupSize * groupNum
		to := from + groupSize
		if groupNum == numGroups-1 {
			to += extra
		}
		g.Go(func() error {
			for workNum := from; workNum < to; workNum++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := memberWork(ctx, workNum); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
