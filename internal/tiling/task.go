package tiling

import (
	"fmt"

	"github.com/Faultbox/gpattern/pkg/geo"
)

// TaskKind tags a unit of tiling work.
type TaskKind uint8

// Task kinds.
const (
	TaskEager    TaskKind = iota // project now, merge into the shared output
	TaskDeferred                 // hand back to the host as a lazily rendered tile
)

// Task describes the work for one tile.
type Task struct {
	Kind  TaskKind
	Index int
}

// planTasks returns one task per tile, in index order.
func planTasks(mode Mode, numTiles int) []Task {
	kind := TaskEager
	if mode == ModeDeferred {
		kind = TaskDeferred
	}
	tasks := make([]Task, numTiles)
	for i := range tasks {
		tasks[i] = Task{Kind: kind, Index: i}
	}
	return tasks
}

// job is the state shared by every task of one cook. Nothing in it is
// written after the cook starts scheduling, so tasks read it without
// locking, and deferred tiles may keep it alive after the cook returns.
type job struct {
	id      string
	mode    Mode
	pattern *geo.Detail // preprocessed private copy
	prim    geo.Primitive
	params  Params
}

// renderTile fills dst with the pattern projected onto tile index.
func (j *job) renderTile(dst *geo.Detail, index int) (ProjectStats, error) {
	dst.CopyFrom(j.pattern)

	du, dv := TileOffset(index, j.params.UTiles())
	stats, err := ProjectTile(dst, j.prim, du, dv, j.params)
	if err != nil {
		return stats, fmt.Errorf("tile %d: %w", index, err)
	}

	tile := dst.AddFloatAttrib(geo.AttrTile)
	for i := range tile {
		tile[i] = float32(index)
	}
	return stats, nil
}
