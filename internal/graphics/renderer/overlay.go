package renderer

import (
	"fmt"
	"strings"
	"time"

	"learngl/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// FrameStats keeps a rolling window of frame durations.
type FrameStats struct {
	history []time.Duration
	size    int

	Min, Max, Avg time.Duration
}

func NewFrameStats(size int) *FrameStats {
	if size < 1 {
		size = 1
	}
	return &FrameStats{size: size, history: make([]time.Duration, 0, size)}
}

// Add records one frame and recomputes min, max and average over the window.
func (s *FrameStats) Add(d time.Duration) {
	if len(s.history) >= s.size {
		s.history = s.history[1:]
	}
	s.history = append(s.history, d)

	var total time.Duration
	s.Min, s.Max = d, d
	for _, v := range s.history {
		total += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Avg = total / time.Duration(len(s.history))
}

func (s *FrameStats) Len() int { return len(s.history) }

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000.0 }

const (
	overlayScale    = 0.35
	overlayLineStep = 17
	overlayMargin   = 10
)

// ProfilingOverlay returns a line source for NewTextRenderable that shows frame
// timing, the camera and the top profiling buckets of the frame so far, from
// the top left corner down.
func ProfilingOverlay(stats *FrameStats, topN int) func(ctx RenderContext) []TextLine {
	white := mgl32.Vec3{1, 1, 1}
	return func(ctx RenderContext) []TextLine {
		stats.Add(time.Duration(ctx.DT * float64(time.Second)))

		texts := make([]string, 0, topN+3)
		fps := 0.0
		if ctx.DT > 0 {
			fps = 1 / ctx.DT
		}
		texts = append(texts,
			fmt.Sprintf("FPS: %.0f | Frame: %.2fms (%.2fms avg, %.2f-%.2fms)", fps, ctx.DT*1000, ms(stats.Avg), ms(stats.Min), ms(stats.Max)),
			fmt.Sprintf("Pos: %.2f, %.2f, %.2f | Yaw: %.1f | Pitch: %.1f | FOV: %.0f",
				ctx.State.Position[0], ctx.State.Position[1], ctx.State.Position[2], ctx.State.Yaw, ctx.State.Pitch, ctx.State.FOV),
		)
		if top := profiling.TopNCurrentFrame(topN); top != "" {
			for line := range strings.SplitSeq(top, ", ") {
				if line != "" && !strings.HasSuffix(line, ":0ms") {
					texts = append(texts, line)
				}
			}
		}

		lines := make([]TextLine, len(texts))
		y := float32(ctx.Height) - overlayMargin - overlayLineStep
		for i, t := range texts {
			lines[i] = TextLine{Text: t, X: overlayMargin, Y: y, Scale: overlayScale, Color: white}
			y -= overlayLineStep
		}
		return lines
	}
}
