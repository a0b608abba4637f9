package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lixenwraith/planar/collision"
	"github.com/lixenwraith/planar/config"
	"github.com/lixenwraith/planar/engine"
	"github.com/lixenwraith/planar/event"
	"github.com/lixenwraith/planar/log"
	"github.com/lixenwraith/planar/raycast"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

var (
	pairsFlag = flag.Int("pairs", 20000, "Random shape pairs per narrow-phase run")
	raysFlag  = flag.Int("rays", 20000, "Random rays per raycast run")
	stepsFlag = flag.Int("steps", 600, "World steps for the scene run")
	bodyFlag  = flag.Int("bodies", 200, "Bodies in the scene run")
	seedFlag  = flag.Uint64("seed", 1, "Random seed")
)

type pair struct {
	a, b shape.Shape
}

func main() {
	flag.Parse()
	rng := vmath.NewFastRand(*seedFlag)

	pairs := make([]pair, *pairsFlag)
	for i := range pairs {
		pairs[i] = pair{a: randomShape(rng), b: randomShape(rng)}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "run\tops\tns/op\thits")

	fastHits, fastNs := runNarrow(pairs, collision.Collide)
	fmt.Fprintf(tw, "narrow fast paths\t%d\t%.0f\t%d\n", len(pairs), fastNs, fastHits)

	gjkHits, gjkNs := runNarrow(pairs, func(a, b shape.Shape) (collision.Manifold, bool) {
		return collision.CollideGJK(a, b)
	})
	fmt.Fprintf(tw, "narrow gjk/epa\t%d\t%.0f\t%d\n", len(pairs), gjkNs, gjkHits)

	rayHits, rayNs := runRays(rng, pairs, *raysFlag)
	fmt.Fprintf(tw, "raycast\t%d\t%.0f\t%d\n", *raysFlag, rayNs, rayHits)

	stepNs, checksum, err := runScene(*bodyFlag, *stepsFlag, *seedFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scene: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(tw, "world step (%d bodies)\t%d\t%.0f\t-\n", *bodyFlag, *stepsFlag, stepNs)
	tw.Flush()

	agree, maxDepthDiff := compare(pairs)
	fmt.Printf("\nfast/gjk agreement %.2f%%, max depth difference %.2e\n", 100*agree, maxDepthDiff)
	fmt.Printf("scene checksum %016x\n", checksum)
}

func randomShape(rng *vmath.FastRand) shape.Shape {
	xf := vmath.NewTransform(vmath.V2(rng.Range(-3, 3), rng.Range(-3, 3)), rng.Range(0, 2*math.Pi))
	var s shape.Shape
	var err error
	switch rng.Intn(4) {
	case 0:
		s, err = shape.NewCircle(vmath.Vec2{}, rng.Range(0.3, 1.5))
	case 1:
		s, err = shape.NewBox(rng.Range(0.3, 1.5), rng.Range(0.3, 1.5))
	case 2:
		r := rng.Range(0.5, 1.5)
		s, err = shape.NewPolygon(vmath.V2(r, 0), vmath.V2(-0.5*r, 0.866*r), vmath.V2(-0.5*r, -0.866*r))
	default:
		s, err = shape.NewEdge(vmath.V2(-1, 0), vmath.V2(1, 0))
	}
	if err != nil {
		panic(err)
	}
	return shape.World(s, xf)
}

func runNarrow(pairs []pair, fn func(a, b shape.Shape) (collision.Manifold, bool)) (hits int, nsPerOp float64) {
	start := time.Now()
	for _, p := range pairs {
		if _, ok := fn(p.a, p.b); ok {
			hits++
		}
	}
	return hits, float64(time.Since(start).Nanoseconds()) / float64(max(len(pairs), 1))
}

func runRays(rng *vmath.FastRand, pairs []pair, n int) (hits int, nsPerOp float64) {
	if len(pairs) == 0 {
		return 0, 0
	}
	targets := make([]shape.Shape, 0, len(pairs))
	for _, p := range pairs {
		targets = append(targets, p.a)
	}
	rays := make([]raycast.Ray, n)
	for i := range rays {
		rays[i] = raycast.New(vmath.V2(rng.Range(-6, 6), rng.Range(-6, 6)), rng.Direction(), 10)
	}

	start := time.Now()
	for i, r := range rays {
		if _, ok := raycast.Cast(r, targets[i%len(targets)]); ok {
			hits++
		}
	}
	return hits, float64(time.Since(start).Nanoseconds()) / float64(max(n, 1))
}

func runScene(bodies, steps int, seed uint64) (nsPerStep float64, checksum uint64, err error) {
	w := engine.NewWorld(engine.DefaultConfig(), engine.WithLogger(log.Nop()))
	if _, err := config.Apply(w, config.Scene{Generator: "rain", Count: bodies, Seed: seed}); err != nil {
		return 0, 0, err
	}
	dt := 1.0 / 60
	start := time.Now()
	for i := 0; i < steps; i++ {
		if _, err := w.Step(dt); err != nil {
			return 0, 0, err
		}
		w.Events().Drain(func(_ event.Event) {})
	}
	return float64(time.Since(start).Nanoseconds()) / float64(max(steps, 1)), w.Checksum(), nil
}

// compare reports how often both narrow phases agree on overlap and their worst depth gap
func compare(pairs []pair) (agreement, maxDepthDiff float64) {
	same := 0
	for _, p := range pairs {
		mf, okf := collision.Collide(p.a, p.b)
		mg, okg := collision.CollideGJK(p.a, p.b)
		if okf != okg {
			continue
		}
		same++
		if okf {
			maxDepthDiff = math.Max(maxDepthDiff, math.Abs(mf.Depth-mg.Depth))
		}
	}
	return float64(same) / float64(max(len(pairs), 1)), maxDepthDiff
}
