package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/planar/config"
	"github.com/lixenwraith/planar/core"
	"github.com/lixenwraith/planar/engine"
	"github.com/lixenwraith/planar/event"
	"github.com/lixenwraith/planar/injector"
	"github.com/lixenwraith/planar/log"
	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/physics"
	"github.com/lixenwraith/planar/render"
	"github.com/lixenwraith/planar/shape"
	"github.com/lixenwraith/planar/vmath"
)

var (
	configFlag    = flag.String("config", "", "YAML configuration file")
	generatorFlag = flag.String("scene", "", "Override scene generator: pyramid, rain, container")
	countFlag     = flag.Int("count", 0, "Override generated body count")
	logFileFlag   = flag.String("log", "", "Log file (defaults to planar.log when interactive)")
	headlessFlag  = flag.Int("headless", 0, "Run N steps without a terminal and print the checksum")
)

// errQuit ends the errgroup on a user quit, cancelling the other goroutines
var errQuit = errors.New("quit")

// command is applied by the simulation goroutine, the only owner of the world
type command int

const (
	cmdTogglePause command = iota
	cmdPause
	cmdResume
	cmdSpawn
	cmdStep
	cmdQuit
	cmdPanUp
	cmdPanDown
	cmdPanLeft
	cmdPanRight
	cmdZoomIn
	cmdZoomOut
)

func main() {
	defer core.Recover()
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// The terminal owns stdout, logs go to a file
	if *headlessFlag == 0 && cfg.World.LogFile == "" {
		cfg.World.LogFile = "planar.log"
	}

	sb, cleanup, err := injector.InitializeSandbox(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if *headlessFlag > 0 {
		if err := runHeadless(sb, *headlessFlag); err != nil {
			fmt.Fprintf(os.Stderr, "headless: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runInteractive(sb); err != nil {
		sb.Logger.Error("sandbox stopped", log.Err(err))
		fmt.Fprintf(os.Stderr, "sandbox: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.File, error) {
	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if *generatorFlag != "" {
		cfg.Scene.Generator = *generatorFlag
	}
	if *countFlag > 0 {
		cfg.Scene.Count = *countFlag
	}
	if *logFileFlag != "" {
		cfg.World.LogFile = *logFileFlag
	}
	if cfg.Scene.Generator == "" && len(cfg.Scene.Bodies) == 0 {
		cfg.Scene.Generator = "container"
		cfg.Scene.Count = 40
	}
	return cfg, cfg.Validate()
}

// runHeadless steps at the fixed rate without wall-clock pacing
func runHeadless(sb *injector.Sandbox, steps int) error {
	dt := sb.Stepper.Timestep()
	start := time.Now()
	for i := 0; i < steps; i++ {
		if _, err := sb.World.Step(dt); err != nil {
			return err
		}
		sb.World.Events().Drain(func(event.Event) {})
	}
	elapsed := time.Since(start)
	stats := sb.World.DetectorStats()

	fmt.Printf("session   %s\n", sb.Session)
	fmt.Printf("steps     %d in %v (%.1f steps/s)\n", steps, elapsed, float64(steps)/elapsed.Seconds())
	fmt.Printf("bodies    %d\n", sb.World.Len())
	fmt.Printf("narrow    tests=%d hits=%d gjk=%d cap=%d swept=%d\n",
		stats.Tests, stats.Hits, stats.GJKRuns, stats.CapHits, stats.Swept)
	fmt.Printf("checksum  %016x\n", sb.World.Checksum())
	return nil
}

func runInteractive(sb *injector.Sandbox) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	core.SetCrashReset(screen.Fini)
	screen.HideCursor()

	if err := sb.Audio.Start(); err != nil {
		sb.Logger.Warn("audio start failed, continuing without audio", log.Err(err))
	}
	defer sb.Audio.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	commands := make(chan command, 16)
	sb.Broadcaster.OnCommand(func(client uuid.UUID, cmd string) {
		sb.Logger.Debug("viewer command", log.String("client", client.String()), log.String("command", cmd))
		switch cmd {
		case "pause":
			trySend(commands, cmdPause)
		case "resume":
			trySend(commands, cmdResume)
		case "spawn":
			trySend(commands, cmdSpawn)
		}
	})

	w, h := screen.Size()
	cam := render.NewCamera(vmath.Vec2{}, 1)
	if bounds, ok := worldBounds(sb.World); ok {
		cam.Fit(bounds.Expand(1), w, h)
	}
	canvas := render.NewCanvas(screen, cam)

	g.Go(func() error {
		return inputLoop(ctx, screen, commands)
	})
	g.Go(func() error {
		// Wakes PollEvent so the input loop observes cancellation
		<-ctx.Done()
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})
	g.Go(func() error {
		return simulate(ctx, sb, canvas, commands)
	})
	if sb.Config.Network.Enabled {
		g.Go(func() error {
			return sb.Broadcaster.ListenAndServe(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

func trySend(ch chan<- command, c command) {
	select {
	case ch <- c:
	default:
	}
}

// inputLoop translates keys into commands for the simulation goroutine
func inputLoop(ctx context.Context, screen tcell.Screen, commands chan<- command) error {
	for {
		ev := screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				trySend(commands, cmdQuit)
				return nil
			case tcell.KeyUp:
				trySend(commands, cmdPanUp)
			case tcell.KeyDown:
				trySend(commands, cmdPanDown)
			case tcell.KeyLeft:
				trySend(commands, cmdPanLeft)
			case tcell.KeyRight:
				trySend(commands, cmdPanRight)
			case tcell.KeyRune:
				switch ev.Rune() {
				case 'q':
					trySend(commands, cmdQuit)
					return nil
				case ' ', 'p':
					trySend(commands, cmdTogglePause)
				case 'b':
					trySend(commands, cmdSpawn)
				case 'n':
					trySend(commands, cmdStep)
				case '+', '=':
					trySend(commands, cmdZoomIn)
				case '-':
					trySend(commands, cmdZoomOut)
				}
			}
		}
	}
}

// simulate owns the world: it applies commands, advances the stepper and draws frames
func simulate(ctx context.Context, sb *injector.Sandbox, canvas *render.Canvas, commands <-chan command) error {
	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	rng := vmath.NewFastRand(uint64(time.Now().UnixNano()))
	interval := uint64(sb.Config.Network.Interval)
	var lastPublished uint64
	var batch []event.Event

	frames := 0
	fps := 0.0
	fpsStart := time.Now()

	step := func(dt float64) error {
		_, err := sb.World.Step(dt)
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-commands:
			switch c {
			case cmdQuit:
				return errQuit
			case cmdTogglePause:
				paused := sb.Stepper.Toggle()
				sb.Logger.Debug("pause toggled", log.Bool("paused", paused))
			case cmdPause:
				sb.Stepper.Pause()
			case cmdResume:
				sb.Stepper.Resume()
			case cmdStep:
				if err := step(sb.Stepper.Timestep()); err != nil {
					return err
				}
			case cmdPanUp:
				canvas.Camera.Pan(0, -2)
			case cmdPanDown:
				canvas.Camera.Pan(0, 2)
			case cmdPanLeft:
				canvas.Camera.Pan(-4, 0)
			case cmdPanRight:
				canvas.Camera.Pan(4, 0)
			case cmdZoomIn:
				canvas.Camera.ZoomBy(1.25)
			case cmdZoomOut:
				canvas.Camera.ZoomBy(0.8)
			case cmdSpawn:
				if err := spawnBall(sb.World, canvas.Camera.Center, rng); err != nil {
					sb.Logger.Warn("spawn failed", log.Err(err))
				}
			}
		case <-ticker.C:
			if _, err := sb.Stepper.Advance(step); err != nil {
				return err
			}

			batch = batch[:0]
			sb.World.Events().Drain(func(ev event.Event) {
				batch = append(batch, ev)
				if ev.Type == event.EventContactBegin {
					canvas.MarkContact(ev.Point)
				}
			})
			sb.Audio.HandleAll(batch)

			snap := sb.World.Snapshot()
			if sb.Config.Network.Enabled {
				if _, err := sb.Broadcaster.PublishEvents(snap.Step, batch); err != nil {
					sb.Logger.Warn("publish events failed", log.Err(err))
				}
				if snap.Step-lastPublished >= interval {
					lastPublished = snap.Step
					if _, err := sb.Broadcaster.Publish(snap); err != nil {
						sb.Logger.Warn("publish snapshot failed", log.Err(err))
					}
				}
			}

			frames++
			if since := time.Since(fpsStart); since >= time.Second {
				fps = float64(frames) / since.Seconds()
				frames = 0
				fpsStart = time.Now()
			}
			canvas.Draw(snap, render.HUD{
				Session: sb.Session.String()[:8],
				Paused:  sb.Stepper.IsPaused(),
				FPS:     fps,
				Steps:   sb.Stepper.Steps(),
				Dropped: int(sb.World.Events().Dropped()),
			})
		}
	}
}

func spawnBall(w *engine.World, at vmath.Vec2, rng *vmath.FastRand) error {
	c, err := shape.NewCircle(vmath.Vec2{}, rng.Range(0.3, 0.7))
	if err != nil {
		return err
	}
	_, err = w.CreateBody(engine.BodyDef{
		Type:      physics.Dynamic,
		Shape:     c,
		Transform: vmath.NewTransform(at, 0),
		Material:  physics.Rubber,
		Velocity:  rng.Direction().Mul(rng.Range(2, 8)),
	})
	return err
}

func worldBounds(w *engine.World) (shape.AABB, bool) {
	var box shape.AABB
	found := false
	for _, e := range w.Entities() {
		ws, ok := w.WorldShape(e)
		if !ok {
			continue
		}
		if !found {
			box, found = ws.Bounds(), true
			continue
		}
		box = box.Union(ws.Bounds())
	}
	return box, found
}
