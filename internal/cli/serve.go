package cli

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/runnerr0/badman-archive/internal/archive"
	"github.com/runnerr0/badman-archive/internal/config"
	"github.com/runnerr0/badman-archive/internal/particle"
	"github.com/runnerr0/badman-archive/internal/server"
)

// Execute implements the go-flags Commander interface for ServeCommand.
func (c *ServeCommand) Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := openEnv(ctx, c.globals)
	if err != nil {
		return err
	}
	defer e.Close()

	return c.executeWith(ctx, e)
}

// executeWith serves until ctx is done. The HTTP server, the particle
// spawner and the file watcher share one errgroup: the first to fail
// stops the others.
func (c *ServeCommand) executeWith(ctx context.Context, e *env) error {
	port := e.cfg.Server.Port
	if c.Port != 0 {
		port = c.Port
	}
	addr := net.JoinHostPort(e.cfg.Server.Host, strconv.Itoa(port))

	var spawner *particle.Spawner
	if e.cfg.Particles.Enabled && !c.NoParticles {
		spawner = particle.New(particleConfig(e.cfg.Particles), time.Now().UnixNano())
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := server.New(e.svc, e.renderer, spawner, e.logger, c.version)
	g.Go(func() error {
		return srv.Run(gctx, addr)
	})

	if spawner != nil {
		g.Go(func() error {
			return spawner.Run(gctx)
		})
	}

	if c.watching(e) {
		w := archive.NewWatcher(e.source, e.loader, e.svc, e.logger)
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	e.logger.Info("archive serving",
		zap.String("addr", addr),
		zap.String("source", describeSource(e.source)),
		zap.Bool("particles", spawner != nil),
		zap.Bool("watch", c.watching(e)),
	)
	return g.Wait()
}

// watching reports whether the data source is a local file to hot reload.
func (c *ServeCommand) watching(e *env) bool {
	if c.NoWatch || !e.cfg.Server.Watch || e.source == "" {
		return false
	}
	return !strings.HasPrefix(e.source, "http://") && !strings.HasPrefix(e.source, "https://")
}

func particleConfig(pc config.ParticlesConfig) particle.Config {
	return particle.Config{
		Interval:    time.Duration(pc.IntervalMS) * time.Millisecond,
		TTL:         time.Duration(pc.TTLMS) * time.Millisecond,
		Width:       float64(pc.Width),
		AccentRatio: pc.AccentRatio,
	}
}
