package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/dailyhabits/internal/cli"
	"github.com/julianstephens/dailyhabits/internal/constants"
	"github.com/julianstephens/dailyhabits/internal/logger"
	"github.com/julianstephens/dailyhabits/internal/server"
)

type ServeCmd struct {
	Addr           string   `help:"Address to listen on." default:"${addr}" env:"DAILYHABITS_ADDR"`
	RateLimit      float64  `help:"Requests per second allowed per client." default:"5" env:"DAILYHABITS_RATE_LIMIT"`
	RateBurst      int      `help:"Burst size per client." default:"30" env:"DAILYHABITS_RATE_BURST"`
	AllowedOrigins []string `help:"CORS allowed origins." default:"*" env:"DAILYHABITS_ALLOWED_ORIGINS"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Fail fast on a bad database instead of on the first request
	if err := ctx.Service.EnsureReady(runCtx); err != nil {
		return err
	}

	srv := server.New(ctx.Service, ctx.Dispatcher, server.Config{
		Addr:           c.Addr,
		RateLimit:      c.RateLimit,
		RateBurst:      c.RateBurst,
		AllowedOrigins: c.AllowedOrigins,
	})
	logger.Info("Starting server", "addr", c.Addr, "store", ctx.Store.GetConfigPath(), "version", constants.Version)
	ctx.Printf("Serving %s on %s\n", constants.AppName, c.Addr)
	return srv.Run(runCtx)
}
