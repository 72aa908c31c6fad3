package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/catalogview/internal/config"
	"github.com/smallbiznis/catalogview/internal/logger"
	"github.com/smallbiznis/catalogview/internal/observability"
	"github.com/smallbiznis/catalogview/internal/product"
	"github.com/smallbiznis/catalogview/internal/providers/pdf"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var c *cli
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		product.Module,
		pdf.Module,
		fx.Provide(newCLI),
		fx.Populate(&c),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: log.Named("fx")}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintln(os.Stderr, "catalog:", err)
		os.Exit(1)
	}

	code := 0
	if err := c.run(context.Background(), os.Args[1:]); err != nil {
		c.report(err)
		code = 1
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	_ = app.Stop(stopCtx)
	os.Exit(code)
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.Snowflake.Node)
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: catalog <command> [flags]

commands:
  list     [-pdf file]                 list every product
  get      -key N                      show one product
  create   -key N -name S -price P ... create a product
  update   -key N [-name S ...]        replace a product, unset flags keep their value
  delete   -key N                      delete a product
  search   [-field name|brand] -term S search by name or brand
  summary  [-local] [-pdf file]        brand summary statistics
  count                                number of products
  tool     [name [json-args]]          list or run the agent tools
`)
}
