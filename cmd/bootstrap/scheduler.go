package bootstrap

import (
	"context"
	"log/slog"

	"staybook/internal/pkg/config"
	"staybook/internal/scheduler"
	"staybook/internal/usecase/commands"

	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewReleaseSweeper,
	),
	fx.Invoke(StartReleaseSweeper),
)

func NewReleaseSweeper(cfg config.Config, payments commands.PaymentCommands, logger *slog.Logger) *scheduler.ReleaseSweeper {
	return scheduler.NewReleaseSweeper(
		payments,
		cfg.Escrow.ReleaseInterval,
		cfg.Escrow.ReleaseBatchSize,
		logger,
	)
}

func StartReleaseSweeper(lc fx.Lifecycle, sweeper *scheduler.ReleaseSweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return sweeper.Stop(ctx)
		},
	})
}
