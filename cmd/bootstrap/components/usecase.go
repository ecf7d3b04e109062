package components

import (
	"staybook/internal/domain/payment"
	"staybook/internal/pkg/clock"
	"staybook/internal/pkg/config"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	commands.NewAvailabilityChecker,
	NewHoldPolicy,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
		NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewReservationQueries,
		queries.NewPaymentQueries,
	),
)

func NewHoldPolicy(cfg config.Config) payment.HoldPolicy {
	return payment.HoldPolicy{
		Window: cfg.Escrow.HoldWindow,
		Anchor: payment.HoldAnchor(cfg.Escrow.HoldAnchor),
	}
}

func NewPaymentCommands(
	cfg config.Config,
	tx commands.TxManager,
	payments commands.PaymentRepository,
	reservations commands.ReservationRepository,
	properties commands.PropertyRepository,
	gw commands.PaymentGateway,
	holdPolicy payment.HoldPolicy,
	notifications commands.NotificationRepository,
	clk clock.Clock,
) commands.PaymentCommands {
	return commands.NewPaymentCommands(
		tx, payments, reservations, properties, gw,
		holdPolicy, cfg.Gateway.Currency, notifications, clk,
	)
}
