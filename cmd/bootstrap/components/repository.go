package components

import (
	"staybook/internal/infra/readrepo"
	repo_impl "staybook/internal/infra/repository"
	"staybook/internal/usecase/commands"
	"staybook/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewTxRunner,
			fx.As(new(commands.TxManager)),
		),
		fx.Annotate(
			repo_impl.NewReservationRepository,
			fx.As(new(commands.ReservationRepository)),
		),
		fx.Annotate(
			repo_impl.NewPaymentRepository,
			fx.As(new(commands.PaymentRepository)),
		),
		fx.Annotate(
			repo_impl.NewPropertyRepository,
			fx.As(new(commands.PropertyRepository)),
		),
		fx.Annotate(
			repo_impl.NewUserRepository,
			fx.As(new(commands.UserRepository)),
		),
		fx.Annotate(
			repo_impl.NewNotificationRepository,
			fx.As(new(commands.NotificationRepository)),
		),
		// Read-side repositories for queries
		fx.Annotate(
			readrepo.NewReservationViewRepository,
			fx.As(new(queries.ReservationViewRepo)),
		),
		fx.Annotate(
			readrepo.NewPaymentViewRepository,
			fx.As(new(queries.PaymentViewRepo)),
		),
	),
)
