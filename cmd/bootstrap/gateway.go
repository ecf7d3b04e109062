package bootstrap

import (
	"staybook/internal/infra/gateway"
	"staybook/internal/pkg/config"
	"staybook/internal/usecase/commands"

	"go.uber.org/fx"
)

var GatewayModule = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewGatewayClient,
			fx.As(new(commands.PaymentGateway)),
		),
		NewWebhookVerifier,
	),
)

func NewGatewayClient(cfg config.Config) *gateway.Client {
	return gateway.NewClient(cfg.Gateway)
}

func NewWebhookVerifier(cfg config.Config) *gateway.WebhookVerifier {
	return gateway.NewWebhookVerifier(cfg.Gateway.WebhookSecret)
}
