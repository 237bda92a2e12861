package impl

import (
	"io"
	"log/slog"
	"time"

	"shopcart/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 4, TokenTTL: time.Hour},
		Cart: &config.CartConfig{MaxItemsPerBatch: 5},
	}
	cfg.HTTP.Timeouts.OperationTimeout = 2 * time.Second
	cfg.SecretKey.Access = "impl_test_secret_that_is_long_enough"

	return cfg
}
