package providers

import (
	"context"
)

// SMSSender delivers a text message and returns the provider message id.
type SMSSender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}
