package ports

import "context"

// MessageConsumer — фоновый источник команд покупки (Kafka).
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
