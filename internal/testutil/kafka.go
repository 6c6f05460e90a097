//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// UniqueName — base с меткой времени до наносекунд; годится для имени топика и группы.
func UniqueName(base string) string {
	stamp := strings.ReplaceAll(time.Now().UTC().Format("20060102T150405.000000000"), ".", "")
	return base + "-" + stamp
}

// EnsureTopics создаёт топики через контроллер кластера и ждёт их в метаданных.
// Уже существующий топик не считается ошибкой.
func EnsureTopics(ctx context.Context, broker string, topics ...string) error {
	addr := bootstrapAddr(broker)

	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer admin.Close()

	configs := make([]kafka.TopicConfig, 0, len(topics))
	for _, t := range topics {
		configs = append(configs, kafka.TopicConfig{Topic: t, NumPartitions: 1, ReplicationFactor: 1})
	}
	if err := admin.CreateTopics(configs...); err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return err
	}

	for _, t := range topics {
		if err := waitTopic(ctx, addr, t); err != nil {
			return err
		}
	}
	return nil
}

// ReadMessages — n сообщений топика с начала партиции 0, без consumer group.
func ReadMessages(ctx context.Context, brokers []string, topic string, n int) ([]kafka.Message, error) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	defer r.Close()

	if err := r.SetOffset(kafka.FirstOffset); err != nil {
		return nil, err
	}

	out := make([]kafka.Message, 0, n)
	for len(out) < n {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			return out, fmt.Errorf("read %s: got %d of %d: %w", topic, len(out), n, err)
		}
		out = append(out, msg)
	}
	return out, nil
}

// WriteMessage — синхронная запись одной команды в топик.
func WriteMessage(ctx context.Context, brokers []string, topic string, value []byte) error {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
	defer w.Close()
	return w.WriteMessages(ctx, kafka.Message{Value: value})
}

// bootstrapAddr — первый адрес из списка, без схемы "PLAINTEXT://".
func bootstrapAddr(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if u, err := url.Parse(first); err == nil && u.Host != "" {
		return u.Host
	}
	return first
}

func waitTopic(ctx context.Context, broker, topic string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	for {
		c, err := kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			parts, perr := c.ReadPartitions(topic)
			_ = c.Close()
			if perr == nil && len(parts) > 0 {
				return nil
			}
			err = perr
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("topic %q not ready: %w", topic, errors.Join(ctx.Err(), err))
		case <-tick.C:
		}
	}
}
