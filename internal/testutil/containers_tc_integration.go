//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
)

const redpandaImage = "docker.redpanda.com/redpandadata/redpanda:v23.3.8"

var tcLogger = log.New(os.Stdout, "[tc-tickets] ", log.LstdFlags)

func shortID(c tc.Container) string {
	id := c.GetContainerID()
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// stageHook — одна строка лога на этап жизненного цикла контейнера.
func stageHook(stage string) tc.ContainerHook {
	return func(_ context.Context, c tc.Container) error {
		tcLogger.Printf("%s id=%s", stage, shortID(c))
		return nil
	}
}

func lifecycleHooks() tc.ContainerLifecycleHooks {
	return tc.ContainerLifecycleHooks{
		PreCreates: []tc.ContainerRequestHook{
			func(_ context.Context, req tc.ContainerRequest) error {
				tcLogger.Printf("create image=%s", req.Image)
				return nil
			},
		},
		PostStarts:     []tc.ContainerHook{stageHook("started")},
		PostReadies:    []tc.ContainerHook{stageHook("ready")},
		PostTerminates: []tc.ContainerHook{stageHook("terminated")},
	}
}

// TicketTopics — топики одного тестового стенда.
type TicketTopics struct {
	Purchases    string
	Payments     string
	Reservations string
	Group        string
}

// All — все топики стенда в порядке создания.
func (t TicketTopics) All() []string {
	return []string{t.Purchases, t.Payments, t.Reservations}
}

// TicketsKafka — redpanda с созданными топиками покупок, оплат и бронирований.
type TicketsKafka struct {
	Container *redpanda.Container
	Brokers   []string
	Topics    TicketTopics
}

// StartTicketsKafka поднимает redpanda и создаёт топики с уникальным префиксом.
// stop останавливает контейнер.
func StartTicketsKafka(ctx context.Context, prefix string) (*TicketsKafka, func(context.Context) error, error) {
	rp, err := redpanda.Run(ctx, redpandaImage, tc.WithLifecycleHooks(lifecycleHooks()))
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}
	stop := func(_ context.Context) error { return tc.TerminateContainer(rp) }

	seed, err := rp.KafkaSeedBroker(ctx)
	if err != nil {
		_ = stop(ctx)
		return nil, nil, fmt.Errorf("seed broker: %w", err)
	}

	base := UniqueName(prefix)
	topics := TicketTopics{
		Purchases:    base + "-purchases",
		Payments:     base + "-payments",
		Reservations: base + "-reservations",
		Group:        base + "-group",
	}
	if err := EnsureTopics(ctx, seed, topics.All()...); err != nil {
		_ = stop(ctx)
		return nil, nil, fmt.Errorf("create topics: %w", err)
	}

	return &TicketsKafka{Container: rp, Brokers: []string{seed}, Topics: topics}, stop, nil
}
