package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrPublish возвращается при ошибке публикации события
var ErrPublish = errors.New("broker: failed to publish event")

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события в очередь RabbitMQ
// Соединение открывается на каждую публикацию
type Publisher struct {
	url     string
	queue   string
	timeout time.Duration
	log     Logger
}

// NewPublisher создает публикатора; пустой url отключает публикацию
func NewPublisher(url, queue string, timeout time.Duration, log Logger) *Publisher {
	return &Publisher{
		url:     url,
		queue:   queue,
		timeout: timeout,
		log:     log,
	}
}

// Enabled true, если задан адрес брокера
func (p *Publisher) Enabled() bool {
	return p.url != ""
}

// PublishLotteryCompleted публикует событие завершения лотереи как persistent-сообщение
func (p *Publisher) PublishLotteryCompleted(ctx context.Context, event LotteryCompletedEvent) error {
	if !p.Enabled() {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrPublish, err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.timeout),
	})
	if err != nil {
		return fmt.Errorf("%w: dial: %v", ErrPublish, err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("%w: open channel: %v", ErrPublish, err)
	}
	defer func() { _ = ch.Close() }()

	// Очередь durable, объявление идемпотентно
	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("%w: declare queue %s: %v", ErrPublish, p.queue, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = ch.PublishWithContext(pubCtx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.RunID,
			Timestamp:    event.ExecutedAt,
			Type:         p.queue,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: publish to %s: %v", ErrPublish, p.queue, err)
	}

	p.log.Info("Broker: published run=%s to queue=%s", event.RunID, p.queue)
	return nil
}
