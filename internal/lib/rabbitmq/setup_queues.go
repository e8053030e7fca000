package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// Exchange — обменник для писем сервиса аутентификации.
const Exchange = "auth_emails"

// PasswordResetQueue — очередь писем восстановления пароля.
const PasswordResetQueue = "password_reset_queue"

// PasswordResetRoutingKey — ключ маршрутизации писем восстановления пароля.
const PasswordResetRoutingKey = "password.reset"

// QueueConfig описывает очередь и её привязку к обменнику.
type QueueConfig struct {
	Name       string
	RoutingKey string
}

// GetEmailQueues возвращает конфигурацию очередей почтовых уведомлений.
func GetEmailQueues() []QueueConfig {
	return []QueueConfig{
		{Name: PasswordResetQueue, RoutingKey: PasswordResetRoutingKey},
	}
}

// SetupChannel открывает канал, объявляет обменник и привязывает к нему очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		Exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(
			q.Name,
			true,
			false,
			false,
			false,
			nil,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := ch.QueueBind(q.Name, q.RoutingKey, Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return ch, nil
}
