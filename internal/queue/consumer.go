package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CampLogFile is the file name the consumer appends to inside its log dir.
const CampLogFile = "camps.log"

// Consumer drains a durable queue of CampCreatedEvent messages.
type Consumer struct {
	URL    string // amqp:// broker URL
	Queue  string // queue name, declared durable
	LogDir string // directory holding CampLogFile
}

// Start connects to RabbitMQ and consumes messages forever.  Each message is
// appended to LogDir/camps.log as a single line.  Broker failures are logged
// and retried with exponential backoff capped at 30s; the function never
// returns, so run it on its own goroutine.
func (c Consumer) Start() {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Printf("camp-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := c.consumeLoop(conn); err != nil {
			log.Printf("camp-consumer: consume loop ended: %v; reconnecting", err)
		}
		_ = conn.Close()
		time.Sleep(2 * time.Second)
	}
}

func (c Consumer) consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("camp-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.HandleMessage(d.Body); err != nil {
			log.Printf("camp-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// HandleMessage decodes one CampCreatedEvent and appends it to the audit log.
func (c Consumer) HandleMessage(body []byte) error {
	var ev CampCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.CampID == "" {
		return errors.New("event without camp_id")
	}
	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.LogDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.LogDir, CampLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as the newline-terminated audit line.
func FormatLine(ev CampCreatedEvent) string {
	items := make([]string, len(ev.Amenities))
	for i, a := range ev.Amenities {
		items[i] = fmt.Sprint(a)
	}
	// created_by is rendered as JSON since clients send either an id or an object
	createdBy, err := json.Marshal(ev.CreatedBy)
	if err != nil {
		createdBy = []byte(strconv.Quote(fmt.Sprint(ev.CreatedBy)))
	}
	return fmt.Sprintf("[%s] Camp created | camp_id=%s | name=%q | type=%q | district=%q | city=%q | capacity=%d | location=%g,%g | amenities=[%s] | created_by=%s\n",
		ev.CreatedAt, ev.CampID, ev.Name, ev.Type, ev.District, ev.City, ev.MaxCapacity, ev.Lng, ev.Lat, strings.Join(items, ","), createdBy)
}
