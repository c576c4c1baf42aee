package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/muurk/envdash/internal/comfort"
)

// fakeToken is an already-completed mqtt.Token.
type fakeToken struct {
	err  error
	done chan struct{}
}

func newFakeToken(err error) *fakeToken {
	done := make(chan struct{})
	close(done)
	return &fakeToken{err: err, done: done}
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakePublisher struct {
	calls []published
	err   error
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.calls = append(p.calls, published{topic, qos, retained, payload.([]byte)})
	return newFakeToken(p.err)
}

func TestMQTT_Notify(t *testing.T) {
	pub := &fakePublisher{}
	sink := newMQTT(pub, "home/livingroom/comfort")
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	err := sink.Notify(context.Background(), comfort.NewStatus("uncomfortable", []string{"High temperature"}), at)
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	if len(pub.calls) != 1 {
		t.Fatalf("got %d publishes, want 1", len(pub.calls))
	}
	call := pub.calls[0]
	if call.topic != "home/livingroom/comfort" {
		t.Errorf("topic = %s", call.topic)
	}
	if call.qos != 1 || call.retained {
		t.Errorf("qos/retained = %d/%v, want 1/false", call.qos, call.retained)
	}

	var msg AlertMessage
	if err := json.Unmarshal(call.payload, &msg); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if msg.Level != "uncomfortable" || len(msg.Reasons) != 1 || !msg.Timestamp.Equal(at) {
		t.Errorf("payload = %s", call.payload)
	}
}

func TestMQTT_NotifyEmptyReasons(t *testing.T) {
	pub := &fakePublisher{}
	sink := newMQTT(pub, "")

	if err := sink.Notify(context.Background(), comfort.NewStatus("poor air", nil), time.Now()); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if sink.Topic() != "home/alerts/comfort" {
		t.Errorf("Topic() = %s, want default", sink.Topic())
	}
	if !strings.Contains(string(pub.calls[0].payload), `"reasons":[]`) {
		t.Errorf("reasons should encode as [], got %s", pub.calls[0].payload)
	}
}

func TestMQTT_NotifyError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("not connected")}
	sink := newMQTT(pub, "t")

	err := sink.Notify(context.Background(), comfort.NewStatus("uncomfortable", nil), time.Now())
	if err == nil || !strings.Contains(err.Error(), "not connected") {
		t.Errorf("Notify() error = %v, want broker error", err)
	}
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	if err := (Bell{W: &buf}).Notify(context.Background(), comfort.Status{}, time.Now()); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if buf.String() != "\a" {
		t.Errorf("bell wrote %q", buf.String())
	}
}

type failing struct{}

func (failing) Notify(context.Context, comfort.Status, time.Time) error {
	return errors.New("sink down")
}

func TestMulti(t *testing.T) {
	var buf bytes.Buffer
	m := Multi{failing{}, Bell{W: &buf}}

	err := m.Notify(context.Background(), comfort.Status{}, time.Now())
	if err == nil || !strings.Contains(err.Error(), "sink down") {
		t.Errorf("Notify() error = %v, want joined sink error", err)
	}
	if buf.String() != "\a" {
		t.Error("later notifiers should still run after a failure")
	}
}
