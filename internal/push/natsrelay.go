package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSRelay is the production Relay: outbound messages go as requests to the
// relay server's ingest subject for the account, inbound messages arrive on
// the account's fan-out subject. The relay server acks every send with a
// small JSON verdict and supplies the refusal reason when it cannot deliver.
type NATSRelay struct {
	nc      *nats.Conn
	account string
	timeout time.Duration
}

// relayAck is the relay server's answer to a send request.
type relayAck struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func NewNATSRelay(nc *nats.Conn, account string, timeout time.Duration) *NATSRelay {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NATSRelay{nc: nc, account: account, timeout: timeout}
}

func (r *NATSRelay) sendSubject() string    { return "pushclip.send." + r.account }
func (r *NATSRelay) receiveSubject() string { return "pushclip.recv." + r.account }

// Token returns the ingest subject, which doubles as the registration token.
// An unusable connection means there is no token: a configuration failure.
func (r *NATSRelay) Token(ctx context.Context) (string, error) {
	if r.nc == nil || r.nc.Status() != nats.CONNECTED {
		return "", fmt.Errorf("%w: relay connection down", ErrSendConfig)
	}
	return r.sendSubject(), nil
}

func (r *NATSRelay) Send(ctx context.Context, token, credential string, payload []byte, priority Priority) (SendResult, error) {
	msg := nats.NewMsg(token)
	msg.Data = payload
	msg.Header.Set("Priority", string(priority))
	msg.Header.Set("Authorization", "Bearer "+credential)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.nc.RequestMsgWithContext(ctx, msg)
	if errors.Is(err, nats.ErrNoResponders) {
		// Nothing is listening on the account's ingest subject: the relay
		// treats that account as having no other registered devices.
		return SendResult{Success: false, Reason: reasonNoOtherDevices}, nil
	}
	if err != nil {
		return SendResult{}, fmt.Errorf("relay send: %w", err)
	}

	var ack relayAck
	if err := json.Unmarshal(resp.Data, &ack); err != nil {
		return SendResult{}, fmt.Errorf("relay ack: %w", err)
	}
	return SendResult{Success: ack.OK, Reason: ack.Reason}, nil
}

func (r *NATSRelay) Subscribe(ctx context.Context, handler func(payload []byte)) (Subscription, error) {
	sub, err := r.nc.Subscribe(r.receiveSubject(), func(m *nats.Msg) {
		handler(m.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("relay subscribe: %w", err)
	}
	return natsSubscription{sub}, nil
}

type natsSubscription struct {
	sub *nats.Subscription
}

func (s natsSubscription) Unsubscribe() error {
	return s.sub.Unsubscribe()
}
