package events

import (
	"context"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSSink mirrors every event onto <prefix>.<type> for downstream consumers
// (CRM sync, analytics).
type NATSSink struct {
	conn   *nats.Conn
	prefix string
	logger *zap.Logger
}

func NewNATSSink(url, prefix string, logger *zap.Logger) (*NATSSink, error) {
	conn, err := nats.Connect(url,
		nats.Name("nigaran-engine"),
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = "nigaran"
	}
	return &NATSSink{conn: conn, prefix: strings.TrimSuffix(prefix, "."), logger: logger}, nil
}

func (s *NATSSink) Subject(typ string) string { return s.prefix + "." + typ }

func (s *NATSSink) Publish(ctx context.Context, typ string, data any) {
	msg := MakeEvent(RequestID(ctx), typ, 1, data)
	if err := s.conn.Publish(s.Subject(typ), []byte(msg)); err != nil {
		s.logger.Warn("nats publish failed", zap.String("subject", s.Subject(typ)), zap.Error(err))
		return
	}
	s.logger.Debug("nats event published", zap.String("subject", s.Subject(typ)))
}

func (s *NATSSink) Close() {
	if s.conn != nil {
		_ = s.conn.Drain()
	}
}
