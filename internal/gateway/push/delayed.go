package push

import (
	"context"
	"sync"
	"time"

	"github.com/Emmanuel3dev/market-server/internal/logx"
)

// DelayedSender schedules a send for a later instant. Pending sends live only
// in process memory: delivery is at most once and a restart loses anything not
// yet fired. Callers that need durability must persist their own due-time
// records.
type DelayedSender struct {
	gateway Gateway
	logger  logx.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDelayedSender creates a sender whose pending timers stop with Stop.
func NewDelayedSender(gateway Gateway, logger logx.Logger) *DelayedSender {
	ctx, cancel := context.WithCancel(context.Background())
	return &DelayedSender{
		gateway: gateway,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SendAt fires the message at the given instant; an instant already in the
// past sends immediately. The outcome is logged, never returned.
func (s *DelayedSender) SendAt(at time.Time, token, title, body string) {
	delay := time.Until(at)
	if delay <= 0 {
		s.deliver(token, title, body)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-s.ctx.Done():
		case <-t.C:
			s.deliver(token, title, body)
		}
	}()
}

// Stop cancels pending timers and waits for in-flight sends.
func (s *DelayedSender) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *DelayedSender) deliver(token, title, body string) {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()
	if err := s.gateway.Send(ctx, token, title, body); err != nil {
		s.logger.Error("delayed push failed", logx.Any("err", err))
		return
	}
	s.logger.Info("delayed push sent")
}
