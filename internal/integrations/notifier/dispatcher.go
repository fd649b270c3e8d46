package notifier

import (
	"context"
	"sync"
	"time"
)

// Dispatcher рассылает уведомление во все каналы, не дожидаясь доставки
// Ошибки каналов логируются и не возвращаются вызывающему
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	metrics MetricsRecorder
	log     Logger
	wg      sync.WaitGroup
}

// NewDispatcher создает рассыльщик; nil-каналы пропускаются
func NewDispatcher(timeout time.Duration, metrics MetricsRecorder, log Logger, sinks ...Sink) *Dispatcher {
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}

	return &Dispatcher{
		sinks:   active,
		timeout: timeout,
		metrics: metrics,
		log:     log,
	}
}

// Enabled true, если настроен хотя бы один канал
func (d *Dispatcher) Enabled() bool {
	return len(d.sinks) > 0
}

// Send отправляет текст в фоне
// Отправка не зависит от отмены ctx вызывающего и ограничена таймаутом диспетчера
func (d *Dispatcher) Send(ctx context.Context, text string) {
	if len(d.sinks) == 0 {
		d.log.Info("Notifier: no sinks configured, message dropped")
		return
	}

	base := context.WithoutCancel(ctx)
	for _, sink := range d.sinks {
		d.wg.Add(1)
		go func(sink Sink) {
			defer d.wg.Done()

			sendCtx, cancel := context.WithTimeout(base, d.timeout)
			defer cancel()

			err := sink.Send(sendCtx, text)
			d.metrics.ObserveNotification(sink.Name(), err)
			if err != nil {
				d.log.Error("Notifier: sink=%s failed: %v", sink.Name(), err)
				return
			}
			d.log.Info("Notifier: sink=%s delivered", sink.Name())
		}(sink)
	}
}

// Wait дожидается завершения всех начатых отправок
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
