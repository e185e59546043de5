package audit

import "go.uber.org/zap"

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Dispatcher writes audit rows off the request path. The queue is bounded;
// when it is full events are dropped rather than blocking the API.
type Dispatcher struct {
	logger *Logger
	zlog   *zap.Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger, zlog *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		zlog:   zlog,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(
			ev.UserID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			d.zlog.Error("audit write failed", zap.String("action", ev.Action), zap.Error(err))
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.zlog.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}
