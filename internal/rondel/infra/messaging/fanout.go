package messaging

import (
	"context"

	"Imperial/internal/rondel/app/port"
	"Imperial/internal/rondel/domain"
)

// Fanout 依次发布到多个目标，第一个失败即返回，后面的目标不再发布。
type Fanout []port.EventPublisher

func NewFanout(pubs ...port.EventPublisher) Fanout {
	out := make(Fanout, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (f Fanout) Publish(ctx context.Context, ev domain.Event) error {
	for _, p := range f {
		if err := p.Publish(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}
