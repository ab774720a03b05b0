package actor

import (
	"fmt"

	"lares2mqtt/internal/core/domain"
	"lares2mqtt/internal/core/port"
	"lares2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

// HistoryActor mirrors published sensor states into a state recorder.
// Attribute bags are not recorded, only the scalar state.
type HistoryActor struct {
	recorder       port.StateRecorder
	eventStream    *eventstream.EventStream
	eventStreamSub *eventstream.Subscription
	logger         *zap.Logger
}

func NewHistoryActor(recorder port.StateRecorder, eventStream *eventstream.EventStream, logger *zap.Logger) *HistoryActor {
	return &HistoryActor{
		recorder:    recorder,
		eventStream: eventStream,
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_HISTORY, logger),
	}
}

func (state *HistoryActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("history started")
		state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
			ctx.Send(ctx.Self(), OnEventStreamMessage{
				message: value,
			})
		})
	case *actor.Stopping, *actor.Restarting:
		if state.eventStreamSub != nil {
			state.eventStream.Unsubscribe(state.eventStreamSub)
			state.eventStreamSub = nil
		}
		state.recorder.Close()
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_HISTORY,
			Healthy: true,
			State:   "idle",
		})
	case OnEventStreamMessage:
		state.record(msg.message)
	default:
		state.logger.Debug("history recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HistoryActor) record(event any) {
	switch ev := event.(type) {
	case domain.FloatSensorUpdateEvent:
		state.recorder.RecordNumericState(ev.Id, ev.Value)
	case domain.TextSensorUpdateEvent:
		state.recorder.RecordTextState(ev.Id, ev.Value)
	}
}
