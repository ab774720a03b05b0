package actor

import (
	"fmt"
	"time"

	"lares2mqtt/internal/config"
	"lares2mqtt/internal/core/domain"
	"lares2mqtt/internal/core/events"
	"lares2mqtt/internal/core/service"
	. "lares2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

// PollerActor builds the sensor catalog at startup and drives the periodic
// refresh cycle. It is the only writer of entity state: every snapshot comes
// in as a message from the lares actor, so entity updates never race.
type PollerActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	laresActor  *actor.PID
	config      *config.Config
	eventStream *eventstream.EventStream

	catalog *service.Catalog
	pending []domain.Category

	logger *zap.Logger
}

type pollTick struct {
}

func NewPollerActor(config *config.Config, laresActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *PollerActor {
	act := &PollerActor{
		config:      config,
		laresActor:  laresActor,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_POLLER, logger),
		eventStream: eventStream,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *PollerActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *PollerActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("poller@starting started")

		// catalog build: fetch the five category snapshots one at a time,
		// in fixed order
		state.catalog = service.NewCatalog()
		state.pending = domain.Categories
		state.requestCategory(ctx, state.pending[0])
		state.behavior.Become(state.BuildingReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("poller@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// BuildingReceive collects one snapshot per category. A failed category is
// logged and contributes no entities; the build always completes.
func (state *PollerActor) BuildingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetRecordsResponse:
		if msg.HasResponseError() {
			state.logger.Error("poller@building category snapshot failed, skipping",
				zap.String("category", string(msg.Category)), zap.Error(msg.GetResponseError()))
		} else {
			state.logger.Debug("poller@building received snapshot",
				zap.String("category", string(msg.Category)), zap.Int("records", len(msg.Records)))
			state.catalog.AddCategory(msg.Category, msg.Records, state.logger)
		}

		state.pending = state.pending[1:]
		if len(state.pending) > 0 {
			state.requestCategory(ctx, state.pending[0])
			return
		}

		state.logger.Info("poller@building catalog ready", zap.Int("entities", state.catalog.Size()))

		// publish the states derived at construction
		for _, entity := range state.catalog.Entities() {
			state.publishEntity(entity)
		}

		if state.config.MonitorConfig.PollIntervalMillis > 0 {
			state.scheduler = scheduler.NewTimerScheduler(ctx)
			state.scheduler.RequestOnce(state.pollInterval(), ctx.Self(), pollTick{})
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("poller@building stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("poller@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLLER,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetCatalogRequest:
		state.logger.Debug("poller@default GetCatalogRequest")
		ForRequest(msg).Respond(ctx, domain.GetCatalogResponse{
			Sensors: state.catalog.Descriptors(),
		})
	case pollTick:
		state.logger.Debug("poller@default tick")
		for _, category := range state.catalog.Categories() {
			state.requestCategory(ctx, category)
		}
		state.scheduler.RequestOnce(state.pollInterval(), ctx.Self(), pollTick{})
	case domain.GetRecordsResponse:
		if msg.HasResponseError() {
			// affected entities keep their previous state
			state.logger.Error("poller@default refresh fetch failed",
				zap.String("category", string(msg.Category)), zap.Error(msg.GetResponseError()))
			return
		}
		for _, entity := range state.catalog.ByCategory(msg.Category) {
			if entity.ApplySnapshot(msg.Records) {
				state.publishEntity(entity)
			}
			// lookup miss: silent no-op, last known state stands
		}
	default:
		state.logger.Debug("poller@default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *PollerActor) requestCategory(ctx actor.Context, category domain.Category) {
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.laresActor, domain.GetRecordsRequest{Category: category}, 10*time.Second), func(err error) any {
		return domain.GetRecordsResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
			Category: category,
		}
	})
}

func (state *PollerActor) publishEntity(entity *service.Entity) {
	for _, ev := range events.EntityToUpdateEvents(entity) {
		state.eventStream.Publish(ev)
	}
}

func (state *PollerActor) pollInterval() time.Duration {
	return time.Duration(state.config.MonitorConfig.PollIntervalMillis) * time.Millisecond
}
