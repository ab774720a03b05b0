package actor

import (
	"fmt"
	"time"

	"lares2mqtt/internal/core/domain"
	"lares2mqtt/internal/core/service"
	"lares2mqtt/internal/util/actorutil"
	"lares2mqtt/pkg/lareslink"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/logger"
	"go.uber.org/zap"
)

// LaresActor owns the controller session client and serializes snapshot
// fetches. Blocking I/O runs as a background task so the mailbox stays
// responsive; concurrent requests are stashed until the in-flight fetch
// resolves.
type LaresActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	session  lareslink.SessionClient
	logger   *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewLaresActor(session lareslink.SessionClient, logger *zap.Logger) *LaresActor {
	act := &LaresActor{
		session:  session,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger(domain.ACTOR_ID_LARES, logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *LaresActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *LaresActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("lares@default ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_LARES,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetRecordsRequest:
		state.logger.Debug("lares@default GetRecordsRequest", zap.String("category", string(msg.Category)))
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		category := msg.Category

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.GetRecordsResponse, error) {
			return state.getRecords(category)
		}), mapTaskResult[domain.GetRecordsResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetRecordsResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
					Category: category,
				},
				replyTo: sender,
			}
		}).WithTimeout(5 * time.Second).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingSession)
	default:
		state.logger.Debug("lares@default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *LaresActor) WaitingSession(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("lares@waiting backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("lares@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *LaresActor) getRecords(category domain.Category) (*domain.GetRecordsResponse, error) {
	records, err := service.FetchCategory(a.session, category)
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.GetRecordsResponse{
		Category: category,
		Records:  records,
	}, nil
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
