package actor

import (
	"testing"
	"time"

	"lares2mqtt/internal/core/domain"
	"lares2mqtt/internal/util/actorutil"
	"lares2mqtt/pkg/lareslink"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetRecordsLaresActor(t *testing.T) {

	assert := assert.New(t)

	session, err := lareslink.CreateSimulatedSessionClient()
	if err != nil {
		t.Error(err)
		return
	}

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewLaresActor(session, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.GetRecordsRequest{Category: domain.CategoryDomus}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetRecordsResponse)

	assert.False(resp.HasResponseError(), "response error")
	assert.Equal(domain.CategoryDomus, resp.Category, "response category")
	assert.Len(resp.Records, 2, "domus record count")
	assert.Equal("1", resp.Records[0].ID(), "first record id")

	context.Stop(pid)

	as.Shutdown()
}

func TestGetRecordsSequenceLaresActor(t *testing.T) {

	assert := assert.New(t)

	session, err := lareslink.CreateSimulatedSessionClient()
	if err != nil {
		t.Error(err)
		return
	}

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewLaresActor(session, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	// requests are serialized through the session, one snapshot at a time
	for _, category := range domain.Categories {
		result, err := context.RequestFuture(pid, domain.GetRecordsRequest{Category: category}, 15*time.Second).Result()
		if err != nil {
			t.Error(err)
			return
		}
		resp := result.(domain.GetRecordsResponse)
		assert.False(resp.HasResponseError(), "response error")
		assert.Equal(category, resp.Category, "response category")
		assert.NotEmpty(resp.Records, "records for %s", category)
	}

	context.Stop(pid)

	as.Shutdown()
}

func TestLaresActorHealth(t *testing.T) {

	assert := assert.New(t)

	session, err := lareslink.CreateSimulatedSessionClient()
	if err != nil {
		t.Error(err)
		return
	}

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewLaresActor(session, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	result, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.ActorHealthResponse)

	assert.True(resp.Healthy, "healthy")
	assert.Equal(domain.ACTOR_ID_LARES, resp.Id, "actor id")

	context.Stop(pid)

	as.Shutdown()
}
