package actor

import (
	"sync"
	"testing"
	"time"

	adactor "lares2mqtt/internal/adapter/actor"
	"lares2mqtt/internal/core/domain"
	"lares2mqtt/internal/util"
	"lares2mqtt/internal/util/actorutil"
	"lares2mqtt/pkg/lareslink"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPollerCatalogBuild(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	cfg.MonitorConfig.PollIntervalMillis = 0

	session, err := lareslink.CreateSimulatedSessionClient()
	require.NoError(t, err)

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	laresProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewLaresActor(session, logger)
	})
	laresPID := context.Spawn(laresProps)

	es := &eventstream.EventStream{}

	pollerProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPollerActor(&cfg, laresPID, es, logger)
	})
	pid := context.Spawn(pollerProps)

	time.Sleep(2 * time.Second)

	result, err := context.RequestFuture(pid, domain.GetCatalogRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetCatalogResponse)

	assert.False(resp.HasResponseError(), "response error")
	assert.Len(resp.Sensors, 8, "catalog size")

	uniqueIds := make(map[string]bool)
	for _, s := range resp.Sensors {
		uniqueIds[s.UniqueId] = true
	}
	assert.Len(uniqueIds, 8, "unique ids are distinct")
	assert.True(uniqueIds["domus_1"], "domus_1 present")
	assert.True(uniqueIds["powerlines_1"], "powerlines_1 present")
	assert.True(uniqueIds["system_1"], "system_1 present")

	context.Stop(pid)

	as.Shutdown()
}

func TestPollerPublishesInitialStates(t *testing.T) {

	cfg := util.LoadTestConfig()
	cfg.MonitorConfig.PollIntervalMillis = 0

	session, err := lareslink.CreateSimulatedSessionClient()
	require.NoError(t, err)

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	laresProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewLaresActor(session, logger)
	})
	laresPID := context.Spawn(laresProps)

	es := &eventstream.EventStream{}

	var mu sync.Mutex
	updates := make(map[string]domain.SensorUpdateEvent)
	sub := es.Subscribe(func(evt any) {
		switch ev := evt.(type) {
		case domain.FloatSensorUpdateEvent:
			mu.Lock()
			updates[ev.SensorId()] = ev
			mu.Unlock()
		case domain.TextSensorUpdateEvent:
			mu.Lock()
			updates[ev.SensorId()] = ev
			mu.Unlock()
		}
	})
	defer es.Unsubscribe(sub)

	pollerProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPollerActor(&cfg, laresPID, es, logger)
	})
	pollerPID := context.Spawn(pollerProps)

	time.Sleep(3 * time.Second)

	mu.Lock()
	defer mu.Unlock()

	// one state update per catalog entity
	assert.Len(t, updates, 8, "state updates")

	meter, ok := updates["powerlines_1"].(domain.FloatSensorUpdateEvent)
	require.True(t, ok, "meter publishes a numeric state")
	assert.EqualValues(t, 1250.5, meter.Value)

	system, ok := updates["system_1"].(domain.TextSensorUpdateEvent)
	require.True(t, ok, "system publishes a text state")
	assert.Equal(t, "DISARMED", system.Value)

	// a probe without a temperature reading degrades to its status token
	cellar, ok := updates["domus_2"].(domain.TextSensorUpdateEvent)
	require.True(t, ok, "cellar probe publishes a text state")
	assert.Equal(t, "ok", cellar.Value)

	context.Stop(pollerPID)

	as.Shutdown()
}

func TestPollerRefreshTick(t *testing.T) {

	cfg := util.LoadTestConfig()
	cfg.MonitorConfig.PollIntervalMillis = 1000

	session, err := lareslink.CreateSimulatedSessionClient()
	require.NoError(t, err)

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	laresProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewLaresActor(session, logger)
	})
	laresPID := context.Spawn(laresProps)

	es := &eventstream.EventStream{}

	var mu sync.Mutex
	count := 0
	sub := es.Subscribe(func(evt any) {
		if ev, ok := evt.(domain.SensorUpdateEvent); ok && ev.SensorId() == "powerlines_1" {
			if _, isFloat := ev.(domain.FloatSensorUpdateEvent); isFloat {
				mu.Lock()
				count++
				mu.Unlock()
			}
		}
	})
	defer es.Unsubscribe(sub)

	pollerProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPollerActor(&cfg, laresPID, es, logger)
	})
	pollerPID := context.Spawn(pollerProps)

	// initial publish plus at least two refresh cycles
	time.Sleep(4 * time.Second)

	mu.Lock()
	got := count
	mu.Unlock()
	assert.GreaterOrEqual(t, got, 3, "meter state republished on refresh")

	context.Stop(pollerPID)

	as.Shutdown()
}
