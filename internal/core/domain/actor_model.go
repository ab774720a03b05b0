package domain

import (
	"lares2mqtt/pkg/lareslink"

	"github.com/asynkron/protoactor-go/actor"
)

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_LARES        = "lares"
	ACTOR_ID_POLLER       = "poller"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
	ACTOR_ID_HISTORY      = "history"
)

type ActorRef actor.PID

type ActorRequestMixIn struct {
	ReplyToRef *ActorRef
}

type ActorRequest interface {
	ReplyTo() *ActorRef
}

func (r ActorRequestMixIn) ReplyTo() *ActorRef {
	return r.ReplyToRef
}

type ActorResponseMixIn struct {
	ResponseError error
}

func (r ActorResponseMixIn) GetResponseError() error {
	return r.ResponseError
}

func (r ActorResponseMixIn) HasResponseError() bool {
	return r.ResponseError != nil
}

type ActorResponse interface {
	GetResponseError() error
	HasResponseError() bool
}

// GetRecordsRequest asks the lares actor for the current snapshot of one
// category. The same request is used at catalog build time and on every
// refresh tick.
type GetRecordsRequest struct {
	ActorRequestMixIn
	Category Category
}

type GetRecordsResponse struct {
	ActorResponseMixIn
	Category Category
	Records  []lareslink.Record
}

// SensorDescriptor is the identity surface of one catalog entity, enough for
// discovery publication without exposing mutable state.
type SensorDescriptor struct {
	Category Category
	Id       string
	UniqueId string
	Name     string
}

type GetCatalogRequest struct {
	ActorRequestMixIn
}

type GetCatalogResponse struct {
	ActorResponseMixIn
	Sensors []SensorDescriptor
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors []GenericSensor
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
