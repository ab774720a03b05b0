package events

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	. "lares2mqtt/internal/core/domain"
	"lares2mqtt/internal/core/service"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE = "bridge"

	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_TEMPERATURE  = "temperature"
	DEVICE_CLASS_POWER        = "power"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
)

// BridgeDevice is the Home Assistant device every published sensor hangs
// from. One bridge per base topic.
func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("lares2mqtt_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "Ksenia",
		Model:        "Lares bridge",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Lares %s", md5HashShort(baseTopic)),
	}
}

// EntityToUpdateEvents converts the current state of one catalog entity to
// the events the publishing side understands: one state event whose shape
// follows the polymorphic state kind, plus the full attribute bag.
func EntityToUpdateEvents(e *service.Entity) []any {
	var events []any

	state := e.State()
	if state.IsNumber() {
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: e.UniqueId(),
			},
			Value:    *state.Number,
			Decimals: decimalsFor(e.Category()),
		})
	} else {
		events = append(events, TextSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: e.UniqueId(),
			},
			Value: state.Text,
		})
	}

	events = append(events, AttributesUpdateEvent{
		SensorUpdateEventMixIn: SensorUpdateEventMixIn{
			Id: e.UniqueId(),
		},
		Attributes: e.Attributes(),
	})

	return events
}

// CatalogSensors maps catalog descriptors to discoverable sensors on the
// bridge device.
func CatalogSensors(bridgeDevice Device, descriptors []SensorDescriptor) []GenericSensor {
	var sensors []GenericSensor
	for _, d := range descriptors {
		sensor := GenericSensor{
			Device:         bridgeDevice,
			Id:             d.UniqueId,
			SensorType:     SENSOR_TYPE_SENSOR,
			Name:           d.Name,
			UniqueId:       uniqueId(bridgeDevice.Id, d.UniqueId),
			Icon:           iconFor(d.Category),
			WithAttributes: true,
		}
		switch d.Category {
		case CategoryDomus:
			// polymorphic state: no device class, HA would reject the
			// status token fallback on a temperature sensor
		case CategoryPowerLines, CategoryPartitions:
			sensor.UnitOfMeasurement = "W"
		}
		sensors = append(sensors, sensor)
	}
	return sensors
}

// BridgeSensors returns the diagnostic connectivity sensor of the bridge
// itself.
func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{
		{
			Device:         bridgeDevice,
			Id:             SENSOR_ID_BRIDGE_STATE,
			SensorType:     SENSOR_TYPE_BINARY,
			Name:           "Connection state",
			DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
			EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
			UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
		},
	}
}

func decimalsFor(category Category) uint {
	switch category {
	case CategoryDomus:
		return 1
	default:
		return 2
	}
}

func iconFor(category Category) string {
	switch category {
	case CategoryDomus:
		return "mdi:thermometer"
	case CategoryPowerLines:
		return "mdi:transmission-tower"
	case CategoryPartitions:
		return "mdi:shield-home"
	case CategoryZones:
		return "mdi:motion-sensor"
	case CategorySystem:
		return "mdi:alarm-panel"
	default:
		return ""
	}
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
