package event

import "strings"

var (
	nameToType = make(map[string]EventType)
	typeToName = make(map[EventType]string)
)

func init() {
	RegisterType("ContactBegin", EventContactBegin)
	RegisterType("ContactPersist", EventContactPersist)
	RegisterType("ContactEnd", EventContactEnd)
	RegisterType("SensorBegin", EventSensorBegin)
	RegisterType("SensorEnd", EventSensorEnd)
	RegisterType("BodyDestroyed", EventBodyDestroyed)
}

// RegisterType maps a string name to an EventType
func RegisterType(name string, et EventType) {
	nameToType[strings.ToLower(name)] = et
	typeToName[et] = name
}

// GetEventType returns the EventType for a name, case-insensitive
func GetEventType(name string) (EventType, bool) {
	et, ok := nameToType[strings.ToLower(name)]
	return et, ok
}

// GetEventName returns the registered name of an EventType
func GetEventName(et EventType) string {
	if name, ok := typeToName[et]; ok {
		return name
	}
	return "Unknown"
}

func (et EventType) String() string {
	return GetEventName(et)
}

// MaskOf builds a subscription mask from event names; unknown names are returned separately
func MaskOf(names ...string) (mask uint64, unknown []string) {
	for _, n := range names {
		et, ok := GetEventType(n)
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		mask |= 1 << et
	}
	return mask, unknown
}

// InMask reports whether et is selected by mask, a zero mask selects everything
func (et EventType) InMask(mask uint64) bool {
	return mask == 0 || mask&(1<<et) != 0
}
