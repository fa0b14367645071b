package device

import "github.com/donfanning/pushclip/internal/models"

// EventKind discriminates registry change notifications.
type EventKind int

const (
	// EventDeviceAdded: another device appeared or re-announced itself.
	EventDeviceAdded EventKind = iota
	// EventDeviceRemoved: another device unregistered.
	EventDeviceRemoved
	// EventMyDeviceRegistered: the local device registered with the channel.
	EventMyDeviceRegistered
	// EventMyDeviceUnregistered: the local device unregistered.
	EventMyDeviceUnregistered
	// EventMyDeviceRemoved: a DEVICE_REMOVED send for the local device
	// completed; sign-out flow may proceed.
	EventMyDeviceRemoved
	// EventRegisterError: a terminal channel registration failure.
	EventRegisterError
	// EventNoRemoteDevices: the relay reported no other registered devices.
	EventNoRemoteDevices
)

func (k EventKind) String() string {
	switch k {
	case EventDeviceAdded:
		return "DeviceAdded"
	case EventDeviceRemoved:
		return "DeviceRemoved"
	case EventMyDeviceRegistered:
		return "MyDeviceRegistered"
	case EventMyDeviceUnregistered:
		return "MyDeviceUnregistered"
	case EventMyDeviceRemoved:
		return "MyDeviceRemoved"
	case EventRegisterError:
		return "RegisterError"
	case EventNoRemoteDevices:
		return "NoRemoteDevices"
	default:
		return "Unknown"
	}
}

// Event is a registry change notification. Device is set for device-scoped
// kinds, Err for EventRegisterError.
type Event struct {
	Kind   EventKind
	Device *models.Device
	Err    error
}
