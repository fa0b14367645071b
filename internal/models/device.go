// Package models defines the persisted and wire-level types shared by the
// registry, the push protocol and the backup engine.
package models

import "time"

// Device describes one of the account's devices as seen through the push
// channel. Nickname is user-editable; the other identity fields are not.
type Device struct {
	Model        string    `json:"model"`
	SerialNumber string    `json:"serial_number"`
	PlatformName string    `json:"platform_name"`
	Nickname     string    `json:"nickname"`
	LastSeen     time.Time `json:"last_seen"`
}

// UniqueName identifies a device across renames. Nickname is deliberately
// excluded so a device renaming itself does not create a duplicate entry.
func (d *Device) UniqueName() string {
	return d.Model + d.SerialNumber + d.PlatformName
}

// DisplayName is what other devices show for this device: the nickname when
// set, the model otherwise.
func (d *Device) DisplayName() string {
	if d.Nickname != "" {
		return d.Nickname
	}
	return d.Model
}
