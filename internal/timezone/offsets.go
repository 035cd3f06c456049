// Package timezone maps named zones to fixed UTC offsets.
//
// This is a deliberate approximation: the table ignores daylight-saving
// transitions and political timezone changes. The due check only needs
// hour-level local time, and a stale offset shifts a delivery by one hour
// at worst. A correct implementation would load the IANA database instead.
package timezone

// offsets covers the zones offered on the signup form.
var offsets = map[string]int{
	"America/New_York":    -5,
	"America/Chicago":     -6,
	"America/Denver":      -7,
	"America/Los_Angeles": -8,
	"Europe/London":       0,
	"Europe/Paris":        1,
	"Europe/Berlin":       1,
	"Asia/Shanghai":       8,
	"Asia/Tokyo":          9,
	"UTC":                 0,
}

// OffsetHours returns the fixed UTC offset for a named zone.
// Unknown zones resolve to 0 (UTC).
func OffsetHours(zone string) int {
	return offsets[zone]
}

// Known reports whether the zone is in the offset table.
func Known(zone string) bool {
	_, ok := offsets[zone]
	return ok
}
