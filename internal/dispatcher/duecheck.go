package dispatcher

import (
	"time"

	"github.com/bibletext/dailyverse/internal/models"
	"github.com/bibletext/dailyverse/internal/timezone"
)

// Due reports whether now is a valid delivery instant for the subscriber.
// Pure function of its inputs; runs are assumed to fire at the top of each
// hour, so the minute component of the delivery time is ignored.
func Due(now time.Time, sub *models.Subscriber) bool {
	utc := now.UTC()
	hourUTC := utc.Hour()
	dayUTC := int(utc.Weekday()) // Sunday = 0

	offset := timezone.OffsetHours(sub.Timezone)
	localHour := ((hourUTC+offset)%24 + 24) % 24

	switch sub.Frequency {
	case models.FrequencyHourly:
		return true

	case models.FrequencyDaily:
		return localHour == sub.DeliveryHour()

	case models.FrequencyWeekly:
		// The offset can push the local day across the UTC day boundary
		// in either direction.
		localDay := ((dayUTC+floorDiv(hourUTC+offset, 24))%7 + 7) % 7
		deliveryDay := 0 // Sunday when unset
		if sub.DeliveryDay != nil {
			deliveryDay = *sub.DeliveryDay
		}
		return localHour == sub.DeliveryHour() && localDay == deliveryDay

	default:
		// unknown frequency is never due
		return false
	}
}

// floorDiv divides rounding toward negative infinity. Go's integer
// division truncates toward zero, which is wrong for negative local hours.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
