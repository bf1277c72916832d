// README: Keyword intent classifier for inbound chat messages.
package chat

import (
	"regexp"
	"strconv"
	"strings"
)

type Intent string

const (
	IntentTrackOrder     Intent = "track_order"
	IntentRouteStatus    Intent = "route_status"
	IntentDriverLocation Intent = "driver_location"
	IntentHelp           Intent = "help"
	IntentUnknown        Intent = "unknown"
)

// Classification is the routing decision for one chat message. OrderID is 0
// when the message names no order.
type Classification struct {
	Intent  Intent
	OrderID int64
}

var orderIDPattern = regexp.MustCompile(`\b(\d{3,})\b`)

// keyword tables, checked in order; first hit wins. Driver before track so
// "where is my driver" does not fall into the generic tracking bucket.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentDriverLocation, []string{"driver", "map", "gps"}},
	{IntentRouteStatus, []string{"route", "stops", "how many deliveries"}},
	{IntentTrackOrder, []string{"track", "where", "status", "eta", "when", "arrive", "delivery"}},
	{IntentHelp, []string{"help", "what can you"}},
}

// Classify routes a chat message by keyword. Deliberately mechanical; a
// message that matches nothing is IntentUnknown, which the chat handler
// treats as a verification identifier when one is being waited on.
func Classify(message string) Classification {
	lower := strings.ToLower(message)
	c := Classification{Intent: IntentUnknown, OrderID: extractOrderID(message)}

	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				c.Intent = entry.intent
				return c
			}
		}
	}
	return c
}

// extractOrderID pulls the first number of at least three digits. Shorter
// numbers and zero-padded ones are too likely to be an address fragment or
// the tail of a phone number; order ids never start with zero.
func extractOrderID(message string) int64 {
	m := orderIDPattern.FindString(message)
	if m == "" || m[0] == '0' {
		return 0
	}
	id, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
