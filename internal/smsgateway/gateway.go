// Package smsgateway resolves carrier SMS-to-email gateway addresses and
// formats verse payloads for single-segment text messages.
package smsgateway

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed carriers.yaml
var carriersYAML []byte

// Carrier describes one SMS-to-email gateway.
type Carrier struct {
	Name   string `yaml:"name"`
	Domain string `yaml:"domain"`
}

var carriers map[string]Carrier

func init() {
	if err := yaml.Unmarshal(carriersYAML, &carriers); err != nil {
		panic(fmt.Sprintf("smsgateway: bad embedded carriers.yaml: %v", err))
	}
}

// Carriers returns the carrier table keyed by carrier id.
func Carriers() map[string]Carrier {
	return carriers
}

// KnownCarrier reports whether the carrier id has a gateway.
func KnownCarrier(id string) bool {
	_, ok := carriers[id]
	return ok
}

// Address resolves a phone/carrier pair to a gateway email address.
// The phone is reduced to digits and must be a 10-digit US number.
// Returns false for unknown carriers or malformed numbers; callers must
// treat that as a delivery failure, never fall back to another channel.
func Address(phone, carrier string) (string, bool) {
	gw, ok := carriers[carrier]
	if !ok {
		return "", false
	}

	digits := digitsOnly(phone)
	if len(digits) != 10 {
		return "", false
	}

	return digits + "@" + gw.Domain, true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
