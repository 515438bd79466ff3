package validators

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	mx  map[string]bool
	ips map[string]bool
}

func (f fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if f.mx[name] {
		return []*net.MX{{Host: "mail." + name, Pref: 10}}, nil
	}
	return nil, errors.New("no such host")
}

func (f fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if f.ips[host] {
		return []net.IPAddr{{IP: net.ParseIP("192.0.2.1")}}, nil
	}
	return nil, errors.New("no such host")
}

func TestEmailDomainChecker(t *testing.T) {
	check := EmailDomainChecker(fakeResolver{
		mx:  map[string]bool{"hospital.org": true},
		ips: map[string]bool{"clinic.net": true},
	}, time.Second)

	assert.True(t, check("nurse@hospital.org"))
	assert.True(t, check("doc@clinic.net"))
	assert.False(t, check("someone@nowhere.invalid"))
	assert.False(t, check("no-at-sign"))
	assert.False(t, check("trailing@"))
}
