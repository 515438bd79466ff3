package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// Resolver is the part of *net.Resolver used for domain checks.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// EmailDomainChecker accepts an address whose domain has an MX record or,
// failing that, resolves to an address.
func EmailDomainChecker(r Resolver, timeout time.Duration) func(email string) bool {
	return func(email string) bool {
		at := strings.LastIndex(email, "@")
		if at < 0 || at == len(email)-1 {
			return false
		}

		domain := email[at+1:]

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
			return true
		}

		if ips, err := r.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
			return true
		}

		return false
	}
}

func IsEmailDomainValid(email string) bool {
	return EmailDomainChecker(net.DefaultResolver, 3*time.Second)(email)
}
