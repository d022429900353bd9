package pkg

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// TrustedProxies is the set of networks whose X-Real-Ip / X-Forwarded-For headers are believed.
type TrustedProxies []*net.IPNet

// ParseTrustedProxies accepts CIDRs ("10.0.0.0/8") and single IPs ("127.0.0.1").
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	proxies := make(TrustedProxies, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("trusted proxy %q is not an ip or cidr", entry)
			}
			bits := 8 * net.IPv6len
			if ip4 := ip.To4(); ip4 != nil {
				ip, bits = ip4, 8*net.IPv4len
			}
			proxies = append(proxies, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		proxies = append(proxies, ipNet)
	}
	return proxies, nil
}

func (p TrustedProxies) Contains(ip net.IP) bool {
	for _, ipNet := range p {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// ReadUserIP returns the client IP of the request. Proxy headers are only
// honored when the direct peer is one of the trusted proxies, otherwise the
// remote address is the client.
func ReadUserIP(r *http.Request, trusted TrustedProxies) (string, error) {
	remoteIP := parseHostIP(r.RemoteAddr)
	if remoteIP == nil {
		return "", fmt.Errorf("remote addr %s is invalid", r.RemoteAddr)
	}
	if !trusted.Contains(remoteIP) {
		return remoteIP.String(), nil
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-Ip")); realIP != "" {
		ip := parseHostIP(realIP)
		if ip == nil {
			return "", fmt.Errorf("ip addr %s is invalid", realIP)
		}
		return ip.String(), nil
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// walk back from our own peer, the first hop we do not trust is the client
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			ip := parseHostIP(strings.TrimSpace(hops[i]))
			if ip == nil {
				return "", fmt.Errorf("ip addr %s is invalid", strings.TrimSpace(hops[i]))
			}
			if !trusted.Contains(ip) || i == 0 {
				return ip.String(), nil
			}
		}
	}

	return remoteIP.String(), nil
}

func parseHostIP(addr string) net.IP {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	return net.ParseIP(host)
}
