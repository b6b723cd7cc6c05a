package iputils

import (
	"crypto/rand"
	"fmt"
	"net"

	"github.com/ChristianF88/radixsort/radix"
)

// IPToUint32 converts a net.IP to uint32 representation
// Uses BigEndian encoding for consistent network byte order
func IPToUint32(ip net.IP) uint32 {
	ipv4 := ip.To4()
	if ipv4 == nil {
		return 0
	}
	return uint32(ipv4[0])<<24 | uint32(ipv4[1])<<16 | uint32(ipv4[2])<<8 | uint32(ipv4[3])
}

// Uint32ToIP converts a uint32 back to net.IP
func Uint32ToIP(ip uint32) net.IP {
	return net.IPv4(byte(ip>>24), byte(ip>>16), byte(ip>>8), byte(ip))
}

// ParseIPv4Key parses a dotted-quad IPv4 address into its uint32 sort key.
func ParseIPv4Key(s string) (uint32, error) {
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return 0, fmt.Errorf("invalid IPv4 address: %q", s)
	}
	return IPToUint32(ip), nil
}

// SortIPs returns the IPv4 addresses of ips in ascending numeric order.
// Entries that are not IPv4 are returned unsorted in skipped.
func SortIPs(ips []net.IP) (sorted []net.IP, skipped []net.IP) {
	keys := make([]uint32, 0, len(ips))
	for _, ip := range ips {
		if ip.To4() == nil {
			skipped = append(skipped, ip)
			continue
		}
		keys = append(keys, IPToUint32(ip))
	}

	radix.SortUint32(keys)

	sorted = make([]net.IP, len(keys))
	for i, k := range keys {
		sorted[i] = Uint32ToIP(k)
	}
	return sorted, skipped
}

// IsValidCidrOrIP checks if string is a valid CIDR or IP address
func IsValidCidrOrIP(s string) bool {
	if _, _, err := net.ParseCIDR(s); err == nil {
		return true
	}
	if ip := net.ParseIP(s); ip != nil {
		return true
	}
	return false
}

// RandomIPsFromRange draws count host addresses uniformly from an IPv4 CIDR
// range. The network and broadcast addresses are never returned.
func RandomIPsFromRange(cidr string, count int) ([]net.IP, error) {
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, err
	}
	if _, bits := ipnet.Mask.Size(); bits != 32 {
		return nil, fmt.Errorf("%s: only IPv4 ranges are supported", cidr)
	}

	first := IPToUint32(ipnet.IP)
	last := IPToUint32(lastIPInRange(ipnet))
	if last-first < 2 {
		return nil, fmt.Errorf("%s: range has no host addresses", cidr)
	}

	ipList := make([]net.IP, 0, count)
	for len(ipList) < count {
		offset, err := randUint32Range(1, last-first)
		if err != nil {
			return nil, err
		}
		ipList = append(ipList, Uint32ToIP(first+offset))
	}
	return ipList, nil
}

// randUint32Range generates a random uint32 in the range [min, max)
func randUint32Range(min, max uint32) (uint32, error) {
	if min >= max {
		return 0, fmt.Errorf("invalid range")
	}
	r := make([]byte, 4)
	if _, err := rand.Read(r); err != nil {
		return 0, err
	}
	randomValue := uint32(r[0])<<24 | uint32(r[1])<<16 | uint32(r[2])<<8 | uint32(r[3])
	return min + randomValue%(max-min), nil
}

// lastIPInRange returns the last IP in a CIDR range
func lastIPInRange(ipnet *net.IPNet) net.IP {
	ip := make(net.IP, len(ipnet.IP))
	copy(ip, ipnet.IP)
	for i := range ip {
		ip[i] |= ^ipnet.Mask[i]
	}
	return ip
}
