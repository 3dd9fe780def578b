package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

var DefaultIPCheckServices = []string{
	"https://api.ipify.org",
	"https://ifconfig.me/ip",
	"https://httpbin.org/ip",
}

// IPChecker reports the public address seen by remote services, which tells
// whether PROXY_URL is in effect.
type IPChecker struct {
	client    *http.Client
	services  []string
	userAgent string
	logger    *zap.Logger
}

func NewIPChecker(client *http.Client, services []string, userAgent string, logger *zap.Logger) *IPChecker {
	if len(services) == 0 {
		services = DefaultIPCheckServices
	}
	return &IPChecker{client: client, services: services, userAgent: userAgent, logger: logger}
}

// PublicIP returns the first address any service reports, or "unknown".
func (c *IPChecker) PublicIP(ctx context.Context) string {
	for _, service := range c.services {
		ip, err := c.checkService(ctx, service)
		if err != nil {
			c.logger.Warn("failed to check IP",
				zap.String("service", service),
				zap.Error(err))
			continue
		}

		c.logger.Info("IP check successful",
			zap.String("ip", ip),
			zap.String("service", service))
		return ip
	}

	c.logger.Warn("could not determine public IP")
	return "unknown"
}

func (c *IPChecker) checkService(ctx context.Context, service string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, service, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}

	ip := parseIPResponse(string(body))
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("unexpected response %q", strings.TrimSpace(string(body)))
	}
	return ip, nil
}

// parseIPResponse accepts a bare address or httpbin's {"origin": "..."} form.
func parseIPResponse(response string) string {
	var data struct {
		Origin string `json:"origin"`
	}
	if err := json.Unmarshal([]byte(response), &data); err == nil && data.Origin != "" {
		// httpbin may list the proxy chain
		return strings.TrimSpace(strings.Split(data.Origin, ",")[0])
	}
	return strings.TrimSpace(response)
}
