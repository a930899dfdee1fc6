// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package probe runs the connectivity checks behind `signin doctor`.
package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single check.
const DefaultTimeout = 5 * time.Second

// Check is the outcome of one probe.
type Check struct {
	Name    string
	Target  string
	Latency time.Duration
	Err     error
}

// OK reports whether the check passed.
func (c Check) OK() bool { return c.Err == nil }

// HostPort derives host:port from a base URL, defaulting the port from the scheme.
func HostPort(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("base url %q has no host", baseURL)
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		default:
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

// TCP dials the API host and closes the connection immediately.
func TCP(ctx context.Context, baseURL string) Check {
	c := Check{Name: "api reachable"}
	target, err := HostPort(baseURL)
	if err != nil {
		c.Err = err
		return c
	}
	c.Target = target

	dctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	start := time.Now()
	var d net.Dialer
	conn, err := d.DialContext(dctx, "tcp", target)
	c.Latency = time.Since(start)
	if err != nil {
		c.Err = err
		return c
	}
	_ = conn.Close()
	return c
}

// Pinger is satisfied by the token store backends.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store checks that the token store answers.
func Store(ctx context.Context, backend string, p Pinger) Check {
	c := Check{Name: "token store", Target: backend}
	dctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	start := time.Now()
	c.Err = p.Ping(dctx)
	c.Latency = time.Since(start)
	return c
}
