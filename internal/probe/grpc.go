// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCHealth calls grpc.health.v1.Health/Check on addr. A missing port
// defaults to 443. TLS is used unless plaintext is set.
func GRPCHealth(ctx context.Context, addr string, plaintext bool) Check {
	c := Check{Name: "grpc health"}

	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	target := addr
	if _, _, err := net.SplitHostPort(addr); err != nil {
		target = net.JoinHostPort(addr, "443")
	}
	c.Target = target

	creds := credentials.NewTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12})
	if plaintext {
		creds = insecure.NewCredentials()
	}

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(creds))
	if err != nil {
		c.Err = err
		return c
	}
	defer conn.Close()

	dctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	start := time.Now()
	resp, err := healthpb.NewHealthClient(conn).Check(dctx, &healthpb.HealthCheckRequest{})
	c.Latency = time.Since(start)
	if err != nil {
		c.Err = err
		return c
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		c.Err = fmt.Errorf("service status %s", resp.GetStatus())
	}
	return c
}
