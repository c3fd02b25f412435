// cmd/ping/main.go
//
// Intended for Docker HEALTHCHECK of the dev store:
//   HEALTHCHECK CMD ["/ping"]

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"note-inbox/internal/clients/gateway"
	"note-inbox/internal/logger"
	"note-inbox/internal/services/inbox"
)

// -----------------------------------------------------------------------------
// Constants
// -----------------------------------------------------------------------------
const (
	defaultPort    = 5600
	requestTimeout = 1 * time.Second

	// exit codes
	codeBadConfig         = 1
	codeRequestFailed     = 2
	codeBadHTTPStatus     = 3
	codeReportedUnhealthy = 5

	// log / error templates
	msgBadConfig         = "bad config: %v"
	msgRequestFailed     = "request failed: %v"
	msgBadHTTPStatus     = "unexpected HTTP status %d"
	msgReportedUnhealthy = "service reported unhealthy: %v"
	msgHealthy           = "service healthy on port %d"
)

func main() {
	port := detectPort()
	os.Exit(probe(fmt.Sprintf("http://localhost:%d", port), port))
}

// probe checks /healthz and returns the process exit code.
func probe(baseURL string, port int) int {
	client, err := gateway.New(baseURL, requestTimeout, logger.Discard())
	if err != nil {
		log.Printf(msgBadConfig, err)
		return codeBadConfig
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	err = client.Health(ctx)
	var se *inbox.StatusError
	switch {
	case err == nil:
		log.Printf(msgHealthy, port)
		return 0
	case errors.Is(err, inbox.ErrNetwork):
		log.Printf(msgRequestFailed, err)
		return codeRequestFailed
	case errors.As(err, &se) && se.Status == 503:
		log.Printf(msgReportedUnhealthy, se.Message)
		return codeReportedUnhealthy
	case errors.As(err, &se):
		log.Printf(msgBadHTTPStatus, se.Status)
		return codeBadHTTPStatus
	default:
		log.Printf(msgRequestFailed, err)
		return codeRequestFailed
	}
}

// detectPort parses APP_PORT and falls back to defaultPort.
func detectPort() int {
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			return p
		}
	}
	return defaultPort
}
