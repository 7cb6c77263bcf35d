package mt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Host supplies the side effects scripts can reach: a delay, a network fetch
// decoded into a value, and an output sink. Implementations must be safe for
// concurrent use by every running thread program.
type Host interface {
	Wait(ctx context.Context, d time.Duration) error
	Fetch(ctx context.Context, url string) (Value, error)
	Print(line string)
}

// StdHost is the default host: real timers, net/http, and a writer guarded
// so lines from concurrent programs never interleave.
type StdHost struct {
	mu     sync.Mutex
	out    io.Writer
	client *http.Client
}

// NewStdHost builds a host writing to out. A nil client uses a client with
// the given timeout.
func NewStdHost(out io.Writer, client *http.Client, timeout time.Duration) *StdHost {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &StdHost{out: out, client: client}
}

func (h *StdHost) Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (h *StdHost) Fetch(ctx context.Context, url string) (Value, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewNull(), err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")
	resp, err := h.client.Do(req)
	if err != nil {
		return NewNull(), err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return NewNull(), fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return NewNull(), err
	}
	if len(body) > maxPayloadBytes {
		return NewNull(), fmt.Errorf("GET %s: response exceeds limit %d bytes", url, maxPayloadBytes)
	}
	return decodeStructured(body, resp.Header.Get("Content-Type"))
}

func (h *StdHost) Print(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintln(h.out, line)
}
