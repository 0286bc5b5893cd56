package gateway

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Subscription is one live server-push channel. Close releases the
// underlying connection (or fallback poller); the caller owns that call.
type Subscription struct {
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// Close tears the subscription down. Safe to call more than once; after
// it returns no further messages reach the sink.
func (s *Subscription) Close() {
	s.closeOnce.Do(s.cancel)
}

// subscribe opens an SSE connection and delivers each data frame to
// onData. Malformed frames are the sink's problem; connection-level
// errors invoke onStreamError once and end the loop.
func (c *Client) subscribe(ctx context.Context, rawURL string, onData func([]byte), onStreamError func()) *Subscription {
	streamCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel}

	go func() {
		if err := c.readEventStream(streamCtx, rawURL, onData); err != nil {
			if streamCtx.Err() == nil && onStreamError != nil {
				onStreamError()
			}
		}
	}()

	return sub
}

// readEventStream blocks reading SSE frames until the stream ends
func (c *Client) readEventStream(ctx context.Context, rawURL string, onData func([]byte)) error {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// Streaming reads must not inherit the request timeout
	streamClient := &http.Client{Transport: c.HTTP.Transport}
	res, err := streamClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errorFromResponse(res, "stream rejected")
	}

	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()

		if line == "" {
			// frame boundary
			if data.Len() > 0 {
				onData([]byte(data.String()))
				data.Reset()
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue // comment / keep-alive
		}
		if payload, ok := strings.CutPrefix(line, "data:"); ok {
			data.WriteString(strings.TrimPrefix(payload, " "))
		}
		// "event:" and "id:" lines carry no payload for our topics
	}

	if data.Len() > 0 {
		onData([]byte(data.String()))
	}
	return scanner.Err()
}

// decodeInto parses one JSON frame into a fresh T and hands it to sink.
// Parse failures are swallowed: a malformed push message is dropped,
// never surfaced.
func decodeInto[T any](sink func(T)) func([]byte) {
	return func(raw []byte) {
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return
		}
		sink(record)
	}
}

// SubscribeEvents opens the all-events push topic. No polling fallback:
// on stream error the subscription simply stops receiving.
func (c *Client) SubscribeEvents(ctx context.Context, sink func(Evento)) *Subscription {
	return c.subscribe(ctx, c.BaseURL+"/eventos", decodeInto(sink), nil)
}

// SubscribeEventsByCategory opens the per-category push topic
func (c *Client) SubscribeEventsByCategory(ctx context.Context, tipo string, sink func(Evento)) *Subscription {
	return c.subscribe(ctx, c.BaseURL+"/eventos/categoria/"+url.PathEscape(tipo), decodeInto(sink), nil)
}

// SubscribeTickets opens the ticket push topic
func (c *Client) SubscribeTickets(ctx context.Context, sink func(Ingresso)) *Subscription {
	return c.subscribe(ctx, c.BaseURL+"/ingressos", decodeInto(sink), nil)
}

// SubscribeAdmins opens the admin-list push topic
func (c *Client) SubscribeAdmins(ctx context.Context, sink func(Usuario)) *Subscription {
	return c.subscribe(ctx, c.BaseURL+"/super-admin/listar/admins", decodeInto(sink), nil)
}

// SubscribeUsers opens the user-list push topic
func (c *Client) SubscribeUsers(ctx context.Context, sink func(Usuario)) *Subscription {
	return c.subscribe(ctx, c.BaseURL+"/super-admin/listar/usuarios", decodeInto(sink), nil)
}

// SubscribePendingRequests opens the pending-role-requests topic. This
// is the one topic with a degradation path: when the stream errors the
// subscription falls back to fixed-interval polling of the same logical
// resource until closed.
func (c *Client) SubscribePendingRequests(ctx context.Context, token string, sink func(Solicitacao)) *Subscription {
	streamCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{cancel: cancel}

	sseURL := c.BaseURL + "/permissoes/pendentes?token=" + url.QueryEscape(token)

	go func() {
		err := c.readEventStream(streamCtx, sseURL, decodeInto(sink))
		if err == nil || streamCtx.Err() != nil {
			return
		}
		c.pollPendingRequests(streamCtx, token, sink)
	}()

	return sub
}

// pollPendingRequests re-fetches the pending list every PollFallback
// interval, forwarding each record. Fetch failures are swallowed; the
// next tick retries.
func (c *Client) pollPendingRequests(ctx context.Context, token string, sink func(Solicitacao)) {
	interval := c.PollFallback
	if interval <= 0 {
		interval = 5 * time.Second
	}

	deliver := func() {
		solicitacoes, err := c.PendingRequests(ctx, token)
		if err != nil {
			return
		}
		for _, s := range solicitacoes {
			sink(s)
		}
	}

	deliver()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deliver()
		}
	}
}
