package adapter

import (
	"context"
	"sync"
)

// Mock is a scriptable Adapter for tests. Responses are returned in
// order; when the script runs out, the last element repeats. Mock is
// safe for concurrent use.
type Mock struct {
	V Vendor

	mu     sync.Mutex
	script []MockReply
	next   int
	calls  []Request
}

// MockReply is one scripted reply from a Mock.
type MockReply struct {
	Resp *Response
	Err  error
}

// NewMock creates a Mock for the given vendor with a reply script.
func NewMock(v Vendor, script ...MockReply) *Mock {
	return &Mock{V: v, script: script}
}

// Reply builds a successful scripted reply with token counts.
func Reply(text string, in, out int) MockReply {
	return MockReply{Resp: &Response{
		Text:         text,
		InputTokens:  in,
		OutputTokens: out,
		TokensKnown:  true,
	}}
}

// ReplyNoTokens builds a successful scripted reply without usage data.
func ReplyNoTokens(text string) MockReply {
	return MockReply{Resp: &Response{Text: text}}
}

// Fail builds a scripted failure.
func Fail(err error) MockReply {
	return MockReply{Err: err}
}

// Vendor implements Adapter.
func (m *Mock) Vendor() Vendor { return m.V }

// Generate implements Adapter.
func (m *Mock) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if len(m.script) == 0 {
		return &Response{Text: "", TokensKnown: false}, nil
	}

	r := m.script[m.next]
	if m.next < len(m.script)-1 {
		m.next++
	}
	if r.Err != nil {
		return nil, r.Err
	}
	resp := *r.Resp
	return &resp, nil
}

// Calls returns a copy of all requests seen so far.
func (m *Mock) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Generate calls seen so far.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
