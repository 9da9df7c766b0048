package planner

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// mockRule maps a substring of the user prompt to a canned response.
type mockRule struct {
	match    string
	response string
	err      error
}

// mockClient answers proposer calls by matching the user prompt against
// rules in order. Rule-based routing keeps concurrent planner branches
// deterministic regardless of call interleaving.
type mockClient struct {
	mu    sync.Mutex
	rules []mockRule
	calls []string
}

func (m *mockClient) answer(prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)
	for _, r := range m.rules {
		if strings.Contains(prompt, r.match) {
			return r.response, r.err
		}
	}
	return "", fmt.Errorf("mock: no rule matches prompt %.80q", prompt)
}

func (m *mockClient) Complete(_ context.Context, prompt string) (string, error) {
	return m.answer(prompt)
}

func (m *mockClient) CompleteWithSystem(_ context.Context, _, prompt string) (string, error) {
	return m.answer(prompt)
}

func (m *mockClient) CompleteStructured(_ context.Context, _, prompt string, _ map[string]interface{}) (string, error) {
	return m.answer(prompt)
}

func (m *mockClient) Model() string { return "mock" }

// callCount returns how many recorded prompts contain the substring.
func (m *mockClient) callCount(match string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if strings.Contains(c, match) {
			n++
		}
	}
	return n
}

// mockSearcher answers search calls the same way.
type mockSearcher struct {
	mu    sync.Mutex
	rules []mockRule
	calls []string
}

func (m *mockSearcher) Search(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)
	for _, r := range m.rules {
		if strings.Contains(prompt, r.match) {
			return r.response, r.err
		}
	}
	return "", fmt.Errorf("mock: no rule matches search prompt %.80q", prompt)
}
