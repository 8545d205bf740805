package planner

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/reagent/domain/agent"
	"github.com/felixgeelhaar/reagent/domain/oracle"
)

// MockModel returns a predefined sequence of replies for testing.
type MockModel struct {
	replies []oracle.Reply
	index   int
	mu      sync.Mutex
}

// NewMockModel creates a mock model with the given replies.
func NewMockModel(replies ...oracle.Reply) *MockModel {
	return &MockModel{
		replies: replies,
		index:   0,
	}
}

// Respond returns the next reply in the sequence.
func (m *MockModel) Respond(_ context.Context, _ agent.Trace) (oracle.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index >= len(m.replies) {
		// Default to submitting once the script runs out
		return oracle.Reply{
			Thought: "nothing left to do",
			Action:  agent.NewSubmitAction("done"),
			Cost:    1,
		}, nil
	}

	reply := m.replies[m.index]
	m.index++
	return reply, nil
}

// Reset resets the model to the beginning of its sequence.
func (m *MockModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = 0
}

// Remaining returns the number of remaining replies.
func (m *MockModel) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replies) - m.index
}

// AddReply appends a reply to the sequence.
func (m *MockModel) AddReply(r oracle.Reply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, r)
}
