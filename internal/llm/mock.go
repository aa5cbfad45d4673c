package llm

import "context"

// MockClient is a Client for tests and offline use. Reply takes precedence;
// when nil, Chat echoes the user message.
type MockClient struct {
	Reply func(system, user string) (string, error)

	// Calls records every user message received.
	Calls []string
}

func (m *MockClient) Chat(ctx context.Context, system, user string) (string, error) {
	m.Calls = append(m.Calls, user)
	if m.Reply != nil {
		return m.Reply(system, user)
	}
	return user, nil
}
