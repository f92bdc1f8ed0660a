package auth

// MockStore is an in-memory auth store for testing.
type MockStore struct {
	tokens map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{tokens: make(map[string]string)}
}

func (m *MockStore) SetToken(userID string, token string) error {
	m.tokens[NormalizeUserID(userID)] = token
	return nil
}

func (m *MockStore) GetToken(userID string) (string, error) {
	token, ok := m.tokens[NormalizeUserID(userID)]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (m *MockStore) DeleteToken(userID string) error {
	key := NormalizeUserID(userID)
	if _, ok := m.tokens[key]; !ok {
		return ErrTokenNotFound
	}
	delete(m.tokens, key)
	return nil
}
