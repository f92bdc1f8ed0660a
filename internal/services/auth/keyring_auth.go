package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetToken(userID string, token string) error {
	return keyring.Set(k.serviceName, NormalizeUserID(userID), token)
}

func (k *KeyringStore) GetToken(userID string) (string, error) {
	token, err := keyring.Get(k.serviceName, NormalizeUserID(userID))
	if err == nil {
		return token, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrTokenNotFound
	}
	return "", err
}

func (k *KeyringStore) DeleteToken(userID string) error {
	err := keyring.Delete(k.serviceName, NormalizeUserID(userID))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrTokenNotFound
	}
	return err
}
