package auth

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestKeyringStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore("")

	if err := store.SetToken(" Alice ", "tok-1"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}

	got, err := store.GetToken("Alice")
	if err != nil {
		t.Fatalf("GetToken failed: %v", err)
	}
	if got != "tok-1" {
		t.Errorf("GetToken = %q, want %q", got, "tok-1")
	}

	if err := store.DeleteToken("Alice"); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}
	if _, err := store.GetToken("Alice"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound after delete, got %v", err)
	}
}

func TestKeyringStore_DeleteMissing(t *testing.T) {
	keyring.MockInit()
	store := NewKeyringStore(ServiceName)

	if err := store.DeleteToken("nobody"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestMockStore(t *testing.T) {
	store := NewMockStore()

	if _, err := store.GetToken("bob"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
	store.SetToken(" bob ", "tok-2")
	got, err := store.GetToken("bob")
	if err != nil || got != "tok-2" {
		t.Fatalf("GetToken = %q, %v; want tok-2", got, err)
	}
	if err := store.DeleteToken("bob"); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}
}

func TestStores_UserIDsAreCaseSensitive(t *testing.T) {
	keyring.MockInit()
	stores := map[string]Store{
		"keyring": NewKeyringStore(ServiceName),
		"mock":    NewMockStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_ = store.SetToken("Alice", "tok-upper")
			_ = store.SetToken("alice", "tok-lower")

			if got, _ := store.GetToken("Alice"); got != "tok-upper" {
				t.Errorf("GetToken(Alice) = %q, want tok-upper", got)
			}
			if err := store.DeleteToken("alice"); err != nil {
				t.Fatalf("DeleteToken(alice): %v", err)
			}
			if got, err := store.GetToken("Alice"); err != nil || got != "tok-upper" {
				t.Errorf("deleting alice removed Alice's token: (%q, %v)", got, err)
			}
		})
	}
}

func TestDefaultStore_Override(t *testing.T) {
	mock := NewMockStore()
	SetDefaultStore(mock)
	t.Cleanup(ResetDefaultStore)

	if err := DefaultStore().SetToken("alice", "tok"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	if got, err := mock.GetToken("alice"); err != nil || got != "tok" {
		t.Fatalf("override not used: got (%q, %v)", got, err)
	}

	ResetDefaultStore()
	if _, ok := DefaultStore().(*KeyringStore); !ok {
		t.Fatalf("DefaultStore after reset = %T, want *KeyringStore", DefaultStore())
	}
}
