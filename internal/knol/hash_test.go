package knol

import (
	"crypto/sha256"
	"fmt"
	"testing"

	"github.com/conorfennell/kanadrill/internal/domain"
)

func TestNormalize(t *testing.T) {
	item := domain.Item{
		Front: "  あ \r\n",
		Back:  " A ",
	}
	expected := "あ\nA"
	normalized := Normalize(item)

	if normalized != expected {
		t.Errorf("Expected normalized string to be '%s', but got '%s'", expected, normalized)
	}
}

func TestHash(t *testing.T) {
	t.Run("generates correct hash", func(t *testing.T) {
		item := domain.Item{Front: "あ", Back: "a"}
		expectedHash := fmt.Sprintf("%x", sha256.Sum256([]byte("あ\na")))
		hash := Hash(item)

		if hash != expectedHash {
			t.Errorf("Expected hash '%s', but got '%s'", expectedHash, hash)
		}
	})

	t.Run("hash is deterministic", func(t *testing.T) {
		item1 := domain.Item{Front: "ア", Back: "a"}
		item2 := domain.Item{Front: "ア", Back: "a"}
		if Hash(item1) != Hash(item2) {
			t.Error("Expected hashes for identical items to be the same")
		}
	})

	t.Run("surrounding whitespace does not change the hash", func(t *testing.T) {
		item1 := domain.Item{Front: " か ", Back: "ka"}
		item2 := domain.Item{Front: "か", Back: "ka "}
		if Hash(item1) != Hash(item2) {
			t.Error("Expected hashes to be the same after normalization, but they were different.")
		}
	})

	t.Run("case changes the hash", func(t *testing.T) {
		item1 := domain.Item{Front: "か", Back: "ka"}
		item2 := domain.Item{Front: "か", Back: "KA"}
		if Hash(item1) == Hash(item2) {
			t.Error("Expected hashes for differently cased answers to be different")
		}
	})

	t.Run("sides do not run together", func(t *testing.T) {
		item1 := domain.Item{Front: "ab", Back: "c"}
		item2 := domain.Item{Front: "a", Back: "bc"}
		if Hash(item1) == Hash(item2) {
			t.Error("Expected hashes for different items to be different")
		}
	})
}
