package memory

import (
	"testing"

	"github.com/hongminglow/rentalctl/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, New())
}
