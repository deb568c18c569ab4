package sale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakturNumber(t *testing.T) {
	day := time.Date(2025, 3, 7, 14, 30, 0, 0, time.Local)

	assert.Equal(t, "INV-20250307-0001", FakturNumber(day, 1))
	assert.Equal(t, "INV-20250307-0042", FakturNumber(day, 42))
	assert.Equal(t, "INV-20250307-10000", FakturNumber(day, 10000))
}

func TestLegacyFaktur(t *testing.T) {
	assert.Equal(t, "INV-OLD-00007", LegacyFaktur(7))
	assert.Equal(t, "INV-OLD-12345", LegacyFaktur(12345))
	assert.Equal(t, "INV-OLD-123456", LegacyFaktur(123456))
}
