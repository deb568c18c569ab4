package receipt

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tokopos/internal/core/types"
)

func TestReceipt_Path(t *testing.T) {
	r := &Receipt{
		Faktur: "INV-20250307-0012",
		Time:   time.Date(2025, 3, 7, 14, 30, 0, 0, time.Local),
	}

	want := filepath.Join("struk", "2025-03-07", "struk_INV-20250307-0012.pdf")
	assert.Equal(t, want, r.Path("struk"))

	// Re-rendering the same sale targets the same file.
	assert.Equal(t, r.Path("struk"), r.Path("struk"))
}

func TestReceipt_FormattedTime(t *testing.T) {
	r := &Receipt{Time: time.Date(2025, 3, 7, 14, 5, 0, 0, time.Local)}
	assert.Equal(t, "07/03/2025 14:05", r.FormattedTime())
}

func TestNullRenderer(t *testing.T) {
	r := &Receipt{Faktur: "INV-20250307-0001", Total: types.MustMoney("1000")}
	assert.NoError(t, NullRenderer{}.Render(t.Context(), r, "x.pdf"))
}
