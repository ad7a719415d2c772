package secret

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExposeReturnsWrappedValue(t *testing.T) {
	v := New("hunter2")
	assert.Equal(t, "hunter2", v.Expose())
}

func TestStringRedacts(t *testing.T) {
	v := New("hunter2")
	assert.Equal(t, redacted, v.String())
	assert.Equal(t, redacted, fmt.Sprintf("%v", v))
	assert.Equal(t, redacted, fmt.Sprintf("%#v", v))
	assert.NotContains(t, fmt.Sprintf("%v", v), "hunter2")
}

func TestLogValueRedacts(t *testing.T) {
	v := New("hunter2")
	assert.Equal(t, slog.StringValue(redacted), v.LogValue())
}
