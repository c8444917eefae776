package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{input: "success", want: KindSuccess},
		{input: "ERROR", want: KindError},
		{input: " warning ", want: KindWarning},
		{input: "info", want: KindInfo},
		{input: "loading", want: KindLoading},
		{input: "fatal", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Kind {
	t.Helper()
	k, err := ParseKind(s)
	require.NoError(t, err)
	return k
}

func TestKindIconsDistinct(t *testing.T) {
	seen := map[string]Kind{}
	for _, k := range []Kind{KindSuccess, KindError, KindWarning, KindInfo, KindLoading} {
		icon := k.Icon()
		_, dup := seen[icon]
		assert.False(t, dup, "icon %q reused", icon)
		seen[icon] = k
	}
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestPolicyFor(t *testing.T) {
	p := Policy{Success: time.Second, Warning: -time.Second}
	assert.Equal(t, time.Second, p.For(KindSuccess))
	assert.Zero(t, p.For(KindWarning), "negative durations clamp to persist")
	assert.Zero(t, p.For(Kind(99)))
}
