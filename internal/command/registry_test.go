package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{"valid bounded", Spec{Name: "/clean", MinArgs: Bound(1), MaxArgs: Bound(1), Usage: "u"}, false},
		{"valid unbounded", Spec{Name: "/echo", Usage: "u"}, false},
		{"missing slash", Spec{Name: "clean", Usage: "u"}, true},
		{"whitespace in name", Spec{Name: "/set bin", Usage: "u"}, true},
		{"no-break space in name", Spec{Name: "/set\u00a0bin", Usage: "u"}, true},
		{"em space in name", Spec{Name: "/set\u2003bin", Usage: "u"}, true},
		{"negative min", Spec{Name: "/x", MinArgs: Bound(-1), Usage: "u"}, true},
		{"negative max", Spec{Name: "/x", MaxArgs: Bound(-1), Usage: "u"}, true},
		{"min above max", Spec{Name: "/x", MinArgs: Bound(3), MaxArgs: Bound(2), Usage: "u"}, true},
		{"missing usage", Spec{Name: "/x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSpec_Accepts(t *testing.T) {
	s := Spec{Name: "/x", MinArgs: Bound(1), MaxArgs: Bound(2), Usage: "u"}
	assert.False(t, s.Accepts(0))
	assert.True(t, s.Accepts(1))
	assert.True(t, s.Accepts(2))
	assert.False(t, s.Accepts(3))

	open := Spec{Name: "/y", Usage: "u"}
	assert.True(t, open.Accepts(0))
	assert.True(t, open.Accepts(1000))
}

func TestNewRegistry(t *testing.T) {
	t.Run("rejects empty", func(t *testing.T) {
		_, err := NewRegistry()
		assert.Error(t, err)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := NewRegistry(
			Spec{Name: "/a", Usage: "u"},
			Spec{Name: "/a", Usage: "v"},
		)
		assert.ErrorContains(t, err, "duplicate command /a")
	})

	t.Run("rejects invalid spec", func(t *testing.T) {
		_, err := NewRegistry(Spec{Name: "a", Usage: "u"})
		assert.Error(t, err)
	})

	t.Run("lookup and sorted specs", func(t *testing.T) {
		reg, err := NewRegistry(
			Spec{Name: "/b", Usage: "b"},
			Spec{Name: "/a", Usage: "a"},
		)
		require.NoError(t, err)
		assert.Equal(t, 2, reg.Len())

		s, ok := reg.Lookup("/a")
		require.True(t, ok)
		assert.Equal(t, "a", s.Usage)

		_, ok = reg.Lookup("/c")
		assert.False(t, ok)

		specs := reg.Specs()
		require.Len(t, specs, 2)
		assert.Equal(t, "/a", specs[0].Name)
		assert.Equal(t, "/b", specs[1].Name)
	})

	t.Run("nil registry is empty", func(t *testing.T) {
		var reg *Registry
		_, ok := reg.Lookup("/a")
		assert.False(t, ok)
		assert.Equal(t, 0, reg.Len())
		assert.Nil(t, reg.Specs())
	})
}
