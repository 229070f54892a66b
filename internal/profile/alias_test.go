package profile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlattenAlias(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Lim Chanmi (임찬미 (林澯美))", "Lim Chanmi, 임찬미, 林澯美"},
		{"Tae E (태이), Jian (지안)", "Tae E, 태이, Jian, 지안"},
		{"  Tae E ( 태이 ) ,  Jian(지안)", "Tae E, 태이, Jian, 지안"},
		{"Solji", "Solji"},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FlattenAlias(tt.in), "input %q", tt.in)
	}
}
