package profile

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var idShapeRe = regexp.MustCompile(`^[A-Za-z0-9_-]{12}$`)

func TestGenIDDeterministic(t *testing.T) {
	a := &Idol{RealNameOriginal: "전보람", BirthDate: "1986-03-22"}
	b := &Idol{RealNameOriginal: "전보람", BirthDate: "1986-03-22", Name: "Boram"}
	require.Equal(t, a.GenID(), b.GenID(),
		"id must bind only to identity fields, not the whole record")
	require.Regexp(t, idShapeRe, a.GenID())

	c := &Idol{RealNameOriginal: "전보람", BirthDate: "1986-03-23"}
	require.NotEqual(t, a.GenID(), c.GenID())
	d := &Idol{RealNameOriginal: "전소연", BirthDate: "1986-03-22"}
	require.NotEqual(t, a.GenID(), d.GenID())
}

func TestGenIDGroup(t *testing.T) {
	g := &Group{NameOriginal: "티아라"}
	h := &Group{NameOriginal: "티아라", Name: "T-ara", AgencyName: "MBK"}
	require.Equal(t, g.GenID(), h.GenID())
	require.Regexp(t, idShapeRe, g.GenID())
	require.NotEqual(t, g.GenID(), (&Group{NameOriginal: "큐비에스"}).GenID())
}

func TestGenIDNoCollisions(t *testing.T) {
	seen := make(map[string]string, 2000)
	for i := 0; i < 1000; i++ {
		idol := &Idol{
			RealNameOriginal: fmt.Sprintf("이름%d", i),
			BirthDate:        fmt.Sprintf("19%02d-01-01", i%100),
		}
		id := idol.GenID()
		key := idol.RealNameOriginal + idol.BirthDate
		if prev, ok := seen[id]; ok {
			t.Fatalf("collision: %q and %q both hash to %s", prev, key, id)
		}
		seen[id] = key

		group := &Group{NameOriginal: fmt.Sprintf("그룹%d", i)}
		gid := group.GenID()
		if prev, ok := seen[gid]; ok {
			t.Fatalf("collision: %q and %q both hash to %s", prev, group.NameOriginal, gid)
		}
		seen[gid] = group.NameOriginal
	}
}
